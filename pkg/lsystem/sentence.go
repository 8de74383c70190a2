package lsystem

import "strings"

// Sentence is an ordered sequence of symbols. Order is execution order
// for the turtle.
type Sentence []Symbol

// String renders the sentence in the canonical notation by concatenating
// the rendering of every symbol.
func (s Sentence) String() string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, sym := range s {
		sym.writeTo(&b)
	}
	return b.String()
}

// Count returns the number of symbols of the given kind.
func (s Sentence) Count(kind Kind) int {
	n := 0
	for _, sym := range s {
		if sym.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns the number of symbols per kind, indexed by Kind.
func (s Sentence) Counts() map[Kind]int {
	counts := make(map[Kind]int, numKinds)
	for _, sym := range s {
		counts[sym.Kind]++
	}
	return counts
}

// Terminals returns the number of symbols that are not apex non-terminals.
func (s Sentence) Terminals() int {
	n := 0
	for _, sym := range s {
		if sym.IsTerminal() {
			n++
		}
	}
	return n
}

// Clone returns a copy of s that shares no storage with it.
func (s Sentence) Clone() Sentence {
	if s == nil {
		return nil
	}
	out := make(Sentence, len(s))
	copy(out, s)
	return out
}
