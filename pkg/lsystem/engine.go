package lsystem

import "iter"

// Engine holds the current generation of an L-system and advances it with
// a rule. It has no failure modes and no internal step limit: callers
// choose how many generations to produce.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	axiom      Sentence
	rule       Rule
	params     Parameters
	sentence   Sentence
	generation int
}

// New creates an engine whose generation 0 is axiom. The axiom is copied.
// A nil rule behaves as [Identity].
func New(axiom Sentence, rule Rule, params Parameters) *Engine {
	if rule == nil {
		rule = Identity
	}
	return &Engine{
		axiom:    axiom.Clone(),
		rule:     rule,
		params:   params,
		sentence: axiom.Clone(),
	}
}

// Parameters returns the parameter record the engine rewrites with.
func (e *Engine) Parameters() Parameters { return e.params }

// Generation returns the number of steps applied since the last reset.
func (e *Engine) Generation() int { return e.generation }

// Sentence returns the current generation. The returned slice is owned by
// the engine until the next Step replaces it; callers must not modify it.
func (e *Engine) Sentence() Sentence { return e.sentence }

// Step replaces the current sentence with the concatenation of the rule
// applied to every symbol, in order.
func (e *Engine) Step() {
	e.sentence = rewrite(e.sentence, e.rule, e.params)
	e.generation++
}

// Nth applies Step exactly n times from the current state and returns the
// resulting sentence. Calls compound: Nth(2) followed by Nth(3) leaves the
// engine at generation 5 unless [Engine.Reset] is called in between.
func (e *Engine) Nth(n int) Sentence {
	for i := 0; i < n; i++ {
		e.Step()
	}
	return e.sentence
}

// Reset returns the engine to generation 0.
func (e *Engine) Reset() {
	e.sentence = e.axiom.Clone()
	e.generation = 0
}

// Generations returns a lazy, unbounded sequence of (generation, sentence)
// pairs starting at the axiom. Every iteration restarts from scratch and
// leaves the engine untouched; stop by breaking out of the loop:
//
//	for n, s := range e.Generations() {
//	    if n == 8 {
//	        break
//	    }
//	    fmt.Println(n, len(s))
//	}
func (e *Engine) Generations() iter.Seq2[int, Sentence] {
	axiom, rule, params := e.axiom, e.rule, e.params
	return func(yield func(int, Sentence) bool) {
		current := axiom.Clone()
		for n := 0; ; n++ {
			if !yield(n, current) {
				return
			}
			current = rewrite(current, rule, params)
		}
	}
}

func rewrite(in Sentence, rule Rule, params Parameters) Sentence {
	out := make(Sentence, 0, len(in)*2)
	for _, sym := range in {
		out = append(out, rule(sym, params)...)
	}
	return out
}
