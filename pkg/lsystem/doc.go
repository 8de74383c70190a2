// Package lsystem implements a parametric L-system: a parallel string
// rewriting grammar whose symbols carry both growth state and turtle
// commands.
//
// # Overview
//
// A sentence is an ordered slice of [Symbol] values. Each call to
// [Engine.Step] replaces every symbol with the sequence returned by the
// engine's [Rule], concatenated in order, forming the next generation.
// Terminal symbols (turns, stack markers, polygon markers) rewrite to
// themselves; the apex non-terminals expand into growth templates.
//
// The canonical rule, [Branching], models a leaf or plant axis. A
// [KindMainApex] symbol expands into one growth event of the axis followed
// by a new apex, so the grammar never terminates by itself. The number of
// generations is always chosen by the caller:
//
//	e := lsystem.New(lsystem.Axiom(), lsystem.Branching, lsystem.Presets["leaf"])
//	sentence := e.Nth(10)
//
// # Numeric Semantics
//
// [KindGrow] symbols compound their length by their growth rate every
// generation. A grow symbol that carries a potential loses
// [Parameters.PotentialDecrement] per generation and freezes once the
// potential is at or below 1. Side apices keep emitting grow segments
// while their potential is above 1.
//
// # Text Notation
//
// [Sentence.String] renders the classic bracketed L-system notation and
// [ParseSentence] reads it back:
//
//	[{.G(5, 1).[+B(0)G(0, 1, 0).}][+B(0){.]A(1, true).}]
//
// # Validation
//
// [Validate] scans a sentence for pose-stack and polygon-stack balance
// without interpreting it. The grammar's templates are balanced by
// construction; Validate exists for tests and for sentences read from text.
package lsystem
