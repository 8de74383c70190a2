package lsystem_test

import (
	"fmt"

	"github.com/matzehuels/sprout/pkg/lsystem"
)

func ExampleEngine_Nth() {
	e := lsystem.New(lsystem.Axiom(), lsystem.Branching, lsystem.Presets["leaf"])
	fmt.Println(e.Sentence())

	s := e.Nth(1)
	fmt.Println(len(s), s.Terminals())
	fmt.Println(s[:22])
	// Output:
	// [{A(0, true).}][{A(0, false).}]
	// 44 38
	// [{.G(5, 1).[+B(0)G(0, 1, 0).}][+B(0){.]A(1, true).}]
}

func ExampleEngine_Generations() {
	e := lsystem.New(lsystem.Axiom(), lsystem.Branching, lsystem.Presets["simple"])
	for n, s := range e.Generations() {
		if n == 4 {
			break
		}
		fmt.Println(n, len(s))
	}
	// Output:
	// 0 12
	// 1 44
	// 2 76
	// 3 108
}

func ExampleValidate() {
	s, _ := lsystem.ParseSentence("[{.}]]")
	fmt.Println(lsystem.Validate(s))
	// Output:
	// UNBALANCED_SENTENCE: pop_state at symbol 5 with empty pose stack
}
