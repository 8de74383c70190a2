package lsystem

import (
	"testing"

	"github.com/matzehuels/sprout/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", false},
		{"axiom", Axiom().String(), false},
		{"nested", "[{[{.}]}]", false},
		{"independent stacks", "[{]}", false},
		{"pop first", "][", true},
		{"close first", "}{", true},
		{"dangling push", "[[]", true},
		{"dangling open", "{.", true},
		{"template alone", ".G(1, 1).[+B(0)G(1, 1, 0).}][+B(0){.]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSentence(tt.text)
			if err != nil {
				t.Fatalf("ParseSentence: %v", err)
			}
			err = Validate(s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeUnbalanced) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeUnbalanced)
			}
		})
	}
}

func TestDepths(t *testing.T) {
	s, _ := ParseSentence("[[{]{{}}]]")
	pose, poly := Depths(s)
	if pose != 2 || poly != 3 {
		t.Errorf("Depths() = (%d, %d), want (2, 3)", pose, poly)
	}
}
