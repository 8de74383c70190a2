package lsystem

import "testing"

func TestSymbolString(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want string
	}{
		{Vertex(), "."},
		{Grow(5, 1), "G(5, 1)"},
		{GrowWithPotential(0.6, 1.06, 2.5), "G(0.6, 1.06, 2.5)"},
		{MainApex(0, true), "A(0, true)"},
		{MainApex(3, false), "A(3, false)"},
		{SideApex(0.25), "B(0.25)"},
		{TurnPositive(), "+"},
		{TurnNegative(), "-"},
		{PushState(), "["},
		{PopState(), "]"},
		{OpenPolygon(), "{"},
		{ClosePolygon(), "}"},
	}
	for _, tt := range tests {
		if got := tt.sym.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.sym.Kind, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range Kinds() {
		name := k.String()
		if name == "" || seen[name] {
			t.Errorf("kind %d has empty or duplicate name %q", k, name)
		}
		seen[name] = true
	}
	if got := Kind(200).String(); got != "kind(200)" {
		t.Errorf("unknown kind String() = %q", got)
	}
}

func TestTurn(t *testing.T) {
	if Turn(true) != TurnPositive() || Turn(false) != TurnNegative() {
		t.Error("Turn(direction) should map true to positive and false to negative")
	}
}

func TestSentenceCounts(t *testing.T) {
	s := Axiom()
	counts := s.Counts()
	if counts[KindPushState] != 2 || counts[KindMainApex] != 2 || counts[KindVertex] != 2 {
		t.Errorf("unexpected axiom counts: %v", counts)
	}
	if s.Terminals() != len(s)-2 {
		t.Errorf("Terminals() = %d, want %d", s.Terminals(), len(s)-2)
	}
}
