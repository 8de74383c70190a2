package lsystem

// Rule rewrites one symbol into the symbols that replace it in the next
// generation. A rule must be pure: the same symbol and parameters always
// produce the same output.
type Rule func(Symbol, Parameters) []Symbol

// freezeThreshold is the potential at or below which growth stops.
const freezeThreshold = 1.0

// Axiom returns the canonical generation-0 sentence: two mirrored branches,
// each wrapped in its own pose save and polygon scope.
func Axiom() Sentence {
	return Sentence{
		PushState(), OpenPolygon(), MainApex(0, true), Vertex(), ClosePolygon(), PopState(),
		PushState(), OpenPolygon(), MainApex(0, false), Vertex(), ClosePolygon(), PopState(),
	}
}

// Branching is the canonical leaf/plant rule.
//
// A main apex emits one growth event of its axis: a main segment, a notch
// segment on the branch side that closes the running polygon, a new side
// apex that opens the next polygon, and the apex itself with potential
// raised by one. Side apices grow one segment per generation while their
// potential exceeds 1. Grow symbols compound their length; those carrying
// a potential freeze once it reaches 1.
func Branching(s Symbol, p Parameters) []Symbol {
	switch s.Kind {
	case KindGrow:
		return []Symbol{growNext(s, p)}
	case KindMainApex:
		return mainApexTemplate(s, p)
	case KindSideApex:
		if s.Potential > freezeThreshold {
			return []Symbol{
				Grow(p.SideLength, p.SideGrowthRate),
				SideApex(s.Potential - p.PotentialDecrement),
			}
		}
		return []Symbol{s}
	case KindVertex, KindTurnPositive, KindTurnNegative,
		KindPushState, KindPopState, KindOpenPolygon, KindClosePolygon:
		return []Symbol{s}
	}
	return []Symbol{s}
}

func growNext(s Symbol, p Parameters) Symbol {
	if !s.HasPotential {
		return Grow(s.Length*s.GrowthRate, s.GrowthRate)
	}
	if s.Potential > freezeThreshold {
		return GrowWithPotential(s.Length*s.GrowthRate, s.GrowthRate, s.Potential-p.PotentialDecrement)
	}
	return s
}

func mainApexTemplate(s Symbol, p Parameters) []Symbol {
	t, dir := s.Potential, s.Direction
	return []Symbol{
		Vertex(),
		Grow(p.MainLength, p.MainGrowthRate),
		Vertex(),
		PushState(),
		Turn(dir),
		SideApex(t),
		GrowWithPotential(p.NotchLength, p.NotchGrowthRate, t),
		Vertex(),
		ClosePolygon(),
		PopState(),
		PushState(),
		Turn(dir),
		SideApex(t),
		OpenPolygon(),
		Vertex(),
		PopState(),
		MainApex(t+1, dir),
	}
}

// Identity is a rule under which every symbol is a fixed point.
func Identity(s Symbol, _ Parameters) []Symbol {
	return []Symbol{s}
}
