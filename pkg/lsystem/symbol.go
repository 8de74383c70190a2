package lsystem

import (
	"strconv"
	"strings"
)

// Kind identifies one of the closed set of grammar letters.
type Kind uint8

const (
	// KindVertex records the turtle position as a polygon boundary point.
	KindVertex Kind = iota
	// KindGrow moves the turtle forward by its length.
	KindGrow
	// KindMainApex is the non-terminal driving the main axis.
	KindMainApex
	// KindSideApex is the non-terminal driving a lateral axis.
	KindSideApex
	// KindTurnPositive rotates the heading by +angle.
	KindTurnPositive
	// KindTurnNegative rotates the heading by -angle.
	KindTurnNegative
	// KindPushState saves the turtle pose.
	KindPushState
	// KindPopState restores the last saved pose.
	KindPopState
	// KindOpenPolygon starts a nested point buffer.
	KindOpenPolygon
	// KindClosePolygon emits the current point buffer as a polygon.
	KindClosePolygon

	numKinds
)

var kindNames = [numKinds]string{
	KindVertex:       "vertex",
	KindGrow:         "grow",
	KindMainApex:     "main_apex",
	KindSideApex:     "side_apex",
	KindTurnPositive: "turn_positive",
	KindTurnNegative: "turn_negative",
	KindPushState:    "push_state",
	KindPopState:     "pop_state",
	KindOpenPolygon:  "open_polygon",
	KindClosePolygon: "close_polygon",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds returns every symbol kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// IsApex reports whether the kind is a non-terminal the turtle ignores.
func (k Kind) IsApex() bool {
	return k == KindMainApex || k == KindSideApex
}

// Symbol is one immutable grammar letter. Only the fields relevant to its
// Kind are meaningful:
//
//   - Grow: Length, GrowthRate, and Potential when HasPotential is set
//   - MainApex: Potential and Direction
//   - SideApex: Potential
//
// Symbols are comparable with ==. Build them with the constructors below.
type Symbol struct {
	Kind         Kind
	Length       float64
	GrowthRate   float64
	Potential    float64
	HasPotential bool
	Direction    bool
}

// Vertex returns a vertex symbol.
func Vertex() Symbol { return Symbol{Kind: KindVertex} }

// Grow returns a grow symbol that compounds forever.
func Grow(length, growthRate float64) Symbol {
	return Symbol{Kind: KindGrow, Length: length, GrowthRate: growthRate}
}

// GrowWithPotential returns a grow symbol that freezes once its potential
// has decayed to 1 or below.
func GrowWithPotential(length, growthRate, potential float64) Symbol {
	return Symbol{Kind: KindGrow, Length: length, GrowthRate: growthRate, Potential: potential, HasPotential: true}
}

// MainApex returns a main-axis apex. Direction true branches with
// positive turns, false with negative turns.
func MainApex(potential float64, direction bool) Symbol {
	return Symbol{Kind: KindMainApex, Potential: potential, Direction: direction}
}

// SideApex returns a lateral apex.
func SideApex(potential float64) Symbol {
	return Symbol{Kind: KindSideApex, Potential: potential}
}

// TurnPositive returns a positive turn.
func TurnPositive() Symbol { return Symbol{Kind: KindTurnPositive} }

// TurnNegative returns a negative turn.
func TurnNegative() Symbol { return Symbol{Kind: KindTurnNegative} }

// Turn returns TurnPositive when direction is true and TurnNegative otherwise.
func Turn(direction bool) Symbol {
	if direction {
		return TurnPositive()
	}
	return TurnNegative()
}

// PushState returns a pose push.
func PushState() Symbol { return Symbol{Kind: KindPushState} }

// PopState returns a pose pop.
func PopState() Symbol { return Symbol{Kind: KindPopState} }

// OpenPolygon returns a point-buffer push.
func OpenPolygon() Symbol { return Symbol{Kind: KindOpenPolygon} }

// ClosePolygon returns a point-buffer pop that emits a polygon.
func ClosePolygon() Symbol { return Symbol{Kind: KindClosePolygon} }

// IsTerminal reports whether s maps to a turtle command rather than being
// an apex non-terminal.
func (s Symbol) IsTerminal() bool {
	return !s.Kind.IsApex()
}

// String renders the symbol in the canonical L-system notation.
func (s Symbol) String() string {
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

func (s Symbol) writeTo(b *strings.Builder) {
	switch s.Kind {
	case KindVertex:
		b.WriteByte('.')
	case KindGrow:
		b.WriteString("G(")
		b.WriteString(formatFloat(s.Length))
		b.WriteString(", ")
		b.WriteString(formatFloat(s.GrowthRate))
		if s.HasPotential {
			b.WriteString(", ")
			b.WriteString(formatFloat(s.Potential))
		}
		b.WriteByte(')')
	case KindMainApex:
		b.WriteString("A(")
		b.WriteString(formatFloat(s.Potential))
		b.WriteString(", ")
		b.WriteString(strconv.FormatBool(s.Direction))
		b.WriteByte(')')
	case KindSideApex:
		b.WriteString("B(")
		b.WriteString(formatFloat(s.Potential))
		b.WriteByte(')')
	case KindTurnPositive:
		b.WriteByte('+')
	case KindTurnNegative:
		b.WriteByte('-')
	case KindPushState:
		b.WriteByte('[')
	case KindPopState:
		b.WriteByte(']')
	case KindOpenPolygon:
		b.WriteByte('{')
	case KindClosePolygon:
		b.WriteByte('}')
	default:
		b.WriteByte('?')
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
