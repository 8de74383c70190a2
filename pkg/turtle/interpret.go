package turtle

import (
	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
)

// pose is the part of the turtle state saved by PushState.
type pose[P, H any] struct {
	pos     P
	heading H
}

// frame supplies the coordinate-specific parts of a turtle: where it
// starts, how it moves, and how it turns.
type frame[P, H any] interface {
	start() pose[P, H]
	forward(p pose[P, H], length float64) P
	turn(heading H, positive bool) H
}

// run executes s against f. Polygons are returned in close order, each with
// its points in vertex order.
func run[P, H any](s lsystem.Sentence, f frame[P, H]) ([][]P, error) {
	var (
		cur     = f.start()
		poses   stack[pose[P, H]]
		buffers stack[[]P]
		buffer  []P
		out     [][]P
	)

	for i, sym := range s {
		switch sym.Kind {
		case lsystem.KindVertex:
			buffer = append(buffer, cur.pos)
		case lsystem.KindGrow:
			cur.pos = f.forward(cur, sym.Length)
		case lsystem.KindTurnPositive:
			cur.heading = f.turn(cur.heading, true)
		case lsystem.KindTurnNegative:
			cur.heading = f.turn(cur.heading, false)
		case lsystem.KindPushState:
			poses.push(cur)
		case lsystem.KindPopState:
			prev, ok := poses.pop()
			if !ok {
				return nil, underflow("pose", sym, i)
			}
			cur = prev
		case lsystem.KindOpenPolygon:
			buffers.push(buffer)
			buffer = nil
		case lsystem.KindClosePolygon:
			prev, ok := buffers.pop()
			if !ok {
				return nil, underflow("buffer", sym, i)
			}
			out = append(out, buffer)
			buffer = prev
		case lsystem.KindMainApex, lsystem.KindSideApex:
			// no-op
		default:
			return nil, errors.New(errors.ErrCodeInternal, "unknown symbol kind %d at symbol %d", sym.Kind, i)
		}
	}
	return out, nil
}

func underflow(stackName string, sym lsystem.Symbol, index int) error {
	return errors.New(errors.ErrCodeStackUnderflow, "%s at symbol %d: %s stack is empty", sym.Kind, index, stackName)
}
