package lsystem

import "github.com/matzehuels/sprout/pkg/errors"

// Validate checks that pose pushes and pops, and polygon opens and closes,
// balance in every prefix of s and return to zero at the end. It reports
// the first violation as an [errors.ErrCodeUnbalanced] error. The two
// stacks are checked independently.
func Validate(s Sentence) error {
	pose, poly := 0, 0
	for i, sym := range s {
		switch sym.Kind {
		case KindPushState:
			pose++
		case KindPopState:
			if pose == 0 {
				return errors.New(errors.ErrCodeUnbalanced, "pop_state at symbol %d with empty pose stack", i)
			}
			pose--
		case KindOpenPolygon:
			poly++
		case KindClosePolygon:
			if poly == 0 {
				return errors.New(errors.ErrCodeUnbalanced, "close_polygon at symbol %d with empty polygon stack", i)
			}
			poly--
		}
	}
	if pose != 0 {
		return errors.New(errors.ErrCodeUnbalanced, "%d pose push(es) never popped", pose)
	}
	if poly != 0 {
		return errors.New(errors.ErrCodeUnbalanced, "%d polygon(s) never closed", poly)
	}
	return nil
}

// Depths returns the maximum pose-stack and polygon-stack depths reached
// while scanning s. Underflowing pops are ignored.
func Depths(s Sentence) (maxPose, maxPolygon int) {
	pose, poly := 0, 0
	for _, sym := range s {
		switch sym.Kind {
		case KindPushState:
			pose++
			maxPose = max(maxPose, pose)
		case KindPopState:
			pose = max(pose-1, 0)
		case KindOpenPolygon:
			poly++
			maxPolygon = max(maxPolygon, poly)
		case KindClosePolygon:
			poly = max(poly-1, 0)
		}
	}
	return maxPose, maxPolygon
}
