// Package turtle interprets finished L-system sentences as drawing-head
// commands and collects the closed polygons they trace.
//
// # Overview
//
// A turtle walks a sentence once, left to right, and applies exactly one
// state transition per symbol:
//
//	.   append the current position to the open point buffer
//	G   move forward along the heading by the symbol's length
//	+   turn by +angle
//	-   turn by -angle
//	[   push (position, heading) onto the pose stack
//	]   pop the pose stack
//	{   push the point buffer and start an empty one
//	}   emit the point buffer as a polygon and pop the previous buffer
//
// Apex symbols left over from an under-stepped derivation are ignored, so
// the geometry is simply incomplete.
//
// # Variants
//
// [Interpret] runs in the plane with float64 [gg.Point] coordinates and a
// scalar heading that starts at zero. [Interpret3D] is the single-precision
// spatial variant: the heading is a rotation about the z axis, starting at
// π/4, applied to the (1, 1, 1) direction vector.
//
// # Errors
//
// A pop on an empty pose stack or a close on an empty buffer stack aborts
// the run with an [errors.ErrCodeStackUnderflow] error naming the stack and
// the symbol index. No partial output is returned. Use [lsystem.Validate]
// to check a sentence before interpreting it.
//
// [gg.Point]: https://pkg.go.dev/github.com/gogpu/gg#Point
package turtle
