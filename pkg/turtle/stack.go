package turtle

// stack is a LIFO used for both the pose stack and the buffer stack.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

// pop removes and returns the top element. ok is false on an empty stack.
func (s *stack[T]) pop() (v T, ok bool) {
	n := len(s.items)
	if n == 0 {
		return v, false
	}
	v = s.items[n-1]
	var zero T
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}
