package util

// StackElement holds one entry in a Stack's backing linked list.
// Adapted from the teacher's util.Stack/StackElement.
type StackElement struct {
	E    interface{}
	next *StackElement
}

// Stack is a general-purpose linked-list stack. The code generator does
// not use it: its variable-scope and loop continue/break stacks are
// plain slices (Generator.scopes, Generator.loops). Unlike the
// teacher's Stack, this one carries no mutex:
// spec §5 mandates a single-threaded compiler, so the teacher's
// sync.Mutex is dead weight a faithful rewrite drops rather than keeps.
type Stack struct {
	size   int
	bottom *StackElement
	top    *StackElement
}

// Push adds e to the top of the stack. Nil values are not stored.
func (s *Stack) Push(e interface{}) {
	if e == nil {
		return
	}
	se := &StackElement{E: e}
	if s.size == 0 {
		s.bottom = se
		s.top = se
	} else {
		s.top.next = se
		s.top = se
	}
	s.size++
}

// Pop removes and returns the top element, or nil if the stack is
// empty.
func (s *Stack) Pop() interface{} {
	if s.size == 0 {
		return nil
	}
	if s.size == 1 {
		e := s.bottom
		s.bottom, s.top = nil, nil
		s.size--
		return e.E
	}
	prev := s.bottom
	for prev.next != s.top {
		prev = prev.next
	}
	e := s.top
	s.top = prev
	s.top.next = nil
	s.size--
	return e.E
}

// Peek returns the top element without removing it, or nil if empty.
func (s *Stack) Peek() interface{} {
	if s.size == 0 {
		return nil
	}
	return s.top.E
}

// Size returns the number of elements on the stack.
func (s *Stack) Size() int { return s.size }

// Get returns the nth element counting from the top, 1-indexed
// (Get(1) == Peek()). Returns nil if n is out of range.
func (s *Stack) Get(n int) interface{} {
	if n < 1 || n > s.size {
		return nil
	}
	e := s.bottom
	for i := 0; i < s.size-n; i++ {
		e = e.next
	}
	return e.E
}
