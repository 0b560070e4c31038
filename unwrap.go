// unwrap.go — cycle-safe traversal over single- and multi-wrapped errors.
//
// Comparable errors are tracked by value and other pointers by address, since
// non-comparable dynamic types panic as map keys.
package errtype

import (
	"reflect"
)

type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

const maxWalkDepth = 1 << 12

type seenSet struct {
	err map[error]struct{}
	ptr map[uintptr]struct{}
}

// mark returns true if err was newly marked.
func (s *seenSet) mark(err error) bool {
	if err == nil {
		return false
	}
	if reflect.TypeOf(err).Comparable() {
		if _, dup := s.err[err]; dup {
			return false
		}
		s.err[err] = struct{}{}
		return true
	}
	if rv := reflect.ValueOf(err); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		id := rv.Pointer()
		if _, dup := s.ptr[id]; dup {
			return false
		}
		s.ptr[id] = struct{}{}
	}
	return true
}

// Walk visits each distinct error in err's unwrap graph in pre-order
// (visit before children, causes left to right). It stops when visit returns
// false. nil is a no-op.
func Walk(err error, visit func(error) bool) {
	if err == nil || visit == nil {
		return
	}
	seen := &seenSet{
		err: make(map[error]struct{}, 8),
		ptr: make(map[uintptr]struct{}, 8),
	}
	stack := make([]error, 0, 8)
	stack = append(stack, err)
	seen.mark(err)

	for len(stack) > 0 && len(stack) < maxWalkDepth {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur) {
			return
		}

		switch u := cur.(type) {
		case multiUnwrapper:
			kids := u.Unwrap()
			for i := len(kids) - 1; i >= 0; i-- {
				if kids[i] != nil && seen.mark(kids[i]) {
					stack = append(stack, kids[i])
				}
			}
		case singleUnwrapper:
			if c := u.Unwrap(); c != nil && seen.mark(c) {
				stack = append(stack, c)
			}
		}
	}
}
