// error.go — the instance protocol stamped onto every produced type.
//
// An *Error is fully built by the time a constructor returns: its type,
// message, causes, slots and trace never change afterwards. With returns a
// NEW instance (copy-on-write), so shared instances are safe to read from
// many goroutines without synchronization.
package errtype

import (
	"errors"
	"fmt"
)

// Field access violations.
var (
	ErrUnknownField  = errors.New("errtype: unknown field")
	ErrReadOnlyField = errors.New("errtype: field is read-only")
)

// Error is an instance of a produced Type. Instances come from the
// constructors; the zero Error behaves as a Base instance with no message,
// fields, causes or trace.
type Error struct {
	typ    *Type
	msg    string
	causes []error
	slots  slots
	stk    Stack
	trace  string
}

// Error renders "<name>: <message>", or just the name when the message is empty.
func (e *Error) Error() string {
	name := e.Name()
	switch {
	case e.msg == "":
		return name
	case name == "":
		return e.msg
	}
	return name + ": " + e.msg
}

// Name reports the kind of the instance.
func (e *Error) Name() string { return e.kind().name }

// kind is the instance's type, Base for the zero Error.
func (e *Error) kind() *Type {
	if e.typ == nil {
		return Base
	}
	return e.typ
}

// Message returns the human-readable description.
func (e *Error) Message() string { return e.msg }

// Type returns the type the instance was built from.
func (e *Error) Type() *Type { return e.kind() }

// Causes returns a copy of the wrapped causes, in the order supplied.
func (e *Error) Causes() []error {
	if len(e.causes) == 0 {
		return nil
	}
	out := make([]error, len(e.causes))
	copy(out, e.causes)
	return out
}

// Unwrap exposes the causes to errors.Is/As traversal.
func (e *Error) Unwrap() []error { return e.causes }

// IsA reports whether the instance's type is t or descends from t.
func (e *Error) IsA(t *Type) bool { return e.kind().Inherits(t) }

// Is makes errors.Is(e, T) hold for the instance's type and every ancestor
// type, and for sentinel errors the type chain was rooted on.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Type); ok {
		return e.kind().Inherits(t)
	}
	return e.kind().hasProto(target)
}

// Get returns the value of a field, visible or not.
func (e *Error) Get(key string) (any, bool) {
	s, ok := e.slots.get(key)
	return s.Value, ok
}

// Slot returns the full slot of a field.
func (e *Error) Slot(key string) (Slot, bool) { return e.slots.get(key) }

// Keys returns every field name in order.
func (e *Error) Keys() []string {
	out := make([]string, len(e.slots))
	for i, a := range e.slots {
		out[i] = a.key
	}
	return out
}

// Fields returns a NEW map of the visible fields, or nil when there are none.
func (e *Error) Fields() map[string]any { return e.slots.visibleMap() }

// With returns a NEW instance with key set to val. Only existing mutable
// fields may be written; nothing is added or removed.
func (e *Error) With(key string, val any) (*Error, error) {
	i := e.slots.index(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, e.Name(), key)
	}
	if !e.slots[i].slot.Mutable {
		return nil, fmt.Errorf("%w: %s.%s", ErrReadOnlyField, e.Name(), key)
	}
	n := *e
	n.slots = e.slots.replace(i, val)
	return &n, nil
}

// Trace returns the diagnostic trace: the instance's own header and frames,
// followed by the full trace of each cause.
func (e *Error) Trace() string {
	if e.trace == "" {
		return e.Error()
	}
	return e.trace
}

// Stack returns the instance's own captured frames.
func (e *Error) Stack() Stack { return e.stk }

// interface conformance
var (
	_ error         = (*Error)(nil)
	_ fmt.Formatter = (*Error)(nil)
	_ error         = (*Type)(nil)
)
