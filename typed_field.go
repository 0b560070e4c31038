// typed_field.go — generic accessors for instance fields.
//
//	var HTTPStatus = errtype.Field[int]("http_status")
//
//	status, ok := HTTPStatus.Get(err) // err may wrap the instance
//
// The stored value must have dynamic type T exactly; nothing is converted.
package errtype

import (
	"fmt"
)

// TypedField reads and writes the field named by its key as a T.
type TypedField[T any] struct {
	key string
}

// Field returns the accessor for key.
func Field[T any](key string) TypedField[T] { return TypedField[T]{key: key} }

// Key returns the field name.
func (f TypedField[T]) Key() string { return f.key }

// Get reads the field from the first instance along err's chain. ok is
// false when there is no instance, no such field, or the value is not a T.
func (f TypedField[T]) Get(err error) (T, bool) {
	v, found := Get(err, f.key)
	t, isT := v.(T)
	return t, found && isT
}

// MustGet is Get for fields that must be present. It panics otherwise.
func (f TypedField[T]) MustGet(err error) T {
	v, found := Get(err, f.key)
	if !found {
		panic(fmt.Errorf("%w: %s", ErrUnknownField, f.key))
	}
	t, isT := v.(T)
	if !isT {
		panic(fmt.Errorf("errtype: field %s holds %T, not %T", f.key, v, t))
	}
	return t
}

// Set returns a copy of e with the field set to val, with the rules of
// (*Error).With.
func (f TypedField[T]) Set(e *Error, val T) (*Error, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: %s on nil instance", ErrUnknownField, f.key)
	}
	return e.With(f.key, val)
}
