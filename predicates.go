// predicates.go — small, stdlib-aligned questions about arbitrary errors.
//
// Scope:
//   • Zero-policy helpers answering "what kind is this?" for any error.
//   • Interop-first: errors.As finds instances behind ordinary wrappers
//     (fmt.Errorf %w, errors.Join).
package errtype

import (
	"errors"
)

// TypeOf returns the type of the first instance found along err's chain,
// or nil.
func TypeOf(err error) *Type {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Type()
	}
	return nil
}

// NameOf returns the name of the first instance found along err's chain,
// or "" if none.
func NameOf(err error) string {
	if t := TypeOf(err); t != nil {
		return t.name
	}
	return ""
}

// IsA reports whether err itself is an instance of t or of a descendant.
// Unlike errors.Is it does not look through causes.
func IsA(err error, t *Type) bool {
	xe, ok := err.(*Error)
	return ok && xe.IsA(t)
}

// Get reads a field from the first instance along err's chain.
func Get(err error, key string) (any, bool) {
	var xe *Error
	if !errors.As(err, &xe) {
		return nil, false
	}
	return xe.Get(key)
}
