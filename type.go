// type.go — the error-type factory.
//
// A Type is defined once (usually at package scope) and stamps out *Error
// instances. Types form an explicit parent chain ending at Base; is-a checks
// walk that chain, so no instance is ever re-typed after construction.
package errtype

import (
	"errors"
	"fmt"
	"reflect"
)

// Factory violations. These describe bad Define inputs and are never
// instances of a produced type.
var (
	ErrNameRequired  = errors.New("errtype: a custom error name is required")
	ErrInvalidParent = errors.New("errtype: the parent should inherit from Error")
)

// Type describes a produced error kind. It is immutable after Define
// returns and safe for concurrent use.
type Type struct {
	name       string
	parent     *Type
	proto      error // sentinel parent, if the parent argument was a plain error
	attrs      slots
	defaultMsg string
	hasMsg     bool
	profile    Profile
	tracer     Tracer
	init       InitFunc
	root       bool
}

// Base is the foundational Error type. Every chain ends here.
var Base = &Type{name: "Error", attrs: emptySlots, root: true}

// Profile selects how the ordered-argument constructor partitions its
// arguments.
type Profile int

const (
	// profileInherit defers to the parent type's profile.
	profileInherit Profile = iota
	// ProfileUnified: errors are causes, scalars are formatted into the
	// message, objects merge into fields.
	ProfileUnified
	// ProfileFormat: like ProfileUnified but object arguments are ignored.
	ProfileFormat
	// ProfileLeading: only a leading scalar is the message; later scalars
	// are ignored.
	ProfileLeading
)

func (p Profile) String() string {
	switch p {
	case ProfileUnified:
		return "unified"
	case ProfileFormat:
		return "format"
	case ProfileLeading:
		return "leading"
	default:
		return "inherit"
	}
}

// ParseProfile maps a profile name to a Profile. The empty string means
// inherit from the parent.
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "":
		return profileInherit, nil
	case "unified":
		return ProfileUnified, nil
	case "format":
		return ProfileFormat, nil
	case "leading":
		return ProfileLeading, nil
	}
	return profileInherit, fmt.Errorf("errtype: unknown profile %q", s)
}

// InitFunc runs during construction after fields are merged. The returned
// attributes merge last. Hooks of ancestor types run first.
type InitFunc func(args []any) Attrs

// Option configures a Type at Define time.
type Option func(*Type)

// WithProfile sets the argument-partition profile.
func WithProfile(p Profile) Option {
	return func(t *Type) { t.profile = p }
}

// WithTracer replaces the trace-capture capability for the type and, unless
// they set their own, its descendants.
func WithTracer(tr Tracer) Option {
	return func(t *Type) { t.tracer = tr }
}

// WithInit registers a construction hook.
func WithInit(fn InitFunc) Option {
	return func(t *Type) { t.init = fn }
}

// Define creates a new error type named name, carrying attrs as default
// fields, inheriting from parent (Base when parent is nil).
//
// name may be any non-zero value; non-strings are rendered with fmt. parent
// must be a *Type produced by Define (or Base), or a plain Go error value,
// which then becomes an errors.Is ancestor of every instance.
func Define(name any, attrs Attrs, parent any, opts ...Option) (*Type, error) {
	n, err := typeName(name)
	if err != nil {
		return nil, err
	}
	p, proto, err := resolveParent(parent)
	if err != nil {
		return nil, err
	}

	own, msg, hasMsg := slotsFromAttrs(attrs)
	t := &Type{
		name:       n,
		parent:     p,
		proto:      proto,
		attrs:      own,
		defaultMsg: msg,
		hasMsg:     hasMsg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// MustDefine is like Define but panics on a factory violation. It is meant
// for package-level type declarations.
func MustDefine(name any, attrs Attrs, parent any, opts ...Option) *Type {
	t, err := Define(name, attrs, parent, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func typeName(name any) (string, error) {
	if name == nil {
		return "", ErrNameRequired
	}
	if rv := reflect.ValueOf(name); rv.IsZero() {
		return "", fmt.Errorf("%w: got zero %T", ErrNameRequired, name)
	}
	var s string
	switch v := name.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %T renders empty", ErrNameRequired, name)
	}
	return s, nil
}

func resolveParent(parent any) (p *Type, proto error, err error) {
	switch v := parent.(type) {
	case nil:
		return Base, nil, nil
	case *Type:
		if !v.valid() {
			return nil, nil, fmt.Errorf("%w: type was not created by Define", ErrInvalidParent)
		}
		return v, nil, nil
	case *Error:
		if v == nil {
			return nil, nil, fmt.Errorf("%w: nil %T", ErrInvalidParent, v)
		}
		return nil, nil, fmt.Errorf("%w: got an instance of %s, not a type", ErrInvalidParent, v.Name())
	case error:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil, fmt.Errorf("%w: nil %T", ErrInvalidParent, v)
		}
		return Base, v, nil
	default:
		return nil, nil, fmt.Errorf("%w: got %T", ErrInvalidParent, parent)
	}
}

// valid reports whether t's chain reaches Base.
func (t *Type) valid() bool {
	for c := t; c != nil; c = c.parent {
		if c.root {
			return c == Base
		}
	}
	return false
}

// Name returns the type's name.
func (t *Type) Name() string { return t.name }

// Error makes *Type usable as an errors.Is target.
func (t *Type) Error() string { return t.name }

func (t *Type) String() string { return t.name }

// Parent returns the supertype, or nil for Base.
func (t *Type) Parent() *Type { return t.parent }

// Inherits reports whether t is anc or descends from it.
func (t *Type) Inherits(anc *Type) bool {
	if anc == nil {
		return false
	}
	for c := t; c != nil; c = c.parent {
		if c == anc {
			return true
		}
	}
	return false
}

// Match reports whether err, or anything in its unwrap graph, is an
// instance of t or of a descendant of t.
func (t *Type) Match(err error) bool {
	found := false
	Walk(err, func(e error) bool {
		if xe, ok := e.(*Error); ok && xe.IsA(t) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Attrs returns a copy of the default attribute values declared on t
// itself (not its ancestors).
func (t *Type) Attrs() Attrs {
	out := make(Attrs, len(t.attrs))
	for _, a := range t.attrs {
		out[a.key] = a.slot.Value
	}
	return out
}

// Slot resolves key through the chain, nearest type first.
func (t *Type) Slot(key string) (Slot, bool) {
	for c := t; c != nil; c = c.parent {
		if s, ok := c.attrs.get(key); ok {
			return s, true
		}
	}
	return Slot{}, false
}

// chain returns the types from Base down to t.
func (t *Type) chain() []*Type {
	var out []*Type
	for c := t; c != nil; c = c.parent {
		out = append(out, c)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (t *Type) effectiveProfile() Profile {
	for c := t; c != nil; c = c.parent {
		if c.profile != profileInherit {
			return c.profile
		}
	}
	return ProfileUnified
}

func (t *Type) effectiveTracer() Tracer {
	for c := t; c != nil; c = c.parent {
		if c.tracer != nil {
			return c.tracer
		}
	}
	return DefaultTracer
}

func (t *Type) defaultMessage() string {
	for c := t; c != nil; c = c.parent {
		if c.hasMsg {
			return c.defaultMsg
		}
	}
	return ""
}

// hasProto reports whether target is a sentinel ancestor of t.
func (t *Type) hasProto(target error) bool {
	for c := t; c != nil; c = c.parent {
		if c.proto != nil && errors.Is(c.proto, target) {
			return true
		}
	}
	return false
}
