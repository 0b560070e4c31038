// doc.go — package documentation for xgx-errtype
//
// Package errtype builds named, structured error types at run time. A type
// is defined once from a name, a set of default attributes and an optional
// parent; its instances report the name as their kind, carry the attributes
// as fields, wrap causes, and expose a combined diagnostic trace.
//
// # Defining Types
//
//	var (
//	    ErrValidation = errtype.MustDefine("ValidationError", errtype.Attrs{
//	        "message": "Default Message",
//	        "field":   errtype.Visible(""),
//	    }, nil)
//	    ErrMissing = errtype.MustDefine("MissingFieldError", nil, ErrValidation)
//	)
//
// Define fails (never with an instance) when the name is absent or empty, or
// when the parent is not error-compatible. A parent is either another
// *Type (rooted at Base) or a plain Go error such as fs.ErrNotExist, which
// then matches errors.Is for every instance.
//
// # Building Instances
//
// The ordered form partitions its arguments by shape:
//
//	err := ErrMissing.New("missing %s", "email", errtype.Attrs{"field": "email"}, cause)
//
//   - error values become causes, in order
//   - strings, bools and numbers form the message (a leading "%" template is
//     formatted with the rest; otherwise fragments are space-joined)
//   - Attrs / map[string]any merge into the fields, after the type defaults
//
// The builder form is equivalent and unambiguous:
//
//	err := ErrMissing.Build().Msgf("missing %s", "email").Set("field", "email").Cause(cause).Err()
//
// Profiles (WithProfile) restrict the ordered form to the narrower historical
// conventions: ProfileFormat ignores objects, ProfileLeading only takes a
// leading scalar as the message.
//
// # Fields
//
// Every field is a Slot{Value, Visible, Mutable}. Plain attribute values
// become Hidden slots; Visible and ReadOnly build the others. Visible fields
// show in Fields() and %+v; Record() includes all of them. With returns a new
// instance and only writes existing mutable fields.
//
// # Traces
//
// The trace is captured at the caller of New, of a Constructor value, or of
// Builder.Err. With causes, it is the instance's own trace followed by each
// cause's full trace on new lines:
//
//	SubTypeError: Encountered validation error
//	    at main.handle (/app/main.go:42)
//	ValidationError: Missing field
//	    at main.validate (/app/main.go:17)
//
// Capture goes through a Tracer; WithTracer swaps it per type.
//
// # Interop
//
//   - errors.Is(err, T) holds for T and all its ancestors, including Base.
//   - errors.As(err, &inst) finds instances behind any wrapper.
//   - Unwrap() []error exposes causes to the stdlib.
//   - MarshalJSON encodes Record(); the errlog package renders instances
//     onto zerolog events.
package errtype
