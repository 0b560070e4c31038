// construct.go — building instances of a produced Type.
//
// Two entry points share one build step:
//   - Type.New / Constructor: ordered, mixed arguments (message | Attrs | error),
//     partitioned according to the type's Profile.
//   - Type.Build: an explicit builder (Msg, Cause, Fields, Set).
//
// Both capture the trace at the caller's frame, never inside this package.
package errtype

import (
	"fmt"
	"reflect"
	"strings"
)

// Constructor builds an instance from ordered arguments.
type Constructor func(args ...any) *Error

// draft collects construction input before the instance is built.
type draft struct {
	frags  []any
	msg    string
	hasMsg bool
	causes []error
	merges []map[string]any
	args   []any
}

// New builds an instance from ordered arguments: errors become causes,
// strings and numbers form the message, attribute maps merge into fields.
func (t *Type) New(args ...any) *Error {
	return t.construct(t.partition(args), 1)
}

// Wrap builds an instance caused by err. Additional args are handled as in New.
func (t *Type) Wrap(err error, args ...any) *Error {
	d := t.partition(args)
	if err != nil {
		d.causes = append([]error{err}, d.causes...)
	}
	return t.construct(d, 1)
}

// Constructor returns New as a function value.
func (t *Type) Constructor() Constructor {
	return func(args ...any) *Error {
		return t.construct(t.partition(args), 1)
	}
}

func (t *Type) partition(args []any) *draft {
	d := &draft{args: args}
	profile := t.effectiveProfile()
	for i, a := range args {
		switch v := a.(type) {
		case nil:
			continue
		case error:
			d.causes = append(d.causes, v)
			continue
		case Attrs:
			if profile != ProfileFormat {
				d.merges = append(d.merges, map[string]any(v))
			}
			continue
		case map[string]any:
			if profile != ProfileFormat {
				d.merges = append(d.merges, v)
			}
			continue
		}
		if m, ok := stringKeyedMap(a); ok {
			if profile != ProfileFormat {
				d.merges = append(d.merges, m)
			}
			continue
		}
		if !isScalar(a) {
			continue
		}
		if profile == ProfileLeading && i != 0 {
			continue
		}
		d.frags = append(d.frags, a)
	}
	if len(d.frags) > 0 {
		d.msg, d.hasMsg = formatMessage(d.frags), true
	}
	return d
}

// isScalar reports whether v is string-, bool- or number-like.
func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func renderScalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// stringKeyedMap copies any map whose key kind is string.
func stringKeyedMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		m[it.Key().String()] = it.Value().Interface()
	}
	return m, true
}

// formatMessage renders message fragments. A leading string is a template:
// its verbs consume the following fragments in order. Fragments left over
// are appended space-separated.
func formatMessage(frags []any) string {
	if len(frags) == 1 {
		return renderScalar(frags[0])
	}
	head, rest := renderScalar(frags[0]), frags[1:]
	if tmpl, ok := frags[0].(string); ok {
		var used int
		head, used = expandTemplate(tmpl, rest)
		rest = rest[used:]
	}
	parts := make([]string, 0, len(rest)+1)
	parts = append(parts, head)
	for _, f := range rest {
		parts = append(parts, renderScalar(f))
	}
	return strings.Join(parts, " ")
}

const templateVerbs = "vtbcdoOqxXUeEfFgGs"

// expandTemplate substitutes args into the verbs of tmpl and reports how
// many were used. "%%" is a literal percent. A verb is '%', optional flags
// "+-#0", width and precision, then a verb letter; verbs with no argument
// left and any other '%' are kept as written.
func expandTemplate(tmpl string, args []any) (string, int) {
	var sb strings.Builder
	used := 0
	for i := 0; i < len(tmpl); {
		if tmpl[i] != '%' || i+1 == len(tmpl) {
			sb.WriteByte(tmpl[i])
			i++
			continue
		}
		if tmpl[i+1] == '%' {
			sb.WriteByte('%')
			i += 2
			continue
		}
		j := i + 1
		for j < len(tmpl) && strings.IndexByte("+-#0", tmpl[j]) >= 0 {
			j++
		}
		for j < len(tmpl) && (tmpl[j] == '.' || ('0' <= tmpl[j] && tmpl[j] <= '9')) {
			j++
		}
		if j < len(tmpl) && used < len(args) && strings.IndexByte(templateVerbs, tmpl[j]) >= 0 {
			sb.WriteString(fmt.Sprintf(tmpl[i:j+1], args[used]))
			used++
			i = j + 1
			continue
		}
		sb.WriteByte('%')
		i++
	}
	return sb.String(), used
}

// construct builds the instance. skip counts the frames above construct that
// belong to this package; the trace starts right above them.
func (t *Type) construct(d *draft, skip int) *Error {
	e := &Error{typ: t, slots: emptySlots}

	chain := t.chain()
	for _, c := range chain {
		e.slots = e.slots.merge(c.attrs)
	}

	// Message: scalar fragments > object "message" keys (last wins) > type default.
	msg, hasMsg := d.msg, d.hasMsg
	for _, m := range d.merges {
		add, objMsg, ok := slotsFromAttrs(m)
		e.slots = e.slots.merge(add)
		if ok && !d.hasMsg {
			msg, hasMsg = objMsg, true
		}
	}
	for _, c := range chain {
		if c.init == nil {
			continue
		}
		add, hookMsg, ok := slotsFromAttrs(c.init(d.args))
		e.slots = e.slots.merge(add)
		if ok && !d.hasMsg {
			msg, hasMsg = hookMsg, true
		}
	}
	if !hasMsg {
		msg = t.defaultMessage()
	}
	e.msg = msg

	if len(d.causes) > 0 {
		e.causes = make([]error, len(d.causes))
		copy(e.causes, d.causes)
	}

	// +1 for construct itself.
	e.stk = t.effectiveTracer().Capture(skip + 1)
	e.trace = composeTrace(renderTrace(e.Error(), e.stk), e.causes)
	return e
}

// Builder assembles an instance explicitly. A Builder is not safe for
// concurrent use; the instance it produces is.
type Builder struct {
	t    *Type
	d    draft
	skip int
}

// Build starts an explicit construction of a t instance.
func (t *Type) Build() *Builder {
	return &Builder{t: t}
}

// Msg sets the message.
func (b *Builder) Msg(msg string) *Builder {
	b.d.msg, b.d.hasMsg = msg, true
	return b
}

// Msgf sets a formatted message.
func (b *Builder) Msgf(format string, args ...any) *Builder {
	return b.Msg(fmt.Sprintf(format, args...))
}

// Cause appends causes; nils are skipped.
func (b *Builder) Cause(errs ...error) *Builder {
	for _, err := range errs {
		if err != nil {
			b.d.causes = append(b.d.causes, err)
		}
	}
	return b
}

// Fields merges an attribute map. Later merges win.
func (b *Builder) Fields(m Attrs) *Builder {
	if len(m) > 0 {
		b.d.merges = append(b.d.merges, m)
	}
	return b
}

// Set merges a single attribute.
func (b *Builder) Set(key string, val any) *Builder {
	return b.Fields(Attrs{key: val})
}

// Args adds ordered arguments, partitioned as in New. A message derived from
// them replaces any earlier one.
func (b *Builder) Args(args ...any) *Builder {
	p := b.t.partition(args)
	if p.hasMsg {
		b.d.msg, b.d.hasMsg = p.msg, true
	}
	b.d.causes = append(b.d.causes, p.causes...)
	b.d.merges = append(b.d.merges, p.merges...)
	b.d.args = append(b.d.args, args...)
	return b
}

// Skip drops n additional caller frames from the trace, for helpers that
// wrap Err.
func (b *Builder) Skip(n int) *Builder {
	if n > 0 {
		b.skip += n
	}
	return b
}

// Err builds the instance. The trace starts at the caller of Err.
func (b *Builder) Err() *Error {
	d := b.d
	d.causes = append([]error(nil), b.d.causes...)
	d.merges = append([]map[string]any(nil), b.d.merges...)
	d.args = append([]any(nil), b.d.args...)
	return b.t.construct(&d, 1+b.skip)
}
