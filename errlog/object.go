// Package errlog renders errtype instances onto zerolog events.
package errlog

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	errtype "github.com/xgx-io/xgx-errtype"
)

// object marshals one error. Nested causes carry no trace of their own,
// since the top-level trace already contains theirs.
type object struct {
	err    error
	nested bool
}

// Object returns a zerolog object for err: name, message, visible fields,
// causes and the trace split into lines. Plain errors render as a message.
func Object(err error) zerolog.LogObjectMarshaler {
	return object{err: err}
}

func (o object) MarshalZerologObject(ev *zerolog.Event) {
	if o.err == nil {
		return
	}
	var xe *errtype.Error
	if !errors.As(o.err, &xe) {
		ev.Str("message", o.err.Error())
		return
	}
	ev.Str("name", xe.Name())
	if msg := xe.Message(); msg != "" {
		ev.Str("message", msg)
	}
	if f := xe.Fields(); len(f) > 0 {
		ev.Dict("fields", zerolog.Dict().Fields(f))
	}
	if causes := xe.Causes(); len(causes) > 0 {
		ev.Array("causes", causeArray(causes))
	}
	if !o.nested {
		ev.Strs("trace", strings.Split(xe.Trace(), "\n"))
	}
}

type causeArray []error

func (c causeArray) MarshalZerologArray(a *zerolog.Array) {
	for _, err := range c {
		a.Object(object{err: err, nested: true})
	}
}

// Event attaches err to ev as "error", its kind as "error_name" and the
// full object as "error_detail". A nil event (disabled level) is returned
// unchanged.
func Event(ev *zerolog.Event, err error) *zerolog.Event {
	if ev == nil || err == nil {
		return ev
	}
	ev = ev.Err(err)
	if name := errtype.NameOf(err); name != "" {
		ev = ev.Str("error_name", name)
	}
	return ev.Object("error_detail", Object(err))
}
