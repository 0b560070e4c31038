// format.go — fmt.Formatter for produced instances.
//
// Behavior:
//
//	%s, %v   → concise string (Error()).
//	%+v      → the full trace, then the visible fields:
//	             <name>: <message>
//	                 at pkg.Func (/path/file.go:12)
//	             <cause trace>
//	             fields: key1=val1 key2=val2
//	%q       → quoted Error().
package errtype

import (
	"fmt"
	"io"
)

func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			formatVerbose(s, e)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = fmt.Fprintf(s, "%%!%c(%s)", verb, e.Error())
	}
}

func formatVerbose(w io.Writer, e *Error) {
	_, _ = io.WriteString(w, e.Trace())

	first := true
	for _, a := range e.slots {
		if !a.slot.Visible {
			continue
		}
		if first {
			_, _ = io.WriteString(w, "\nfields:")
			first = false
		}
		_, _ = fmt.Fprintf(w, " %s=%v", a.key, a.slot.Value)
	}
}
