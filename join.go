// join.go — aggregate several errors into one.
package errtype

import (
	"fmt"
	"io"
	"strings"
)

// joined is the aggregate returned by Join. Its Trace and %+v rendering
// carry each child's trace, so it can be passed as a cause like any
// instance.
type joined struct {
	errs []error
}

func (j *joined) render(f func(error) string) string {
	parts := make([]string, len(j.errs))
	for i, err := range j.errs {
		parts[i] = f(err)
	}
	return strings.Join(parts, "\n")
}

// Error lists the children's messages, one per line, as errors.Join does.
func (j *joined) Error() string {
	return j.render(func(err error) string { return err.Error() })
}

func (j *joined) Unwrap() []error { return j.errs }

func (j *joined) Trace() string { return j.render(traceOf) }

func (j *joined) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		_, _ = io.WriteString(s, j.render(func(err error) string {
			return fmt.Sprintf("%+v", err)
		}))
	case verb == 'q':
		_, _ = fmt.Fprintf(s, "%q", j.Error())
	default:
		_, _ = io.WriteString(s, j.Error())
	}
}

// Join combines errs into one error, dropping nils. It returns nil when
// nothing is left and the error itself when only one is.
func Join(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) <= 1 {
		if len(kept) == 0 {
			return nil
		}
		return kept[0]
	}
	return &joined{errs: kept}
}
