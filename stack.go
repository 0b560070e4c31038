// stack.go — trace capture and rendering for produced instances.
package errtype

import (
	"fmt"
	"runtime"
	"strings"
)

// Frame is one call site of a captured trace.
type Frame struct {
	PC       uintptr
	File     string
	Line     int
	Function string // package-qualified, e.g. main.handle
}

// Stack lists frames innermost first.
type Stack []Frame

// Tracer captures the current call stack. Skip 0 is the caller of Capture.
type Tracer interface {
	Capture(skip int) Stack
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(skip int) Stack

func (f TracerFunc) Capture(skip int) Stack { return f(skip + 1) }

const defaultMaxDepth = 64

// RuntimeTracer captures stacks from the Go runtime.
type RuntimeTracer struct {
	MaxDepth int // <= 0 means defaultMaxDepth
}

// DefaultTracer is used by every type that does not set WithTracer.
var DefaultTracer Tracer = RuntimeTracer{}

// Capture records up to MaxDepth frames starting at the caller of Capture
// plus skip.
func (rt RuntimeTracer) Capture(skip int) Stack {
	return captureStack(skip+1, rt.MaxDepth)
}

// captureStack resolves up to maxDepth frames, starting skip frames above
// its caller. runtime.Callers and captureStack itself account for the +2.
func captureStack(skip, maxDepth int) Stack {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	pcs := make([]uintptr, maxDepth)
	pcs = pcs[:runtime.Callers(skip+2, pcs)]
	if len(pcs) == 0 {
		return nil
	}

	var stk Stack
	frames := runtime.CallersFrames(pcs)
	for more := true; more && len(stk) < maxDepth; {
		var fr runtime.Frame
		fr, more = frames.Next()
		stk = append(stk, Frame{PC: fr.PC, File: fr.File, Line: fr.Line, Function: fr.Function})
	}
	return stk
}

// String renders one frame the way it appears in a trace.
func (f Frame) String() string {
	return fmt.Sprintf("    at %s (%s:%d)", f.Function, f.File, f.Line)
}

// renderTrace writes the header line followed by one line per frame.
func renderTrace(header string, stk Stack) string {
	if len(stk) == 0 {
		return header
	}
	var sb strings.Builder
	sb.WriteString(header)
	for _, fr := range stk {
		sb.WriteByte('\n')
		sb.WriteString(fr.String())
	}
	return sb.String()
}

// composeTrace appends each cause's full trace beneath own, in order.
func composeTrace(own string, causes []error) string {
	if len(causes) == 0 {
		return own
	}
	var sb strings.Builder
	sb.WriteString(own)
	for _, c := range causes {
		sb.WriteByte('\n')
		sb.WriteString(traceOf(c))
	}
	return sb.String()
}

// traceOf returns the diagnostic trace of any error: its Trace() when it
// has one, otherwise its verbose %+v rendering.
func traceOf(err error) string {
	if t, ok := err.(interface{ Trace() string }); ok {
		return t.Trace()
	}
	return fmt.Sprintf("%+v", err)
}
