// record.go — plain structured records for logging and transport.
package errtype

import (
	"strings"

	"github.com/goccy/go-json"
)

// Record returns a NEW map holding the name, the message, the trace split
// into lines, and every field regardless of visibility. Calling it twice on
// the same instance yields equal maps.
func (e *Error) Record() map[string]any {
	m := make(map[string]any, len(e.slots)+3)
	for _, a := range e.slots {
		m[a.key] = a.slot.Value
	}
	m[keyName] = e.Name()
	m[keyMessage] = e.msg
	m[keyTrace] = strings.Split(e.Trace(), "\n")
	return m
}

// MarshalJSON encodes the record.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}
