// slots.go — ordered attribute slots for error types and instances.
//
// Slot lists are kept sorted for type defaults and in argument order for
// merges. Every helper returns a new slice.
package errtype

import (
	"sort"
)

// Slot is a named field on an error type or instance: its value plus
// visibility (enumerable) and mutability flags.
type Slot struct {
	Value   any
	Visible bool // included in Fields() and the %+v rendering
	Mutable bool // may be replaced after construction via (*Error).With
}

// Hidden returns the default slot synthesized for plain attribute values:
// hidden from enumeration and writable.
func Hidden(v any) Slot { return Slot{Value: v, Mutable: true} }

// Visible returns an enumerable, writable slot.
func Visible(v any) Slot { return Slot{Value: v, Visible: true, Mutable: true} }

// ReadOnly returns an enumerable slot that cannot be replaced after construction.
func ReadOnly(v any) Slot { return Slot{Value: v, Visible: true} }

// Attrs is a plain attribute map. Values that are already a Slot (or a
// non-nil *Slot) are used verbatim; anything else becomes Hidden(value).
type Attrs map[string]any

// Reserved keys never stored as slots.
const (
	keyName    = "name"
	keyMessage = "message"
	keyTrace   = "trace"
)

type attr struct {
	key  string
	slot Slot
}

type slots []attr

var emptySlots = make(slots, 0)

// toSlot normalizes an attribute value.
func toSlot(v any) Slot {
	switch s := v.(type) {
	case Slot:
		return s
	case *Slot:
		if s != nil {
			return *s
		}
	}
	return Hidden(v)
}

// slotsFromAttrs snapshots m into sorted slots. The reserved message key is
// split out and returned separately; name and trace are dropped.
func slotsFromAttrs(m map[string]any) (out slots, msg string, hasMsg bool) {
	if len(m) == 0 {
		return emptySlots, "", false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out = make(slots, 0, len(keys))
	for _, k := range keys {
		switch k {
		case keyMessage:
			msg, hasMsg = messageValue(m[k])
			continue
		case keyName, keyTrace:
			continue
		}
		out = append(out, attr{key: k, slot: toSlot(m[k])})
	}
	return out, msg, hasMsg
}

func messageValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	return renderScalar(toSlot(v).Value), true
}

// index returns the position of key, or -1.
func (s slots) index(key string) int {
	for i := range s {
		if s[i].key == key {
			return i
		}
	}
	return -1
}

func (s slots) get(key string) (Slot, bool) {
	if i := s.index(key); i >= 0 {
		return s[i].slot, true
	}
	return Slot{}, false
}

// merge returns a NEW slice with add laid over dst. Existing keys keep
// their position and take the new slot; new keys are appended in order.
func (s slots) merge(add slots) slots {
	if len(add) == 0 {
		return s.clone()
	}
	out := make(slots, len(s), len(s)+len(add))
	copy(out, s)
	for _, a := range add {
		if i := out.index(a.key); i >= 0 {
			out[i].slot = a.slot
			continue
		}
		out = append(out, a)
	}
	return out
}

// replace returns a NEW slice with the value at i swapped for v.
func (s slots) replace(i int, v any) slots {
	out := s.clone()
	out[i].slot.Value = v
	return out
}

func (s slots) clone() slots {
	if len(s) == 0 {
		return emptySlots
	}
	out := make(slots, len(s))
	copy(out, s)
	return out
}

// visibleMap builds a NEW map of the enumerable slots.
func (s slots) visibleMap() map[string]any {
	var m map[string]any
	for _, a := range s {
		if !a.slot.Visible {
			continue
		}
		if m == nil {
			m = make(map[string]any, len(s))
		}
		m[a.key] = a.slot.Value
	}
	return m
}
