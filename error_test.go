// error_test.go — instance fields, copy-on-write updates and records.
package errtype

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestWith_CopyOnWrite(t *testing.T) {
	t.Parallel()

	typ := MustDefine("Mutable", Attrs{"bar": "baz", "locked": ReadOnly(1)}, nil)
	orig := typ.New("m")

	upd, err := orig.With("bar", "qux")
	if err != nil {
		t.Fatalf("With on a mutable field: %v", err)
	}
	if v, _ := upd.Get("bar"); v != "qux" {
		t.Fatalf("updated bar = %v", v)
	}
	if v, _ := orig.Get("bar"); v != "baz" {
		t.Fatalf("With mutated the receiver: bar = %v", v)
	}
	if upd.Trace() != orig.Trace() || upd.Type() != orig.Type() {
		t.Fatalf("With must keep trace and type")
	}

	if _, err := orig.With("locked", 2); !errors.Is(err, ErrReadOnlyField) {
		t.Fatalf("With on read-only field: want ErrReadOnlyField, got %v", err)
	}
	if _, err := orig.With("missing", 2); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("With on unknown field: want ErrUnknownField, got %v", err)
	}
	if !reflect.DeepEqual(orig.Keys(), upd.Keys()) {
		t.Fatalf("With must not add or remove fields")
	}
}

func TestFields_VisibleOnly(t *testing.T) {
	t.Parallel()

	typ := MustDefine("Visibility", Attrs{"hidden": 1, "shown": Visible(2)}, nil)
	e := typ.New()

	f := e.Fields()
	if len(f) != 1 || f["shown"] != 2 {
		t.Fatalf("Fields() = %v, want only shown", f)
	}
	f["shown"] = 99
	if v, _ := e.Get("shown"); v != 2 {
		t.Fatalf("Fields() must return a copy")
	}
	if MustDefine("NoVisible", Attrs{"h": 1}, nil).New().Fields() != nil {
		t.Fatalf("Fields() without visible slots should be nil")
	}
}

func TestKeys_Order(t *testing.T) {
	t.Parallel()

	parent := MustDefine("P", Attrs{"b": 1, "a": 1}, nil)
	child := MustDefine("C", Attrs{"d": 1, "c": 1, "a": 2}, parent)
	e := child.New(Attrs{"z": 1})

	want := []string{"a", "b", "c", "d", "z"}
	if got := e.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if v, _ := e.Get("a"); v != 2 {
		t.Fatalf("child default should override parent default; a = %v", v)
	}
}

func TestRecord_Shape(t *testing.T) {
	t.Parallel()

	typ := MustDefine("ValidationError", Attrs{"bar": "baz", "shown": Visible(1)}, nil,
		WithTracer(fixedTracer{}))
	e := typ.New("Missing field")

	rec := e.Record()
	if rec["message"] != "Missing field" {
		t.Fatalf("record message = %v", rec["message"])
	}
	if rec["name"] != "ValidationError" {
		t.Fatalf("record name = %v", rec["name"])
	}
	if rec["bar"] != "baz" || rec["shown"] != 1 {
		t.Fatalf("record must include hidden and visible fields: %v", rec)
	}
	lines, ok := rec["trace"].([]string)
	if !ok {
		t.Fatalf("record trace must be []string, got %T", rec["trace"])
	}
	want := []string{"ValidationError: Missing field", "    at main.caller (/app/main.go:10)"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("trace lines = %q", lines)
	}
}

func TestRecord_Idempotent(t *testing.T) {
	t.Parallel()

	typ := MustDefine("Idem", Attrs{"bar": "baz"}, nil)
	e := typ.New("m", errors.New("cause"))

	first := e.Record()
	second := e.Record()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Record() not idempotent:\n%v\n%v", first, second)
	}
	first["bar"] = "changed"
	first["trace"].([]string)[0] = "changed"
	if third := e.Record(); !reflect.DeepEqual(third, second) {
		t.Fatalf("mutating a record leaked into the instance")
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	typ := MustDefine("JSONError", Attrs{"status": 400}, nil, WithTracer(fixedTracer{}))
	e := typ.New("bad input")

	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["name"] != "JSONError" || got["message"] != "bad input" {
		t.Fatalf("unexpected JSON: %s", raw)
	}
	if got["status"] != float64(400) {
		t.Fatalf("status = %v", got["status"])
	}
	if tr, ok := got["trace"].([]any); !ok || len(tr) != 2 {
		t.Fatalf("trace should encode as an array of lines: %s", raw)
	}
	if !strings.Contains(string(raw), `"JSONError: bad input"`) {
		t.Fatalf("trace header missing from JSON: %s", raw)
	}
}

func TestZeroError(t *testing.T) {
	t.Parallel()

	var e Error
	if e.Error() != "Error" || e.Name() != "Error" {
		t.Fatalf("zero instance should report as Base; got %q", e.Error())
	}
	if e.Type() != Base || !e.IsA(Base) || !errors.Is(&e, Base) {
		t.Fatalf("zero instance should be a Base instance")
	}
	if got := fmt.Sprintf("%+v", &e); got != "Error" {
		t.Fatalf("zero instance trace is its header; %%+v = %q", got)
	}
	rec := e.Record()
	if rec["name"] != "Error" || rec["message"] != "" || !reflect.DeepEqual(rec["trace"], []string{"Error"}) {
		t.Fatalf("zero record = %v", rec)
	}
	if _, err := e.With("x", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("With on zero instance: %v", err)
	}
	if TypeOf(&e) != Base {
		t.Fatalf("TypeOf(zero) should be Base")
	}
}
