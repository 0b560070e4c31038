package errtype

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedField(t *testing.T) {
	t.Parallel()

	status := Field[int]("status")
	name := Field[string]("status")
	typ := MustDefine("HTTPError", Attrs{"status": Visible(500), "code": ReadOnly(7)}, nil)
	e := typ.New("upstream")

	if status.Key() != "status" {
		t.Fatalf("Key() = %q", status.Key())
	}
	if v, ok := status.Get(fmt.Errorf("wrapped: %w", e)); !ok || v != 500 {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	if _, ok := name.Get(e); ok {
		t.Fatalf("Get with the wrong type must fail")
	}
	if _, ok := status.Get(errors.New("plain")); ok {
		t.Fatalf("Get on a plain error must fail")
	}

	upd, err := status.Set(e, 404)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if status.MustGet(upd) != 404 || status.MustGet(e) != 500 {
		t.Fatalf("Set must copy on write")
	}
	if _, err := Field[int]("code").Set(e, 8); !errors.Is(err, ErrReadOnlyField) {
		t.Fatalf("Set on read-only: %v", err)
	}
	if _, err := status.Set(nil, 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("Set on nil instance: %v", err)
	}
}

func TestTypedField_MustGetPanics(t *testing.T) {
	t.Parallel()

	typ := MustDefine("Panicky", Attrs{"n": 1}, nil)
	for _, f := range []func(){
		func() { Field[int]("missing").MustGet(typ.New()) },
		func() { Field[string]("n").MustGet(typ.New()) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("MustGet should panic")
				}
			}()
			f()
		}()
	}
}
