package errtype

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestJoin_NilsAndIdentity(t *testing.T) {
	t.Parallel()

	if Join() != nil || Join(nil, nil) != nil {
		t.Fatalf("Join of nothing must be nil")
	}
	a := errors.New("a")
	if got := Join(nil, a, nil); got != a {
		t.Fatalf("Join with one error must return it unchanged; got %v", got)
	}
}

func TestJoin_Multi(t *testing.T) {
	t.Parallel()

	typ := MustDefine("Joined", nil, nil, WithTracer(fixedTracer{}))
	a := typ.New("first")
	b := errors.New("second")

	j := Join(a, nil, b)
	if j.Error() != "Joined: first\nsecond" {
		t.Fatalf("Error() = %q", j.Error())
	}
	if !errors.Is(j, b) || !errors.Is(j, typ) {
		t.Fatalf("joined children must be reachable through errors.Is")
	}
	if got := fmt.Sprintf("%+v", j); !strings.HasPrefix(got, "Joined: first\n    at main.caller") {
		t.Fatalf("%%+v should render children verbosely; got %q", got)
	}

	// A joined error used as a cause contributes every child trace.
	outer := typ.New("outer", j)
	want := strings.Join([]string{
		"Joined: outer",
		"    at main.caller (/app/main.go:10)",
		"Joined: first",
		"    at main.caller (/app/main.go:10)",
		"second",
	}, "\n")
	if outer.Trace() != want {
		t.Fatalf("trace:\n got=%q\nwant=%q", outer.Trace(), want)
	}
}
