package errlog_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errtype "github.com/xgx-io/xgx-errtype"
	"github.com/xgx-io/xgx-errtype/errlog"
)

var fixed = errtype.WithTracer(errtype.TracerFunc(func(int) errtype.Stack {
	return errtype.Stack{{Function: "main.run", File: "/app/main.go", Line: 3}}
}))

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestEvent_Instance(t *testing.T) {
	t.Parallel()

	inner := errtype.MustDefine("ValidationError", errtype.Attrs{"field": errtype.Visible("email")}, nil, fixed)
	outer := errtype.MustDefine("RequestError", errtype.Attrs{"secret": "hidden"}, nil, fixed)
	err := outer.New("bad request", inner.New("missing field"))

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	errlog.Event(l.Error(), err).Msg("request failed")

	out := decode(t, &buf)
	assert.Equal(t, "request failed", out["message"])
	assert.Equal(t, "RequestError: bad request", out["error"])
	assert.Equal(t, "RequestError", out["error_name"])

	detail, ok := out["error_detail"].(map[string]any)
	require.True(t, ok, "error_detail should be an object: %v", out)
	assert.Equal(t, "RequestError", detail["name"])
	assert.Equal(t, "bad request", detail["message"])
	assert.NotContains(t, detail, "fields", "hidden fields are not logged")
	assert.Equal(t, []any{
		"RequestError: bad request",
		"    at main.run (/app/main.go:3)",
		"ValidationError: missing field",
		"    at main.run (/app/main.go:3)",
	}, detail["trace"])

	causes, ok := detail["causes"].([]any)
	require.True(t, ok)
	require.Len(t, causes, 1)
	cause := causes[0].(map[string]any)
	assert.Equal(t, "ValidationError", cause["name"])
	assert.Equal(t, map[string]any{"field": "email"}, cause["fields"])
	assert.NotContains(t, cause, "trace")
}

func TestEvent_PlainAndWrapped(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	errlog.Event(l.Warn(), errors.New("plain")).Send()

	out := decode(t, &buf)
	assert.Equal(t, "plain", out["error"])
	assert.NotContains(t, out, "error_name")
	assert.Equal(t, map[string]any{"message": "plain"}, out["error_detail"])

	buf.Reset()
	typ := errtype.MustDefine("Wrapped", nil, nil, fixed)
	errlog.Event(l.Warn(), fmt.Errorf("ctx: %w", typ.New("x"))).Send()
	out = decode(t, &buf)
	assert.Equal(t, "Wrapped", out["error_name"])
}

func TestEvent_NilInputs(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errlog.Event(nil, errors.New("x")))

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	errlog.Event(l.Info(), nil).Msg("ok")
	assert.NotContains(t, decode(t, &buf), "error")
}

func TestLog_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := errlog.New(&buf, "warn")
	require.NoError(t, err)

	errlog.Debug("dropped", errors.New("x"), &l)
	assert.Zero(t, buf.Len(), "debug is below warn")

	errlog.Error("load failed", errors.New("boom"), &l)
	out := decode(t, &buf)
	assert.Equal(t, "error", out["level"])
	assert.Equal(t, "load failed", out["message"])
	assert.Equal(t, "boom", out["error"])

	buf.Reset()
	errlog.Warn("slow reload", errors.New("late"), &l)
	out = decode(t, &buf)
	assert.Equal(t, "warn", out["level"])
	assert.Equal(t, "slow reload", out["message"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := errlog.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	lvl, err = errlog.ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = errlog.ParseLevel("loud")
	assert.Error(t, err)

	_, err = errlog.New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := errlog.NewConsole(&buf, "info")
	require.NoError(t, err)

	errlog.Warn("careful", errors.New("boom"), &l)
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "boom")
}

func TestDefaultLogger(t *testing.T) {
	prev := *errlog.Default()
	t.Cleanup(func() { errlog.SetDefault(prev) })

	var buf bytes.Buffer
	l, err := errlog.New(&buf, "debug")
	require.NoError(t, err)
	errlog.SetDefault(l)

	errlog.Debug("via default", errors.New("boom"))
	out := decode(t, &buf)
	assert.Equal(t, "debug", out["level"])
	assert.Equal(t, "via default", out["message"])
}
