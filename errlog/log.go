package errlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// Default returns the package logger used when no logger is passed.
func Default() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// SetDefault replaces the package logger.
func SetDefault(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// ParseLevel maps a level name to a zerolog level. Empty means warn.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("errlog: invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// New returns a JSON logger writing to w at level.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl), nil
}

// NewConsole returns a human-readable logger writing to w at level.
func NewConsole(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).With().Timestamp().Logger().Level(lvl), nil
}

// Log writes msg with err attached at level. The first logger, if any,
// replaces the package default.
func Log(level zerolog.Level, msg string, err error, l ...*zerolog.Logger) {
	var lg *zerolog.Logger
	if len(l) > 0 && l[0] != nil {
		lg = l[0]
	} else {
		lg = Default()
	}
	Event(lg.WithLevel(level), err).Msg(msg)
}

// Error logs err with msg at error level.
func Error(msg string, err error, l ...*zerolog.Logger) {
	Log(zerolog.ErrorLevel, msg, err, l...)
}

// Warn logs err with msg at warn level.
func Warn(msg string, err error, l ...*zerolog.Logger) {
	Log(zerolog.WarnLevel, msg, err, l...)
}

// Debug logs err with msg at debug level.
func Debug(msg string, err error, l ...*zerolog.Logger) {
	Log(zerolog.DebugLevel, msg, err, l...)
}
