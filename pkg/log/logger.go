package log

import (
	"context"
	"io"
	"os"
	"sync"

	cockroacherrors "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	evierrors "github.com/YuminosukeSato/evigo/pkg/errors"
)

const (
	// ErrAttrKey is the attribute key used for error values.
	ErrAttrKey = "error"
	// StacktraceAttrKey is the attribute key used for extracted stack traces.
	StacktraceAttrKey = "stacktrace"
	// NameAttrKey is the attribute key used for component names.
	NameAttrKey = "logger"
)

var (
	loggerMu     sync.RWMutex
	globalLevel  = LevelWarn // libraries stay quiet unless asked
	globalOutput io.Writer   = os.Stderr
)

func init() {
	// Route library warnings (e.g. ConvergenceWarning) through the
	// structured logger instead of the plain log fallback.
	evierrors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn("evigo warning", ErrAttrKey, warning)
	})
}

// SetLevel sets the minimum level emitted by loggers created afterwards.
func SetLevel(level Level) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLevel = level
}

// SetOutput redirects logger output. Intended for tests and demo binaries.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalOutput = w
}

// GetLogger returns the default structured logger.
func GetLogger() Logger {
	return newZerologLogger("")
}

// GetLoggerWithName returns a logger tagged with a component name,
// e.g. "brb.trainer".
func GetLoggerWithName(name string) Logger {
	return newZerologLogger(name)
}

// zerologLogger implements Logger on top of zerolog.
type zerologLogger struct {
	zl zerolog.Logger
}

func newZerologLogger(name string) *zerologLogger {
	loggerMu.RLock()
	level := globalLevel
	out := globalOutput
	loggerMu.RUnlock()

	ctx := zerolog.New(out).Level(toZerologLevel(level)).With().Timestamp()
	if name != "" {
		ctx = ctx.Str(NameAttrKey, name)
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Debug implements Logger.Debug.
func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error implements Logger.Error. An error passed as the first field gets a
// stacktrace attribute when one can be extracted.
func (l *zerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.AnErr(ErrAttrKey, err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

// With implements Logger.With.
func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

// extractStacktrace pulls a stack trace recorded by cockroachdb/errors, if any.
func extractStacktrace(err error) string {
	safeDetails := cockroacherrors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
