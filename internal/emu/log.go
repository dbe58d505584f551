package emu

import "go.uber.org/zap"

// Level names a log severity, matching spec's pluggable trace callback.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

// Logger is the narrow interface the emulator calls into for CPU tracing and
// lifecycle messages, so front ends (or tests) can swap in a no-op or a file
// sink without the core depending on any concrete logging library directly.
type Logger interface {
	Tracef(level Level, format string, args ...any)
}

// zapLogger adapts a zap.SugaredLogger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger builds a Logger backed by a development zap config, cheap
// enough to construct per-Machine since tracing is opt-in via Config.Trace.
func NewZapLogger() Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return noopLogger{}
	}
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Tracef(level Level, format string, args ...any) {
	switch level {
	case LevelTrace, LevelDebug:
		z.s.Debugf(format, args...)
	case LevelInfo:
		z.s.Infof(format, args...)
	case LevelWarning:
		z.s.Warnf(format, args...)
	case LevelError:
		z.s.Errorf(format, args...)
	case LevelFatal:
		z.s.Fatalf(format, args...)
	}
}

// noopLogger discards everything; the default when Config.Trace is false.
type noopLogger struct{}

func (noopLogger) Tracef(Level, string, ...any) {}
