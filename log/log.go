package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type Level = zapcore.Level

const (
	DebugLevel Level = zap.DebugLevel
	InfoLevel  Level = zap.InfoLevel
	WarnLevel  Level = zap.WarnLevel
	ErrorLevel Level = zap.ErrorLevel
	PanicLevel Level = zap.PanicLevel
	FatalLevel Level = zap.FatalLevel
)

type Field = zap.Field

// function variables for all field types
// in github.com/uber-go/zap/field.go
var (
	Skip        = zap.Skip
	Binary      = zap.Binary
	Bool        = zap.Bool
	Boolp       = zap.Boolp
	ByteString  = zap.ByteString
	Float64     = zap.Float64
	Float64p    = zap.Float64p
	Float32     = zap.Float32
	Float32p    = zap.Float32p
	Int         = zap.Int
	Intp        = zap.Intp
	Int64       = zap.Int64
	Int32       = zap.Int32
	Uint        = zap.Uint
	Uint64      = zap.Uint64
	Uint32      = zap.Uint32
	String      = zap.String
	Strings     = zap.Strings
	Stringp     = zap.Stringp
	Time        = zap.Time
	Duration    = zap.Duration
	Any         = zap.Any
	Reflect     = zap.Reflect
	Stringer    = zap.Stringer
	Namespace   = zap.Namespace
	ErrorField  = zap.Error
	NamedError  = zap.NamedError
	Float       = zap.Float64
	Durationp   = zap.Durationp
	Object      = zap.Object
	Inline      = zap.Inline
	StackSkip   = zap.StackSkip
	Stack       = zap.Stack
	ParseLevel  = zapcore.ParseLevel
	ErrorsField = zap.Errors
)

type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

type Option = zap.Option

var (
	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
	AddStacktrace = zap.AddStacktrace
)

// WithFilter applies zapfilter rules (for example "*:sim.* info:*")
// to the logger. An empty rule set disables filtering.
func WithFilter(rules string) Option {
	return zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		if rules == "" {
			return c
		}
		fn, err := zapfilter.ParseRules(rules)
		if err != nil {
			return c
		}
		return zapfilter.NewFilteringCore(c, fn)
	})
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) Debugw(msg string, keysAndValues ...any) {
	l.l.Sugar().Debugw(msg, keysAndValues...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func (l *Logger) Level() Level {
	return l.level.Level()
}

func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

// Enabled reports whether messages at the given level would be logged.
func (l *Logger) Enabled(level Level) bool {
	return l.l.Core().Enabled(level)
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

// Zap returns the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.l
}

var std = New(os.Stderr, InfoLevel)

func Default() *Logger {
	return std
}

// ResetDefault replaces the package default logger. Not safe for concurrent use.
func ResetDefault(l *Logger) {
	std = l
	Debug = std.Debug
	Info = std.Info
	Warn = std.Warn
	Error = std.Error
	Fatal = std.Fatal
}

// New creates a JSON logger which writes to w.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		panic("the writer is nil")
	}
	atomicLevel := zap.NewAtomicLevelAt(level)
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(w),
		atomicLevel,
	)
	return &Logger{l: zap.New(core, opts...), level: atomicLevel}
}

// DevLogger creates a console logger which writes to w.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		panic("the writer is nil")
	}
	atomicLevel := zap.NewAtomicLevelAt(level)
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		atomicLevel,
	)
	return &Logger{l: zap.New(core, opts...), level: atomicLevel}
}

// Nop returns a logger which discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{l: zap.NewNop(), level: zap.NewAtomicLevelAt(FatalLevel)}
}

var (
	Debug = std.Debug
	Info  = std.Info
	Warn  = std.Warn
	Error = std.Error
	Fatal = std.Fatal
)

func Fatalf(format string, args ...any) {
	std.l.Sugar().Fatalf(format, args...)
}

func Sync() error {
	if std != nil {
		return std.Sync()
	}
	return nil
}
