package log

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	WarnLevel  = Level(zapcore.WarnLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// ParseLevel accepts the zap level names: debug, info, warn, error...
func ParseLevel(s string) (Level, error) {
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		return InfoLevel, errors.Wrapf(err, "log level %q", s)
	}
	return Level(l), nil
}

type OutputEncoder func(zapcore.EncoderConfig) zapcore.Encoder

var (
	JsonOutputEncoder    OutputEncoder = zapcore.NewJSONEncoder
	ConsoleOutputEncoder OutputEncoder = zapcore.NewConsoleEncoder
)

// ParseOutputEncoder maps "json" or "console" to an encoder.
func ParseOutputEncoder(s string) (OutputEncoder, error) {
	switch s {
	case "json":
		return JsonOutputEncoder, nil
	case "console":
		return ConsoleOutputEncoder, nil
	}
	return nil, errors.Errorf("unknown log format %q", s)
}

type CallerEncoder func(zapcore.EntryCaller, zapcore.PrimitiveArrayEncoder)

var ShortCallerEncoder CallerEncoder = zapcore.ShortCallerEncoder

type LevelEncoder func(zapcore.Level, zapcore.PrimitiveArrayEncoder)

var (
	CapitalLevelEncoder LevelEncoder = zapcore.CapitalLevelEncoder
	BracketLevelEncoder LevelEncoder = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + l.CapitalString() + "]")
	}
)

type Options struct {
	//json or console
	outputEncoder OutputEncoder
	level         Level
	callerEncoder CallerEncoder
	levelEncoder  LevelEncoder
	//stack trace on warn and above
	stacktrace bool
	timeLayout string
	name       string
	//stdout and stderr when nil
	infoWriter io.Writer
	errWriter  io.Writer
}

func (o *Options) WithStacktrace(stacktrace bool) *Options {
	o.stacktrace = stacktrace
	return o
}

func (o *Options) WithTimeLayout(timeLayout string) *Options {
	o.timeLayout = timeLayout
	return o
}

func (o *Options) WithOutputEncoder(outputEncoder OutputEncoder) *Options {
	o.outputEncoder = outputEncoder
	return o
}

func (o *Options) WithLevel(level Level) *Options {
	o.level = level
	return o
}

func (o *Options) WithCallerEncoder(callerEncoder CallerEncoder) *Options {
	o.callerEncoder = callerEncoder
	return o
}

func (o *Options) WithLevelEncoder(encoder LevelEncoder) *Options {
	o.levelEncoder = encoder
	return o
}

func (o *Options) WithNamed(name string) *Options {
	o.name = name
	return o
}

func (o *Options) WithWriters(info, err io.Writer) *Options {
	o.infoWriter, o.errWriter = info, err
	return o
}

func DefaultOptions() *Options {
	return &Options{level: InfoLevel,
		timeLayout:    "02/Jan/2006:15:04:05 -0700",
		levelEncoder:  BracketLevelEncoder,
		outputEncoder: JsonOutputEncoder}
}
