// Package log wraps a zap sugared logger behind a small interface.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	rootLogger Logger
	mutex      = &sync.Mutex{}
)

type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Named(name string) Logger
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

// Global returns the root logger, or a no-op logger before Setup.
func Global() Logger {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger == nil {
		return Nop()
	}
	return rootLogger
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

// Setup builds the root logger once; later calls only warn.
func Setup(options *Options) Logger {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger != nil {
		rootLogger.Warn("can't re setup root logger")
		return rootLogger
	}
	rootLogger = New(options)
	return rootLogger
}

// New builds a logger that writes records below warn level to the info
// writer and the rest to the error writer.
func New(options *Options) Logger {
	var (
		opts          []zap.Option
		encoderConfig = zap.NewProductionEncoderConfig()
		infoWriter    = zapcore.AddSync(os.Stdout)
		errWriter     = zapcore.AddSync(os.Stderr)
	)
	if options.infoWriter != nil {
		infoWriter = zapcore.AddSync(options.infoWriter)
	}
	if options.errWriter != nil {
		errWriter = zapcore.AddSync(options.errWriter)
	}

	if options.callerEncoder != nil {
		opts = append(opts, zap.AddCaller())
		encoderConfig.EncodeCaller = zapcore.CallerEncoder(options.callerEncoder)
	}

	encoderConfig.EncodeLevel = zapcore.LevelEncoder(options.levelEncoder)
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(options.timeLayout)
	encoderConfig.ConsoleSeparator = " "
	level := zapcore.Level(options.level)
	cores := []zapcore.Core{zapcore.NewCore(
		options.outputEncoder(encoderConfig),
		infoWriter,
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= level && lvl < zapcore.WarnLevel
		}),
	), zapcore.NewCore(
		options.outputEncoder(encoderConfig),
		errWriter,
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= level && lvl >= zapcore.WarnLevel
		}),
	)}

	if options.stacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.WarnLevel))
	}
	sugar := zap.New(zapcore.NewTee(cores...), opts...).Sugar()
	if options.name != "" {
		sugar = sugar.Named(options.name)
	}
	return &logger{sugar}
}
