package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type LoggingConfig struct {
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// EnableColorOutput reports whether stream is a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

func consoleEncoder(stream *os.File) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// Prepare returns the program logger. All messages at or above the
// configured level go to stderr, stdout carries command output only.
func (conf *LoggingConfig) Prepare(name string) *zap.Logger {
	var lowest zapcore.Level
	switch conf.ConsoleLogger.Level {
	case "debug":
		lowest = zapcore.DebugLevel
	case "normal":
		lowest = zapcore.InfoLevel
	default:
		return zap.NewNop()
	}
	core := zapcore.NewCore(consoleEncoder(os.Stderr), zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(lowest))
	return zap.New(core).Named(name)
}
