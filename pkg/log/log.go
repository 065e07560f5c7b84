package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Plugin is one log destination.
type Plugin = zapcore.Core

// NewLogger builds a logger writing to every plugin, with the default options
// applied before the given ones.
func NewLogger(plugins []Plugin, options ...zap.Option) *zap.Logger {
	return zap.New(zapcore.NewTee(plugins...), append(DefaultOption(), options...)...)
}

func NewPlugin(encoder zapcore.Encoder, writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(encoder, writer, enabler)
}

// NewStderrPlugin logs human readable lines to stderr. Stdout is left alone.
func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(ConsoleEncoder(), zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// NewFilePlugin logs JSON to a rotated file. lumberjack does not expose Sync, so
// the returned closer must be closed before exit to flush the file.
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	writer := DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(JSONEncoder(), zapcore.AddSync(writer), enabler), writer
}

// ParseLevel accepts zap level names ("debug", "info", ...). Empty means info.
func ParseLevel(text string) (zapcore.Level, error) {
	if text == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(text)
}
