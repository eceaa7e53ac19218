package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/nedpals/enumcomplete/helpers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger writes to stderr since stdout carries LSP traffic. Terminals
// get the console encoder, everything else gets JSON.
func newLogger(config *helpers.Config, verbose bool) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if len(config.LogLevel) != 0 {
		parsed, err := zapcore.ParseLevel(config.LogLevel)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid log level %q", config.LogLevel)
		}
		level = parsed
	}

	if verbose {
		level = zapcore.DebugLevel
	}

	var out zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	cleanup := func() {}

	if len(config.LogFile) != 0 {
		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open log file %s", config.LogFile)
		}
		out = zapcore.AddSync(file)
		isTerminal = false
		cleanup = func() { file.Close() }
	}

	var encoder zapcore.Encoder
	if isTerminal {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	logger := zap.New(zapcore.NewCore(encoder, out, level))
	return logger, func() {
		_ = logger.Sync()
		cleanup()
	}, nil
}
