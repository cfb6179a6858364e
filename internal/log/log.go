// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package log builds the zap logger used by the xhd command. The library
// packages never log; only the command reports diagnostics, always on
// stderr so that stdout carries nothing but results.
package log

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log encoding and level.
type Config struct {
	Format string `env:"XHD_LOG_FORMAT" env-default:"console"` // console or json
	Level  string `env:"XHD_LOG_LEVEL" env-default:"warn"`     // debug, info, warn, error
}

// New creates a logger for conf. Output goes to os.Stderr unless writers are
// given.
func New(conf Config, writers ...zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("could not parse log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format: %q (must be console or json)", conf.Format)
	}

	if len(writers) == 0 {
		writers = []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
	return zap.New(core).Named("xhd"), nil
}
