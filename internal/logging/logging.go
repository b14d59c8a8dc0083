// Package logging configures the zap logger shared by every service binary
// (roombus, participant, dealer, signctl). The MPC engine itself keeps
// logging through common.Logger (ipfs/go-log); this package is the ambient
// logger for everything wrapped around it.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger for one of the levels named in spec §6
// (error/warn/info/debug/trace). "trace" has no zap equivalent and maps to
// Debug.
func New(level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	default:
		return 0, fmt.Errorf("unrecognised log_level %q", level)
	}
}
