package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a logger at the given level. The development flavor logs
// human-readable lines; the production one logs JSON. The returned level can
// be changed while the logger is in use.
func NewLogger(level string, development bool) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("building logger: %w", err)
	}

	return logger, cfg.Level, nil
}

// NewLoggerFromEnv builds the logger described by the environment.
func NewLoggerFromEnv(env Env) (*zap.Logger, zap.AtomicLevel, error) {
	return NewLogger(env.LogLevel, env.Development)
}
