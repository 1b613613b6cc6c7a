// Package logger builds the process-wide zap logger from the configured
// verbosity string.
package logger

import (
	"go.uber.org/zap"
)

func newConfig(verbosity string) (zap.Config, error) {
	config := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(verbosity)
	if err != nil {
		return zap.Config{}, err
	}
	config.Level = level
	// Teardown diagnostics are the only record of swallowed driver
	// failures; never sample them away.
	config.Sampling = nil
	return config, nil
}

func New(verbosity string) (*zap.Logger, error) {
	config, err := newConfig(verbosity)
	if err != nil {
		return nil, err
	}
	return config.Build()
}
