// Package logger builds the zap logger shared across the service.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a production zap logger at the given level ("debug", "info",
// ...) and installs it as the global logger so zap.L() picks it up.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
