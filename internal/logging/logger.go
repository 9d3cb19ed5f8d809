// Package logging holds the process-wide zap logger used by the composition
// packages. It is a no-op logger until Set is called.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// L returns the current logger.
func L() *zap.Logger {
	return current.Load()
}

// Named returns the current logger scoped to a subsystem name.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Set installs logger and returns a function restoring the previous one.
// A nil logger installs a no-op logger.
func Set(logger *zap.Logger) (restore func()) {
	if logger == nil {
		logger = zap.NewNop()
	}

	prev := current.Swap(logger)

	return func() { current.Store(prev) }
}

// New builds a production logger, lowered to debug level when debug is set.
func New(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return config.Build()
}
