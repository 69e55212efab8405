package formula

import (
	"log/slog"

	"github.com/midbel/gridcalc/value"
)

type Option func(*Manager)

// WithUpdater sets the collaborator told about rewritten formulas.
func WithUpdater(u Updater) Option {
	return func(m *Manager) {
		if u != nil {
			m.updater = u
		}
	}
}

// WithContext sets the context formulas are evaluated against.
func WithContext(ctx value.Context) Option {
	return func(m *Manager) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}
