// Package lifecycle orchestrates ordered startup and reverse-ordered
// shutdown of long-running components, with a per-component grace period.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/recallgraph/recallgraph/internal/logging"
)

// Manager starts registered components in order and stops them in
// reverse order. A failed start rolls back everything already started.
type Manager struct {
	mu              sync.Mutex
	components      []Component
	started         []Component
	shutdownTimeout time.Duration
	logger          *logging.Logger
}

// NewManager creates a lifecycle manager with a 30 second per-component
// shutdown grace period.
func NewManager() *Manager {
	return &Manager{
		shutdownTimeout: 30 * time.Second,
		logger:          logging.GetLogger("lifecycle.manager"),
	}
}

// Register adds a component. Components start in registration order, so
// dependencies must be registered before their dependents.
func (m *Manager) Register(component Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if component == nil {
		return fmt.Errorf("cannot register nil component")
	}
	if component.Name() == "" {
		return fmt.Errorf("component must have a non-empty name")
	}
	for _, c := range m.components {
		if c == component {
			return fmt.Errorf("component %s is already registered", component.Name())
		}
	}

	m.components = append(m.components, component)
	m.logger.Debug("registered component %s", component.Name())
	return nil
}

// Start starts all components in registration order. If one fails, the
// already-started components are stopped in reverse order and the error
// is returned.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = nil
	for _, component := range m.components {
		m.logger.Info("starting %s", component.Name())
		begin := time.Now()

		if err := component.Start(ctx); err != nil {
			m.logger.Error("failed to start %s: %v", component.Name(), err)
			m.rollback()
			return fmt.Errorf("start %s: %w", component.Name(), err)
		}

		m.started = append(m.started, component)
		m.logger.Info("%s started (took %dms)", component.Name(), time.Since(begin).Milliseconds())
	}

	m.logger.Info("all components started")
	return nil
}

// Stop stops started components in reverse order, each with its own
// grace period. Stop errors are logged, never propagated: shutdown
// always runs to completion.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.started) - 1; i >= 0; i-- {
		component := m.started[i]
		m.logger.Info("stopping %s", component.Name())

		componentCtx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
		if err := component.Stop(componentCtx); err != nil {
			if err == context.DeadlineExceeded {
				m.logger.Warn("%s exceeded the shutdown grace period", component.Name())
			} else {
				m.logger.Error("error stopping %s: %v", component.Name(), err)
			}
		}
		cancel()
	}

	m.started = nil
	m.logger.Info("all components stopped")
}

// rollback stops components started during a failed Start, in reverse
// order, with a short timeout each.
func (m *Manager) rollback() {
	for i := len(m.started) - 1; i >= 0; i-- {
		component := m.started[i]
		m.logger.Debug("rolling back %s", component.Name())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := component.Stop(ctx); err != nil {
			m.logger.Warn("error stopping %s during rollback: %v", component.Name(), err)
		}
		cancel()
	}
	m.started = nil
}

// SetShutdownTimeout sets the per-component grace period.
func (m *Manager) SetShutdownTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownTimeout = timeout
}
