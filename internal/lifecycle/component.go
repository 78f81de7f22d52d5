package lifecycle

import "context"

// Component is the lifecycle interface managed components implement. The
// manager starts components in registration order and stops them in
// reverse, so registration order expresses dependency order.
type Component interface {
	// Start initializes the component. It must return promptly; long
	// running work belongs in a background goroutine.
	Start(ctx context.Context) error

	// Stop gracefully stops the component within the context deadline.
	Stop(ctx context.Context) error

	// Name returns the human-readable name of the component.
	Name() string
}
