// Package driver defines the capability interface every printing backend
// implements, the backend identity enumeration, and the shared brute-force
// candidate tables the discovery drivers interpret.
package driver

import (
	"context"

	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// Backend identifies a printing backend.
type Backend string

const (
	BackendEmbedded   Backend = "embedded-service"
	BackendVendor     Backend = "vendor-sdk"
	BackendGeneric    Backend = "generic-transport"
	BackendReflective Backend = "reflective-fallback"
	BackendNone       Backend = "none"
)

// Driver is the uniform capability interface over all printing backends.
// Implementations return errors only from this boundary; they never panic
// past it.
type Driver interface {
	Backend() Backend

	// Initialize connects to and prepares the backend. ErrNoBackend means
	// the hardware is simply absent and the caller should fall through to
	// the next driver in preference order.
	Initialize(ctx context.Context) error

	TestPrint(ctx context.Context) error
	PrintOrder(ctx context.Context, o *receipt.Order) error
}
