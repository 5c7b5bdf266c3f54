// Package binding models the native entry points the host platform exposes
// to this process. Each printing backend on a POS device surfaces as a named
// binding with a flat method set; the registry is the single place drivers
// and the capability probe look them up.
package binding

import (
	"context"
	"errors"
	"fmt"
)

// Well-known binding names. These are the high-value entry points the probe
// inspects directly, in addition to its keyword scan.
const (
	NameEmbeddedService = "PosPrinterService"
	NameVendorPrinter   = "PDAPrinter"
	NameGenericUSB      = "USBPrinter"
)

var (
	// ErrNotFound is returned when no binding is registered under a name.
	ErrNotFound = errors.New("binding not found")
	// ErrUnknownMethod is returned when a binding does not expose a method.
	ErrUnknownMethod = errors.New("unknown binding method")
)

// Binding is a single named native entry point. Method sets are flat; calls
// are dispatched by method name with loosely typed arguments, mirroring how
// the platform layer exposes them.
type Binding interface {
	Name() string
	// Methods lists the callable method names. Implementations wrapping
	// flaky native layers may panic here; callers that must survive that
	// (the probe) guard with recover.
	Methods() []string
	Invoke(ctx context.Context, method string, args ...interface{}) (interface{}, error)
}

// InvokeFunc is a single bound method implementation.
type InvokeFunc func(ctx context.Context, args ...interface{}) (interface{}, error)

// FuncBinding is a Binding backed by a method table. Hosts register one per
// platform entry point; tests register fakes.
type FuncBinding struct {
	name    string
	methods map[string]InvokeFunc
	order   []string
}

// NewFuncBinding creates an empty FuncBinding with the given name.
func NewFuncBinding(name string) *FuncBinding {
	return &FuncBinding{
		name:    name,
		methods: make(map[string]InvokeFunc),
	}
}

// Handle binds a method name to an implementation. Returns the binding for
// chained registration.
func (b *FuncBinding) Handle(method string, fn InvokeFunc) *FuncBinding {
	if _, exists := b.methods[method]; !exists {
		b.order = append(b.order, method)
	}
	b.methods[method] = fn
	return b
}

// Name returns the binding name.
func (b *FuncBinding) Name() string {
	return b.name
}

// Methods returns method names in registration order.
func (b *FuncBinding) Methods() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Invoke dispatches a call to the bound method.
func (b *FuncBinding) Invoke(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	fn, ok := b.methods[method]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", b.name, method, ErrUnknownMethod)
	}
	return fn(ctx, args...)
}
