package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBackend means the backend's hardware or binding is absent.
	// Recoverable: the selector falls through to the next driver.
	ErrNoBackend = errors.New("printing backend not present")

	// ErrNotReady means the hardware exists but refused the job (paper out,
	// busy past the retry budget, error state). Fatal for this call only.
	ErrNotReady = errors.New("printer not ready")
)

// HardwareError is an explicit failure reported by a native call.
type HardwareError struct {
	Backend Backend
	Op      string
	Msg     string
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("%s: %s failed: %s", e.Backend, e.Op, e.Msg)
}

// Hardware wraps a native failure message into a HardwareError.
func Hardware(backend Backend, op, msg string) error {
	return &HardwareError{Backend: backend, Op: op, Msg: msg}
}
