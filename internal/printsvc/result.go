package printsvc

import (
	"errors"

	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
)

// Code classifies how an operation ended. Callers branch on this instead of
// parsing error strings.
type Code string

const (
	CodeOk        Code = "ok"
	CodeNotReady  Code = "not-ready"
	CodeNoBackend Code = "no-backend"
	CodeHardware  Code = "hardware-error"
)

// Result is the outcome of a facade operation.
type Result struct {
	Code    Code           `json:"code"`
	Backend driver.Backend `json:"backend"`
	Message string         `json:"message,omitempty"`
	JobID   string         `json:"jobId,omitempty"`
}

// OK reports success.
func (r Result) OK() bool {
	return r.Code == CodeOk
}

// classify maps a driver error onto a result code.
func classify(err error) Code {
	switch {
	case err == nil:
		return CodeOk
	case errors.Is(err, driver.ErrNoBackend):
		return CodeNoBackend
	case errors.Is(err, driver.ErrNotReady):
		return CodeNotReady
	default:
		return CodeHardware
	}
}

func success(backend driver.Backend, jobID string) Result {
	return Result{Code: CodeOk, Backend: backend, JobID: jobID}
}

func failure(backend driver.Backend, jobID string, err error) Result {
	r := Result{Code: classify(err), Backend: backend, JobID: jobID}
	if err != nil {
		r.Message = err.Error()
	}
	return r
}
