// Package command provides a small text command language over the print
// facade, used by the /command endpoint for scripting and smoke tests.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/arkwaretechnologies/laundropos-print/internal/printsvc"
	"github.com/arkwaretechnologies/laundropos-print/internal/probe"
)

// Facade is the slice of the print service commands operate on.
type Facade interface {
	Initialize(ctx context.Context) printsvc.Result
	TestPrint(ctx context.Context) printsvc.Result
	Rescan(ctx context.Context) printsvc.Result
	Status() printsvc.Status
	Probe() []probe.Capability
	Jobs() []*printsvc.Job
	Job(id string) (*printsvc.Job, bool)
}

// Executor executes commands.
type Executor struct {
	svc Facade
}

// NewExecutor creates a command executor over the facade.
func NewExecutor(svc Facade) *Executor {
	return &Executor{svc: svc}
}

// Result represents the result of executing a command.
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Execute runs a command string and returns a result.
func (e *Executor) Execute(ctx context.Context, cmdStr string) *Result {
	parts := parseCommand(cmdStr)
	if len(parts) == 0 {
		return &Result{Success: false, Error: "empty command"}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "init":
		return fromResult(e.svc.Initialize(ctx))
	case "test":
		return fromResult(e.svc.TestPrint(ctx))
	case "rescan":
		return fromResult(e.svc.Rescan(ctx))
	case "status":
		return e.handleStatus()
	case "probe":
		return e.handleProbe()
	case "job":
		return e.handleJob(args)
	case "jobs":
		return e.handleJobs()
	case "help":
		return e.handleHelp()
	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown command: %s. Type 'help' for available commands", cmd),
		}
	}
}

// fromResult shapes a facade result as a command result.
func fromResult(res printsvc.Result) *Result {
	if res.OK() {
		return &Result{
			Success: true,
			Message: fmt.Sprintf("ok on %s", res.Backend),
			Data:    map[string]interface{}{"backend": res.Backend, "job_id": res.JobID},
		}
	}
	return &Result{
		Success: false,
		Error:   res.Message,
		Data:    map[string]interface{}{"code": res.Code, "backend": res.Backend},
	}
}

// parseCommand splits a command string into parts, handling quoted strings.
func parseCommand(cmdStr string) []string {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return []string{}
	}

	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := byte(0)

	for i := 0; i < len(cmdStr); i++ {
		char := cmdStr[i]

		if char == '"' || char == '\'' {
			if !inQuotes {
				inQuotes = true
				quoteChar = char
			} else if char == quoteChar {
				inQuotes = false
				quoteChar = 0
			} else {
				current.WriteByte(char)
			}
		} else if char == ' ' && !inQuotes {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		} else {
			current.WriteByte(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
