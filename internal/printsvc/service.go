// Package printsvc is the print facade: it owns backend selection, per-call
// guarding, the job log, and the event stream. Callers never talk to a
// driver directly.
package printsvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver/embedded"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver/reflective"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver/transport"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver/vendor"
	"github.com/arkwaretechnologies/laundropos-print/internal/probe"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// callDeadline bounds every driver call made through the facade. A backend
// that blocks past this is treated as not ready, whatever it is doing.
const callDeadline = 10 * time.Second

// Config wires the facade's collaborators.
type Config struct {
	Registry *binding.Registry
	Logger   *zap.Logger
	Identity vendor.DeviceIdentity

	// NetworkAddr is an optional raw-port printer address handed to the
	// generic transport.
	NetworkAddr string

	// Drivers overrides the default backend chain, in preference order.
	// Leave nil for the standard vendor/embedded/transport/reflective set.
	Drivers []driver.Driver
}

// Service is the print facade.
type Service struct {
	log     *zap.Logger
	scanner *probe.Scanner
	drivers []driver.Driver
	generic *transport.Driver

	jobs   *JobLog
	events *Hub

	mu    sync.Mutex
	bound driver.Driver

	jobMuMu sync.Mutex
	jobMu   map[driver.Backend]*sync.Mutex

	deadline time.Duration
}

// New builds the facade. With no driver override the chain is, in preference
// order: vendor SDK, embedded service, generic transport, reflective
// fallback.
func New(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		log:      log.With(zap.String("component", "printsvc")),
		scanner:  probe.NewScanner(cfg.Registry, log),
		drivers:  cfg.Drivers,
		jobs:     NewJobLog(),
		events:   NewHub(),
		jobMu:    make(map[driver.Backend]*sync.Mutex),
		deadline: callDeadline,
	}

	if s.drivers == nil {
		s.generic = transport.New(cfg.Registry, log)
		if cfg.NetworkAddr != "" {
			s.generic.UseNetworkAddr(cfg.NetworkAddr)
		}
		s.drivers = []driver.Driver{
			vendor.New(cfg.Registry, cfg.Identity, log),
			embedded.New(embedded.NewBindingClient(cfg.Registry), log),
			s.generic,
			reflective.New(cfg.Registry, log),
		}
	}
	return s
}

// Initialize binds the first backend whose hardware answers.
func (s *Service) Initialize(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Service) initializeLocked(ctx context.Context) Result {
	if s.bound != nil {
		return success(s.bound.Backend(), "")
	}

	var lastErr error
	for _, d := range s.drivers {
		err := s.guarded(ctx, d.Backend(), func(ctx context.Context) error {
			return d.Initialize(ctx)
		})
		if err == nil {
			s.bind(d)
			return success(d.Backend(), "")
		}

		// A transport that found nothing gets one more chance seeded with
		// whatever a capability scan turns up.
		if g, ok := d.(*transport.Driver); ok && g == s.generic {
			if caps := s.scanner.Scan(); len(caps) > 0 {
				g.UseCapabilities(caps)
				if retryErr := s.guarded(ctx, d.Backend(), func(ctx context.Context) error {
					return d.Initialize(ctx)
				}); retryErr == nil {
					s.bind(d)
					return success(d.Backend(), "")
				}
			}
		}

		s.log.Debug("backend unavailable",
			zap.String("backend", string(d.Backend())),
			zap.Error(err),
		)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = driver.ErrNoBackend
	}
	return failure(driver.BackendNone, "", fmt.Errorf("no printing backend available: %w", lastErr))
}

func (s *Service) bind(d driver.Driver) {
	s.bound = d
	s.log.Info("printing backend bound", zap.String("backend", string(d.Backend())))
	s.events.Publish(Event{Type: "bound", Backend: d.Backend()})
}

// PrintOrder prints an order receipt. The bound backend goes first; on
// failure every remaining backend in preference order gets the job before it
// is reported failed.
func (s *Service) PrintOrder(ctx context.Context, o *receipt.Order) Result {
	job := s.jobs.Open("order", o.Number())
	res := s.run(ctx, job, func(ctx context.Context, d driver.Driver) error {
		return d.PrintOrder(ctx, o)
	})
	return res
}

// TestPrint prints the self-test block, falling through the remaining
// backends the same way order prints do.
func (s *Service) TestPrint(ctx context.Context) Result {
	job := s.jobs.Open("test", "")
	return s.run(ctx, job, func(ctx context.Context, d driver.Driver) error {
		return d.TestPrint(ctx)
	})
}

// run executes one print attempt with bind-first-then-fall-through ordering.
func (s *Service) run(ctx context.Context, job *Job, op func(context.Context, driver.Driver) error) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.initializeLocked(ctx); !r.OK() {
		return s.finish(job, driver.BackendNone, fmt.Errorf("%w: %s", driver.ErrNoBackend, r.Message))
	}

	attempts := make([]driver.Driver, 0, len(s.drivers))
	attempts = append(attempts, s.bound)
	for _, d := range s.drivers {
		if d != s.bound {
			attempts = append(attempts, d)
		}
	}

	var firstErr error
	for i, d := range attempts {
		err := s.guarded(ctx, d.Backend(), func(ctx context.Context) error {
			// Fall-through backends were never initialized in this run.
			if i > 0 {
				if initErr := d.Initialize(ctx); initErr != nil {
					return initErr
				}
			}
			return op(ctx, d)
		})
		if err == nil {
			if d != s.bound {
				s.bind(d)
			}
			return s.finish(job, d.Backend(), nil)
		}

		s.log.Warn("backend rejected job",
			zap.String("backend", string(d.Backend())),
			zap.String("job", job.ID),
			zap.Error(err),
		)
		// The first non-absent failure is the one worth reporting; absence
		// alone collapses to no-backend below.
		if firstErr == nil && classify(err) != CodeNoBackend {
			firstErr = err
		}
	}

	if firstErr == nil {
		firstErr = driver.ErrNoBackend
	}
	return s.finish(job, s.bound.Backend(), firstErr)
}

// finish closes the job log entry, publishes the job event, and shapes the
// result.
func (s *Service) finish(job *Job, backend driver.Backend, err error) Result {
	var res Result
	if err == nil {
		res = success(backend, job.ID)
	} else {
		res = failure(backend, job.ID, err)
	}
	s.jobs.Close(job, backend, res.Code, res.Message)
	s.events.Publish(Event{
		Type:    "job",
		Backend: backend,
		JobID:   job.ID,
		Code:    res.Code,
		Message: res.Message,
	})
	return res
}

// guarded serializes calls per backend and bounds them with the call
// deadline. A panic inside a driver counts as a hardware failure; a call
// that outlives the deadline is abandoned and reported not ready.
func (s *Service) guarded(ctx context.Context, backend driver.Backend, fn func(context.Context) error) error {
	mu := s.backendMu(backend)
	mu.Lock()
	defer mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- driver.Hardware(backend, "call", fmt.Sprintf("driver panicked: %v", r))
			}
		}()
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %s call exceeded %s", driver.ErrNotReady, backend, s.deadline)
	}
}

func (s *Service) backendMu(backend driver.Backend) *sync.Mutex {
	s.jobMuMu.Lock()
	defer s.jobMuMu.Unlock()

	mu, ok := s.jobMu[backend]
	if !ok {
		mu = &sync.Mutex{}
		s.jobMu[backend] = mu
	}
	return mu
}

// Status is a point-in-time view of the facade.
type Status struct {
	Backend driver.Backend     `json:"backend"`
	Bound   bool               `json:"bound"`
	Probe   []probe.Capability `json:"probe"`
	Jobs    int                `json:"jobs"`
}

// Status reports the bound backend and the current capability scan.
func (s *Service) Status() Status {
	s.mu.Lock()
	bound := s.bound
	s.mu.Unlock()

	st := Status{
		Backend: driver.BackendNone,
		Probe:   s.scanner.Scan(),
		Jobs:    len(s.jobs.List()),
	}
	if bound != nil {
		st.Backend = bound.Backend()
		st.Bound = true
	}
	return st
}

// Probe runs a fresh capability scan.
func (s *Service) Probe() []probe.Capability {
	return s.scanner.Scan()
}

// Rescan drops the bound backend and re-runs selection from the top. Used
// after hardware is plugged in or a service restart.
func (s *Service) Rescan(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bound = nil
	s.events.Publish(Event{Type: "rescan", Backend: driver.BackendNone})
	return s.initializeLocked(ctx)
}

// Jobs returns the job history, newest first.
func (s *Service) Jobs() []*Job {
	return s.jobs.List()
}

// Job looks up one job by ID.
func (s *Service) Job(id string) (*Job, bool) {
	return s.jobs.Get(id)
}

// Subscribe attaches an event listener.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.events.Subscribe()
}
