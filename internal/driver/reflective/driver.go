// Package reflective is the last-resort backend: it walks every registered
// binding, whatever its name, and brute-forces a print call. When even that
// fails it dumps the receipt to the console so the operator can hand-copy the
// order, but the job still reports failure.
package reflective

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

const (
	maxAttempts = 800
	window      = 5 * time.Second
)

// Driver brute-forces prints across the whole binding registry.
type Driver struct {
	reg *binding.Registry
	log *zap.Logger

	mu      sync.Mutex
	working []driver.WorkingCall

	// out receives the console dump when no binding takes the job.
	out io.Writer
}

// New creates the reflective fallback driver.
func New(reg *binding.Registry, log *zap.Logger) *Driver {
	return &Driver{
		reg: reg,
		log: log.With(zap.String("backend", string(driver.BackendReflective))),
		out: os.Stdout,
	}
}

// Backend identifies this driver.
func (d *Driver) Backend() driver.Backend {
	return driver.BackendReflective
}

// Initialize succeeds whenever there is anything at all to probe.
func (d *Driver) Initialize(ctx context.Context) error {
	if d.reg.Len() == 0 {
		return driver.ErrNoBackend
	}
	return nil
}

// PrintOrder tries every binding in the registry against the candidate
// method/shape tables under one budget.
func (d *Driver) PrintOrder(ctx context.Context, o *receipt.Order) error {
	return d.print(ctx, receipt.Text(o, nil))
}

// TestPrint pushes the self-test block through the same search.
func (d *Driver) TestPrint(ctx context.Context) error {
	return d.print(ctx, receipt.TestText())
}

func (d *Driver) print(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, w := range d.working {
		if err := w.Replay(ctx, d.reg, text); err == nil {
			return nil
		}
	}

	budget := driver.NewBudget(maxAttempts, window)
	for _, name := range d.reg.Names() {
		b, ok := d.reg.Get(name)
		if !ok {
			continue
		}
		if w, ok := driver.TryBinding(ctx, b, text, budget, d.log); ok {
			d.working = append(d.working, w)
			return nil
		}
	}

	d.log.Warn("no binding accepted the job, dumping receipt to console",
		zap.Int("bindings", d.reg.Len()),
		zap.Int("attempts", budget.Attempts()),
	)
	fmt.Fprintln(d.out, text)

	return fmt.Errorf("%w: reflective search exhausted", driver.ErrNoBackend)
}
