package embedded

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

const (
	// statusRetries bounds the readiness poll after the body is buffered.
	statusRetries = 5
	// commitRetries bounds the final poll before commit; BUSY clears on
	// its own so it gets a longer budget.
	commitRetries = 10
	// commitFeedLines trails every committed job so the cashier can tear
	// the paper clear of the mechanism.
	commitFeedLines = 8
)

// Driver drives the embedded print service through its connect → initialize
// → buffer → verify → commit lifecycle.
type Driver struct {
	client ServiceClient
	log    *zap.Logger

	mu          sync.Mutex
	connected   bool
	initialized bool

	// Poll intervals, overridable in tests.
	pollInterval time.Duration
	busyInterval time.Duration
}

// New creates the embedded-service driver.
func New(client ServiceClient, log *zap.Logger) *Driver {
	return &Driver{
		client:       client,
		log:          log.With(zap.String("backend", string(driver.BackendEmbedded))),
		pollInterval: 500 * time.Millisecond,
		busyInterval: time.Second,
	}
}

// Backend identifies this driver.
func (d *Driver) Backend() driver.Backend {
	return driver.BackendEmbedded
}

// connect binds to the service, short-circuiting if already connected. The
// service may not be running; Connect also attempts to auto-start it.
func (d *Driver) connect(ctx context.Context) error {
	if connected, err := d.client.IsConnected(ctx); err == nil && connected {
		d.connected = true
		return nil
	}

	ok, err := d.client.Connect(ctx)
	if err != nil {
		if errors.Is(err, binding.ErrNotFound) {
			return driver.ErrNoBackend
		}
		return fmt.Errorf("connect to print service: %w", err)
	}
	if !ok {
		// Present but not reachable. Expected and retryable, not an error.
		d.log.Info("print service present but not reachable")
		return driver.ErrNoBackend
	}

	d.connected = true
	return nil
}

// Initialize connects to the service and initializes the printer. Success
// requires both the connected and initialized flags.
func (d *Driver) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initializeLocked(ctx)
}

func (d *Driver) initializeLocked(ctx context.Context) error {
	if !d.connected {
		if err := d.connect(ctx); err != nil {
			return err
		}
	}

	if err := d.client.InitPrinter(ctx); err != nil {
		d.initialized = false
		return fmt.Errorf("printer init: %w", err)
	}
	d.initialized = true

	d.log.Info("embedded print service initialized")
	return nil
}

// PrintOrder prints a full order receipt. The service's internal state is
// not trusted to persist between jobs, so every call re-initializes.
func (d *Driver) PrintOrder(ctx context.Context, o *receipt.Order) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.connected = false
	d.initialized = false
	if err := d.initializeLocked(ctx); err != nil {
		return err
	}

	store := d.storeInfo(ctx, o)

	// Buffer the header and body.
	for _, op := range receipt.EmbeddedBody(o, store) {
		if err := d.execOp(ctx, op); err != nil {
			return fmt.Errorf("buffer body: %w", err)
		}
	}

	// The mechanism must be ready before the tail goes down.
	if err := d.awaitNormal(ctx, statusRetries, d.pollInterval); err != nil {
		return err
	}

	// Buffer the tail. A QR that will not buffer is not worth losing the
	// receipt over; the job continues text-only.
	for _, op := range receipt.EmbeddedTail(o) {
		if err := d.execOp(ctx, op); err != nil {
			if op.Kind == receipt.OpQR {
				d.log.Warn("QR buffering failed, continuing text-only", zap.Error(err))
				continue
			}
			return fmt.Errorf("buffer tail: %w", err)
		}
	}

	// Re-verify right before commit; state can degrade between polls.
	if err := d.awaitNormal(ctx, commitRetries, d.busyInterval); err != nil {
		return err
	}

	if err := d.client.Commit(ctx, commitFeedLines); err != nil {
		// Flush whatever is buffered so paper is not left mid-feed
		// inside the mechanism, then report the failure.
		if flushErr := d.client.Commit(ctx, 0); flushErr != nil {
			d.log.Warn("best-effort flush commit failed", zap.Error(flushErr))
		}
		return driver.Hardware(driver.BackendEmbedded, "commit", err.Error())
	}

	d.log.Info("order receipt committed", zap.String("order", o.Number()))
	return nil
}

// TestPrint prints a short test block. Test prints fail fast: one status
// check, one commit, no retry loop.
func (d *Driver) TestPrint(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.initializeLocked(ctx); err != nil {
		return err
	}

	status, err := d.client.PrinterStatus(ctx)
	if err != nil {
		return fmt.Errorf("status query: %w", err)
	}
	if status != StatusNormal {
		return fmt.Errorf("%w: status %s", driver.ErrNotReady, status)
	}

	for _, op := range receipt.EmbeddedTest() {
		if err := d.execOp(ctx, op); err != nil {
			return fmt.Errorf("buffer test block: %w", err)
		}
	}

	if err := d.client.Commit(ctx, commitFeedLines); err != nil {
		return driver.Hardware(driver.BackendEmbedded, "commit", err.Error())
	}
	return nil
}

// storeInfo resolves the store block from the service, falling back to the
// caller-supplied info. A failed lookup never blocks printing.
func (d *Driver) storeInfo(ctx context.Context, o *receipt.Order) *receipt.StoreInfo {
	info, err := d.client.StoreInfo(ctx)
	if err != nil || info == nil || info.Name == "" {
		if err != nil {
			d.log.Debug("store info lookup failed, using order-supplied info", zap.Error(err))
		}
		return o.StoreInfo
	}
	return info
}

// awaitNormal polls printer status until NORMAL, for at most attempts polls
// at the given interval. BUSY is waited out; PAPER_OUT and ERROR fail the
// call immediately.
func (d *Driver) awaitNormal(ctx context.Context, attempts int, interval time.Duration) error {
	var last Status
	for i := 0; i < attempts; i++ {
		status, err := d.client.PrinterStatus(ctx)
		if err != nil {
			return fmt.Errorf("status query: %w", err)
		}
		last = status

		switch status {
		case StatusNormal:
			return nil
		case StatusPaperOut:
			d.log.Warn("printer reports paper out, aborting job")
			return fmt.Errorf("%w: paper out", driver.ErrNotReady)
		case StatusError:
			d.log.Warn("printer reports hardware error, aborting job")
			return fmt.Errorf("%w: status %s", driver.ErrNotReady, status)
		}

		d.log.Debug("printer busy, waiting",
			zap.Int("attempt", i+1),
			zap.Int("max", attempts),
		)
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: status %s after %d polls", driver.ErrNotReady, last, attempts)
}

// execOp sends one buffered operation to the service.
func (d *Driver) execOp(ctx context.Context, op receipt.Op) error {
	switch op.Kind {
	case receipt.OpText:
		return d.client.PrintText(ctx, op.Text, coerceFontSize(op.FontSize))
	case receipt.OpAlign:
		return d.client.SetAlignment(ctx, op.Align)
	case receipt.OpFeed:
		return d.client.Feed(ctx, op.Lines)
	case receipt.OpQR:
		return d.client.PrintQR(ctx, op.Payload, op.ModSize, op.ECLevel)
	}
	return fmt.Errorf("unknown op kind %d", op.Kind)
}

// coerceFontSize maps invalid sizes to 24, matching what the hardware layer
// would silently do anyway.
func coerceFontSize(size int) int {
	switch size {
	case receipt.FontSmall, receipt.FontNormal, receipt.FontLarge, receipt.FontHuge:
		return size
	}
	return receipt.FontNormal
}

// coerceSymbology maps anything outside the service's 0..8 symbology range
// to CODE128, the symbology order references print in.
func coerceSymbology(symbology int) int {
	if symbology < receipt.BarcodeUPCA || symbology > receipt.BarcodeCode128 {
		return receipt.BarcodeCode128
	}
	return symbology
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
