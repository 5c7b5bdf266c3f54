// Package transport drives printers over whatever raw channel answers: a
// native binding found by brute force, a USB bulk endpoint, a serial port, a
// character device, or the OS spooler. It is the catch-all backend for
// hardware no dedicated SDK claims.
package transport

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
	"github.com/arkwaretechnologies/laundropos-print/internal/probe"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// Sink is a raw byte channel to a printer.
type Sink interface {
	io.ReadWriter
	Close() error
	Description() string
}

// builtinNames are binding names built-in printers ship under, checked as the
// last discovery step when neither brute force nor a bus scan found anything.
var builtinNames = []string{
	binding.NameGenericUSB,
	"InnerPrinter",
	"SunmiInnerPrinter",
	"AidlPrinter",
	"PrinterHelper",
}

const (
	defaultBaud = 9600

	// discoveryAttempts and discoveryWindow bound the initialization
	// brute-force pass; printAttempts bounds the per-job pass.
	discoveryAttempts = 400
	discoveryWindow   = 3 * time.Second
	printAttempts     = 600
)

// Driver is the generic transport backend.
type Driver struct {
	reg *binding.Registry
	log *zap.Logger

	mu          sync.Mutex
	sink        Sink
	working     []driver.WorkingCall
	hints       []probe.Capability
	networkAddr string
	initialized bool

	// Overridable in tests.
	detectUSB    func() (Sink, error)
	detectSerial func() (Sink, error)
	dialNetwork  func(addr string) (Sink, error)
	devicePaths  []string
	spoolFn      func(ctx context.Context, text string) (string, error)
}

// New creates the generic transport driver.
func New(reg *binding.Registry, log *zap.Logger) *Driver {
	return &Driver{
		reg: reg,
		log: log.With(zap.String("backend", string(driver.BackendGeneric))),
		detectUSB: func() (Sink, error) {
			return detectUSBPrinter()
		},
		detectSerial: func() (Sink, error) {
			return detectSerialPrinter(defaultBaud)
		},
		dialNetwork: func(addr string) (Sink, error) {
			return dialNetworkPrinter(addr)
		},
		devicePaths: defaultDevicePaths,
		spoolFn:     spool,
	}
}

// Backend identifies this driver.
func (d *Driver) Backend() driver.Backend {
	return driver.BackendGeneric
}

// UseCapabilities seeds the brute-force pass with bindings a capability scan
// already flagged as print-related, so those are probed first.
func (d *Driver) UseCapabilities(caps []probe.Capability) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hints = caps
}

// UseNetworkAddr configures an explicit raw-port printer address, tried ahead
// of the bus scans during initialization.
func (d *Driver) UseNetworkAddr(addr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.networkAddr = addr
}

// Initialize finds a transport, first success wins: a brute-force pass over
// registered bindings, then a USB printer-class scan, then a serial port
// scan, then a fixed list of built-in printer binding names.
func (d *Driver) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	if found := d.discoverBindings(ctx, d.candidateNames(), driver.NewBudget(discoveryAttempts, discoveryWindow)); found {
		d.initialized = true
		return nil
	}

	// An operator-configured network printer beats the bus scans.
	if d.networkAddr != "" {
		if sink, err := d.dialNetwork(d.networkAddr); err == nil {
			d.sink = sink
			d.initialized = true
			d.log.Info("transport attached", zap.String("via", sink.Description()))
			return nil
		} else {
			d.log.Warn("configured network printer unreachable",
				zap.String("addr", d.networkAddr),
				zap.Error(err),
			)
		}
	}

	if sink, err := d.detectUSB(); err == nil {
		d.sink = sink
		d.initialized = true
		d.log.Info("transport attached", zap.String("via", sink.Description()))
		return nil
	}

	if sink, err := d.detectSerial(); err == nil {
		d.sink = sink
		d.initialized = true
		d.log.Info("transport attached", zap.String("via", sink.Description()))
		return nil
	}

	if found := d.discoverBindings(ctx, builtinNames, driver.NewBudget(discoveryAttempts, discoveryWindow)); found {
		d.initialized = true
		return nil
	}

	return driver.ErrNoBackend
}

// PrintOrder pushes the receipt through every transport in order until one
// takes it: remembered working calls, the attached USB/serial channel, a
// fresh brute-force pass, raw device files, and finally the OS spooler.
func (d *Driver) PrintOrder(ctx context.Context, o *receipt.Order) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	text := receipt.Text(o, nil)
	return d.deliver(ctx, text, func(sink Sink) error {
		if err := writeReceipt(sink, o, nil); err == nil {
			return nil
		}
		// Fall back to rendering the receipt as a raster label; some
		// firmware rejects the text command set but takes raw raster.
		img, err := receipt.RenderLabel(o, nil, 0)
		if err != nil {
			return err
		}
		_, err = sink.Write(encodeRaster(img))
		return err
	})
}

// TestPrint pushes the short self-test block through the same chain.
func (d *Driver) TestPrint(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.deliver(ctx, receipt.TestText(), func(sink Sink) error {
		return writeTestPage(sink, sink.Description())
	})
}

// deliver runs the print chain. sinkFn handles the structured write when a
// direct connection is attached; every other transport takes plain text.
func (d *Driver) deliver(ctx context.Context, text string, sinkFn func(Sink) error) error {
	if !d.initialized {
		return driver.ErrNoBackend
	}

	for _, w := range d.working {
		if err := w.Replay(ctx, d.reg, text); err == nil {
			d.log.Debug("printed via remembered call",
				zap.String("binding", w.Binding),
				zap.String("method", w.Method),
			)
			return nil
		}
	}

	if d.sink != nil {
		if err := sinkFn(d.sink); err == nil {
			return nil
		} else {
			d.log.Warn("direct transport write failed", zap.Error(err))
		}
	}

	budget := driver.NewBudget(printAttempts, discoveryWindow)
	for _, name := range d.candidateNames() {
		b, ok := d.reg.Get(name)
		if !ok {
			continue
		}
		if w, ok := driver.TryBinding(ctx, b, text, budget, d.log); ok {
			d.remember(w)
			return nil
		}
	}

	if path, err := writeDeviceFile(d.devicePaths, []byte(text+"\n\n\n\n")); err == nil {
		d.log.Info("printed via device file", zap.String("path", path))
		return nil
	}

	if cmd, err := d.spoolFn(ctx, text); err == nil {
		d.log.Info("printed via spooler", zap.String("command", cmd))
		return nil
	} else {
		d.log.Warn("spooler rejected job", zap.Error(err))
	}

	return driver.Hardware(driver.BackendGeneric, "print", "every transport rejected the job")
}

// discoverBindings probes the named bindings with a benign empty payload and
// remembers any call that answers.
func (d *Driver) discoverBindings(ctx context.Context, names []string, budget *driver.Budget) bool {
	for _, name := range names {
		b, ok := d.reg.Get(name)
		if !ok {
			continue
		}
		if w, ok := driver.TryBinding(ctx, b, "", budget, d.log); ok {
			d.remember(w)
			return true
		}
	}
	return false
}

// candidateNames orders capability-scan hits ahead of the static candidate
// list, deduplicated.
func (d *Driver) candidateNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, hint := range d.hints {
		if !seen[hint.Binding] {
			seen[hint.Binding] = true
			names = append(names, hint.Binding)
		}
	}
	for _, name := range driver.BindingCandidates {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func (d *Driver) remember(w driver.WorkingCall) {
	for _, have := range d.working {
		if have == w {
			return
		}
	}
	d.working = append(d.working, w)
}

// Close releases any direct connection.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sink != nil {
		err := d.sink.Close()
		d.sink = nil
		return err
	}
	return nil
}
