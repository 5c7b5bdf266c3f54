package transport

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
	"github.com/arkwaretechnologies/laundropos-print/internal/probe"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// fakeSink records everything written to it.
type fakeSink struct {
	buf    bytes.Buffer
	failed bool
}

func (f *fakeSink) Write(p []byte) (int, error) {
	if f.failed {
		return 0, errors.New("endpoint stalled")
	}
	return f.buf.Write(p)
}

func (f *fakeSink) Read(p []byte) (int, error) { return 0, errors.New("write-only") }
func (f *fakeSink) Close() error               { return nil }
func (f *fakeSink) Description() string        { return "fake sink" }

func noDetect() (Sink, error) { return nil, errors.New("nothing on the bus") }

func noSpool(ctx context.Context, text string) (string, error) {
	return "", errors.New("no spooler")
}

// bare creates a driver with every hardware path stubbed out.
func bare(reg *binding.Registry) *Driver {
	d := New(reg, zap.NewNop())
	d.detectUSB = noDetect
	d.detectSerial = noDetect
	d.devicePaths = nil
	d.spoolFn = noSpool
	return d
}

var order = &receipt.Order{
	OrderID:      "abc123",
	OrderNumber:  "ORD-0007",
	OrderDate:    "2025-11-02T10:30:00Z",
	CustomerName: "Jane Doe",
	Items:        []receipt.Item{{Name: "Wash & Fold", Quantity: 2, Price: 15.00}},
	TotalAmount:  30.00,
	StoreInfo:    &receipt.StoreInfo{Name: "LaundroPOS"},
}

func TestInitializeNothingAvailable(t *testing.T) {
	d := bare(binding.NewRegistry())
	err := d.Initialize(context.Background())
	if !errors.Is(err, driver.ErrNoBackend) {
		t.Errorf("Expected ErrNoBackend with no transports, got %v", err)
	}
}

func TestInitializeViaBindingBruteForce(t *testing.T) {
	reg := binding.NewRegistry()
	b := binding.NewFuncBinding("ThermalPrinter")
	b.Handle("printText", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		return nil, nil
	})
	reg.Register(b)

	d := bare(reg)
	if err := d.Initialize(context.Background()); err != nil {
		t.Fatalf("Brute-force discovery should succeed: %v", err)
	}
	if len(d.working) != 1 {
		t.Errorf("Expected one remembered working call, got %d", len(d.working))
	}
}

func TestInitializeViaUSB(t *testing.T) {
	sink := &fakeSink{}
	d := bare(binding.NewRegistry())
	d.detectUSB = func() (Sink, error) { return sink, nil }

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatalf("USB discovery should succeed: %v", err)
	}
	if d.sink != sink {
		t.Error("USB sink not attached")
	}
}

func TestInitializeViaSerialAfterUSBFails(t *testing.T) {
	sink := &fakeSink{}
	d := bare(binding.NewRegistry())
	d.detectSerial = func() (Sink, error) { return sink, nil }

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatalf("Serial discovery should succeed: %v", err)
	}
	if d.sink != sink {
		t.Error("Serial sink not attached")
	}
}

func TestInitializeViaConfiguredNetworkPrinter(t *testing.T) {
	sink := &fakeSink{}
	d := bare(binding.NewRegistry())
	d.UseNetworkAddr("10.0.0.50:9100")
	d.dialNetwork = func(addr string) (Sink, error) {
		if addr != "10.0.0.50:9100" {
			t.Errorf("Wrong address dialed: %s", addr)
		}
		return sink, nil
	}

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatalf("Network discovery should succeed: %v", err)
	}
	if d.sink != sink {
		t.Error("Network sink not attached")
	}
}

func TestPrintOrderOverSink(t *testing.T) {
	sink := &fakeSink{}
	d := bare(binding.NewRegistry())
	d.detectUSB = func() (Sink, error) { return sink, nil }

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := d.PrintOrder(context.Background(), order); err != nil {
		t.Fatalf("PrintOrder failed: %v", err)
	}

	out := sink.buf.String()
	for _, want := range []string{"LaundroPOS", "ORD-0007", "Jane Doe", "30.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("Sink output missing %q", want)
		}
	}
}

func TestPrintOrderRemembersWorkingCall(t *testing.T) {
	var invocations int
	reg := binding.NewRegistry()
	b := binding.NewFuncBinding("ReceiptPrinter")
	b.Handle("printText", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		invocations++
		return nil, nil
	})
	reg.Register(b)

	d := bare(reg)
	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	discovery := invocations

	if err := d.PrintOrder(context.Background(), order); err != nil {
		t.Fatalf("PrintOrder failed: %v", err)
	}
	if invocations != discovery+1 {
		t.Errorf("Replay should cost exactly one call, got %d extra", invocations-discovery)
	}
}

func TestPrintOrderCapabilityHintsProbedFirst(t *testing.T) {
	var hit []string
	reg := binding.NewRegistry()
	for _, name := range []string{"ThermalPrinter", "ObscurePrintModule"} {
		n := name
		b := binding.NewFuncBinding(n)
		b.Handle("printText", func(ctx context.Context, args ...interface{}) (interface{}, error) {
			hit = append(hit, n)
			return nil, nil
		})
		reg.Register(b)
	}

	d := bare(reg)
	d.UseCapabilities([]probe.Capability{{Binding: "ObscurePrintModule", Methods: []string{"printText"}}})

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(hit) == 0 || hit[0] != "ObscurePrintModule" {
		t.Errorf("Capability hint should be probed first, got %v", hit)
	}
}

func TestPrintOrderFallsBackToDeviceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lp0")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &fakeSink{failed: true}
	d := bare(binding.NewRegistry())
	d.detectUSB = func() (Sink, error) { return sink, nil }
	d.devicePaths = []string{path}

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := d.PrintOrder(context.Background(), order); err != nil {
		t.Fatalf("Device file fallback should take the job: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ORD-0007") {
		t.Error("Device file missing receipt content")
	}
}

func TestPrintOrderFallsBackToSpooler(t *testing.T) {
	var spooled string
	sink := &fakeSink{failed: true}
	d := bare(binding.NewRegistry())
	d.detectUSB = func() (Sink, error) { return sink, nil }
	d.spoolFn = func(ctx context.Context, text string) (string, error) {
		spooled = text
		return "lp", nil
	}

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := d.PrintOrder(context.Background(), order); err != nil {
		t.Fatalf("Spooler fallback should take the job: %v", err)
	}
	if !strings.Contains(spooled, "Jane Doe") {
		t.Error("Spooled job missing receipt content")
	}
}

func TestPrintOrderEveryTransportFails(t *testing.T) {
	sink := &fakeSink{failed: true}
	d := bare(binding.NewRegistry())
	d.detectUSB = func() (Sink, error) { return sink, nil }

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := d.PrintOrder(context.Background(), order)
	var hw *driver.HardwareError
	if !errors.As(err, &hw) {
		t.Errorf("Exhausted chain should report a hardware error, got %v", err)
	}
}

func TestPrintOrderWithoutInitialize(t *testing.T) {
	d := bare(binding.NewRegistry())
	err := d.PrintOrder(context.Background(), order)
	if !errors.Is(err, driver.ErrNoBackend) {
		t.Errorf("Expected ErrNoBackend before initialization, got %v", err)
	}
}

func TestTestPrintOverSink(t *testing.T) {
	sink := &fakeSink{}
	d := bare(binding.NewRegistry())
	d.detectSerial = func() (Sink, error) { return sink, nil }

	if err := d.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := d.TestPrint(context.Background()); err != nil {
		t.Fatalf("TestPrint failed: %v", err)
	}
	if !strings.Contains(sink.buf.String(), "PRINTER TEST") {
		t.Error("Test page missing header")
	}
}

func TestEncodeRasterShape(t *testing.T) {
	img, err := receipt.RenderLabel(order, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	data := encodeRaster(img)
	if len(data) < 2 || data[0] != esc || data[1] != '@' {
		t.Error("Raster stream must start with printer init")
	}
	cut := []byte{gs, 'V', 0}
	if !bytes.HasSuffix(data, cut) {
		t.Error("Raster stream must end with a full cut")
	}
}

func TestBuiltinNameDiscoveryLastResort(t *testing.T) {
	reg := binding.NewRegistry()
	// Not in the brute-force candidate list; only the fixed builtin-name
	// scan knows about it.
	b := binding.NewFuncBinding("AidlPrinter")
	b.Handle("printText", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		return nil, nil
	})
	reg.Register(b)

	d := bare(reg)
	if err := d.Initialize(context.Background()); err != nil {
		t.Fatalf("Builtin name scan should succeed: %v", err)
	}
}
