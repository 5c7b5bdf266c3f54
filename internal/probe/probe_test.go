package probe

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
)

func noop(ctx context.Context, args ...interface{}) (interface{}, error) {
	return nil, nil
}

// panickyBinding simulates a native binding that throws during inspection.
type panickyBinding struct{ name string }

func (p *panickyBinding) Name() string      { return p.name }
func (p *panickyBinding) Methods() []string { panic("native layer unavailable") }
func (p *panickyBinding) Invoke(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	return nil, nil
}

func newTestRegistry() *binding.Registry {
	reg := binding.NewRegistry()

	printer := binding.NewFuncBinding("ThermalPrinter")
	printer.Handle("printText", noop).Handle("feedPaper", noop)
	reg.Register(printer)

	scanner := binding.NewFuncBinding("BarcodeScanner")
	scanner.Handle("startDecode", noop)
	reg.Register(scanner)

	audio := binding.NewFuncBinding("AudioManager")
	audio.Handle("beep", noop)
	reg.Register(audio)

	return reg
}

func TestScanKeywordMatch(t *testing.T) {
	s := NewScanner(newTestRegistry(), zap.NewNop())

	caps := s.Scan()
	if len(caps) != 2 {
		t.Fatalf("Expected 2 capabilities, got %d: %v", len(caps), caps)
	}

	// AudioManager must not match any print keyword.
	for _, c := range caps {
		if c.Binding == "AudioManager" {
			t.Error("AudioManager should not be classified as print-capable")
		}
	}
}

func TestScanKnownBindingWithoutKeywordStillFound(t *testing.T) {
	reg := binding.NewRegistry()

	// NameGenericUSB happens to contain "printer"; use the embedded service
	// name through a registry where the keyword scan is exercised anyway.
	svc := binding.NewFuncBinding(binding.NameEmbeddedService)
	svc.Handle("printerInit", noop).Handle("performPrint", noop)
	reg.Register(svc)

	caps := NewScanner(reg, zap.NewNop()).Scan()
	if len(caps) != 1 {
		t.Fatalf("Expected 1 capability, got %d", len(caps))
	}
	if caps[0].Binding != binding.NameEmbeddedService {
		t.Errorf("Expected %s, got %s", binding.NameEmbeddedService, caps[0].Binding)
	}
}

func TestScanMethodsSorted(t *testing.T) {
	reg := binding.NewRegistry()
	b := binding.NewFuncBinding("ReceiptPrinter")
	b.Handle("writeText", noop).Handle("cut", noop).Handle("align", noop)
	reg.Register(b)

	caps := NewScanner(reg, zap.NewNop()).Scan()
	if len(caps) != 1 {
		t.Fatalf("Expected 1 capability, got %d", len(caps))
	}
	want := []string{"align", "cut", "writeText"}
	if !reflect.DeepEqual(caps[0].Methods, want) {
		t.Errorf("Expected sorted methods %v, got %v", want, caps[0].Methods)
	}
}

func TestScanIdempotent(t *testing.T) {
	s := NewScanner(newTestRegistry(), zap.NewNop())

	first := s.Scan()
	second := s.Scan()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Back-to-back scans differ:\n%v\n%v", first, second)
	}
}

func TestScanSurvivesThrowingBinding(t *testing.T) {
	reg := newTestRegistry()
	reg.Register(&panickyBinding{name: "BrokenPrinter"})

	caps := NewScanner(reg, zap.NewNop()).Scan()

	// The broken binding is skipped, the healthy ones still report.
	if len(caps) != 2 {
		t.Fatalf("Expected 2 capabilities, got %d", len(caps))
	}
	for _, c := range caps {
		if c.Binding == "BrokenPrinter" {
			t.Error("Throwing binding must be excluded from results")
		}
	}
}
