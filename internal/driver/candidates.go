package driver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
)

// The brute-force probe is configuration, not logic: candidate binding
// names, candidate method names, and candidate parameter shapes that a small
// interpreter iterates under an explicit budget. Target hardware is unknown
// at build time, so this trades precision for coverage.

// BindingCandidates are binding names plausibly exposed by POS firmware.
var BindingCandidates = []string{
	binding.NameEmbeddedService,
	binding.NameVendorPrinter,
	binding.NameGenericUSB,
	"PrinterService",
	"ThermalPrinter",
	"ReceiptPrinter",
	"Printer",
	"PrinterModule",
	"EscPosPrinter",
	"BuiltinPrinter",
	"InnerPrinter",
	"UsbPrinterService",
	"SerialPrinter",
	"PosSDK",
	"PrinterSDK",
	"HardwarePrinter",
	"DevicePrinter",
	"PrintManager",
	"SunmiPrinter",
	"IminPrinter",
	"UrovoPrinter",
	"TelpoPrinter",
	"CloudPrinter",
	"LocalPrinter",
	"BluetoothPrinter",
}

// MethodCandidates are method names plausibly accepting printable text.
var MethodCandidates = []string{
	"print",
	"printText",
	"printString",
	"printReceipt",
	"printMsg",
	"printLine",
	"printData",
	"printContent",
	"printStr",
	"text",
	"write",
	"writeText",
	"writeData",
	"send",
	"sendData",
	"sendText",
	"output",
	"doPrint",
	"addText",
	"appendText",
}

// ParamShape identifies one argument arrangement to try.
type ParamShape int

const (
	ShapeBareString ParamShape = iota
	ShapeStringWithOptions
	ShapeTextMap
	ShapeDataMap
	ShapeContentMap
	ShapeStringEncoding
	ShapeStringCharsetMap
	ShapeTextTypeMap
	ShapeDataFormatMap
	ShapeNoArgs
	ShapeNilArg
	ShapeTextNewline
)

// ParamShapes lists every shape in attempt order.
var ParamShapes = []ParamShape{
	ShapeBareString,
	ShapeStringWithOptions,
	ShapeTextMap,
	ShapeDataMap,
	ShapeContentMap,
	ShapeStringEncoding,
	ShapeStringCharsetMap,
	ShapeTextTypeMap,
	ShapeDataFormatMap,
	ShapeTextNewline,
	ShapeNilArg,
	ShapeNoArgs,
}

// ArgsFor builds the argument list for a shape around the text to print.
func ArgsFor(shape ParamShape, text string) []interface{} {
	switch shape {
	case ShapeBareString:
		return []interface{}{text}
	case ShapeStringWithOptions:
		return []interface{}{text, map[string]interface{}{}}
	case ShapeTextMap:
		return []interface{}{map[string]interface{}{"text": text}}
	case ShapeDataMap:
		return []interface{}{map[string]interface{}{"data": text}}
	case ShapeContentMap:
		return []interface{}{map[string]interface{}{"content": text}}
	case ShapeStringEncoding:
		return []interface{}{text, "utf-8"}
	case ShapeStringCharsetMap:
		return []interface{}{text, map[string]interface{}{"charset": "utf-8"}}
	case ShapeTextTypeMap:
		return []interface{}{map[string]interface{}{"text": text, "type": "text"}}
	case ShapeDataFormatMap:
		return []interface{}{map[string]interface{}{"data": text, "format": "text"}}
	case ShapeTextNewline:
		return []interface{}{text + "\n"}
	case ShapeNilArg:
		return []interface{}{nil}
	case ShapeNoArgs:
		return nil
	}
	return []interface{}{text}
}

// WorkingCall is a binding/method/shape triple that answered a probe. It is
// remembered within a process run so later prints skip the search.
type WorkingCall struct {
	Binding string
	Method  string
	Shape   ParamShape
}

// Budget caps a brute-force pass so printer-less devices are not stuck
// probing forever.
type Budget struct {
	MaxAttempts int
	Deadline    time.Time
	attempts    int
}

// NewBudget builds a budget with the given attempt cap and time window.
func NewBudget(maxAttempts int, window time.Duration) *Budget {
	return &Budget{
		MaxAttempts: maxAttempts,
		Deadline:    time.Now().Add(window),
	}
}

// Spend consumes one attempt and reports whether the budget allows it.
func (b *Budget) Spend() bool {
	if b.attempts >= b.MaxAttempts {
		return false
	}
	if !b.Deadline.IsZero() && time.Now().After(b.Deadline) {
		return false
	}
	b.attempts++
	return true
}

// Attempts returns how many attempts have been spent.
func (b *Budget) Attempts() int { return b.attempts }

// TryBinding brute-forces one binding: every candidate method it actually
// exposes, against every parameter shape, until one call succeeds or the
// budget runs out. Panics from the native layer count as failed attempts.
func TryBinding(ctx context.Context, b binding.Binding, text string, budget *Budget, log *zap.Logger) (WorkingCall, bool) {
	exposed := make(map[string]bool)
	for _, m := range safeMethods(b) {
		exposed[m] = true
	}

	for _, method := range MethodCandidates {
		if len(exposed) > 0 && !exposed[method] {
			continue
		}
		for _, shape := range ParamShapes {
			if !budget.Spend() {
				log.Debug("brute-force budget exhausted",
					zap.String("binding", b.Name()),
					zap.Int("attempts", budget.Attempts()),
				)
				return WorkingCall{}, false
			}
			if err := ctx.Err(); err != nil {
				return WorkingCall{}, false
			}
			if safeInvoke(ctx, b, method, ArgsFor(shape, text)) == nil {
				log.Info("brute-force probe answered",
					zap.String("binding", b.Name()),
					zap.String("method", method),
					zap.Int("shape", int(shape)),
				)
				return WorkingCall{Binding: b.Name(), Method: method, Shape: shape}, true
			}
		}
	}
	return WorkingCall{}, false
}

// Replay re-runs a previously discovered working call with new text.
func (w WorkingCall) Replay(ctx context.Context, reg *binding.Registry, text string) error {
	b, ok := reg.Get(w.Binding)
	if !ok {
		return ErrNoBackend
	}
	return safeInvoke(ctx, b, w.Method, ArgsFor(w.Shape, text))
}

func safeMethods(b binding.Binding) (methods []string) {
	defer func() {
		if recover() != nil {
			methods = nil
		}
	}()
	return b.Methods()
}

func safeInvoke(ctx context.Context, b binding.Binding, method string, args []interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Hardware(BackendGeneric, method, "binding panicked during call")
		}
	}()
	_, err = b.Invoke(ctx, method, args...)
	return err
}
