// Package embedded drives the co-resident print service, the richest
// backend: typed fonts, QR, barcodes, status polling, and a buffer/commit
// job model where nothing prints until an explicit commit.
package embedded

import (
	"context"
	"fmt"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// ServiceClient is the IDL channel to the print service. The default
// implementation speaks through the binding registry; tests substitute fakes.
type ServiceClient interface {
	// IsConnected queries the service's connection state.
	IsConnected(ctx context.Context) (bool, error)
	// Connect binds to the service, auto-starting it if needed. A false
	// return without error means the service package is present but not
	// reachable right now, which is expected and retryable.
	Connect(ctx context.Context) (bool, error)
	InitPrinter(ctx context.Context) error
	PrinterStatus(ctx context.Context) (Status, error)

	// Buffered operations. These accumulate on the hardware side and do
	// not print until Commit.
	PrintText(ctx context.Context, text string, fontSize int) error
	SetAlignment(ctx context.Context, align int) error
	PrintQR(ctx context.Context, payload string, moduleSize, ecLevel int) error
	PrintBarcode(ctx context.Context, data string, symbology, width, height int) error
	Feed(ctx context.Context, lines int) error

	// Commit executes everything buffered, then feeds the given line count.
	Commit(ctx context.Context, feedLines int) error

	// StoreInfo fetches the store block registered with the service.
	StoreInfo(ctx context.Context) (*receipt.StoreInfo, error)
}

// bindingClient is the production ServiceClient over the platform binding.
type bindingClient struct {
	reg *binding.Registry
}

// NewBindingClient returns a ServiceClient speaking to the embedded service
// binding in the given registry.
func NewBindingClient(reg *binding.Registry) ServiceClient {
	return &bindingClient{reg: reg}
}

func (c *bindingClient) binding() (binding.Binding, error) {
	b, ok := c.reg.Get(binding.NameEmbeddedService)
	if !ok {
		return nil, binding.ErrNotFound
	}
	return b, nil
}

func (c *bindingClient) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	b, err := c.binding()
	if err != nil {
		return nil, err
	}
	return b.Invoke(ctx, method, args...)
}

func (c *bindingClient) IsConnected(ctx context.Context) (bool, error) {
	out, err := c.call(ctx, "isConnect")
	if err != nil {
		return false, err
	}
	connected, _ := out.(bool)
	return connected, nil
}

func (c *bindingClient) Connect(ctx context.Context) (bool, error) {
	out, err := c.call(ctx, "connectPrinterService")
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (c *bindingClient) InitPrinter(ctx context.Context) error {
	_, err := c.call(ctx, "printerInit")
	return err
}

func (c *bindingClient) PrinterStatus(ctx context.Context) (Status, error) {
	out, err := c.call(ctx, "getPrinterStatus")
	if err != nil {
		return StatusError, err
	}
	switch v := out.(type) {
	case int:
		return Status(v), nil
	case Status:
		return v, nil
	case float64:
		return Status(int(v)), nil
	}
	return StatusError, fmt.Errorf("unexpected status payload %T", out)
}

func (c *bindingClient) PrintText(ctx context.Context, text string, fontSize int) error {
	_, err := c.call(ctx, "printText", text, fontSize)
	return err
}

func (c *bindingClient) SetAlignment(ctx context.Context, align int) error {
	_, err := c.call(ctx, "setAlignment", align)
	return err
}

func (c *bindingClient) PrintQR(ctx context.Context, payload string, moduleSize, ecLevel int) error {
	_, err := c.call(ctx, "printQRCode", payload, moduleSize, ecLevel)
	return err
}

func (c *bindingClient) PrintBarcode(ctx context.Context, data string, symbology, width, height int) error {
	_, err := c.call(ctx, "printBarCode", data, coerceSymbology(symbology), width, height)
	return err
}

func (c *bindingClient) Feed(ctx context.Context, lines int) error {
	_, err := c.call(ctx, "nextLine", lines)
	return err
}

func (c *bindingClient) Commit(ctx context.Context, feedLines int) error {
	_, err := c.call(ctx, "performPrint", feedLines)
	return err
}

func (c *bindingClient) StoreInfo(ctx context.Context) (*receipt.StoreInfo, error) {
	out, err := c.call(ctx, "getStoreInfo")
	if err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case *receipt.StoreInfo:
		return v, nil
	case map[string]interface{}:
		info := &receipt.StoreInfo{}
		if s, ok := v["name"].(string); ok {
			info.Name = s
		}
		if s, ok := v["address"].(string); ok {
			info.Address = s
		}
		if s, ok := v["phone"].(string); ok {
			info.Phone = s
		}
		return info, nil
	}
	return nil, fmt.Errorf("unexpected store info payload %T", out)
}
