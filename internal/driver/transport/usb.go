package transport

import (
	"fmt"
	"sync"

	"github.com/google/gousb"
)

// usbConn is a claimed OUT endpoint on a printer-class USB device.
type usbConn struct {
	ctx      *gousb.Context
	device   *gousb.Device
	iface    *gousb.Interface
	endpoint *gousb.OutEndpoint
	desc     string
	mu       sync.Mutex
}

// detectUSBPrinter scans the bus for a printer-class device (class 7, on the
// device or any interface) and claims its first OUT endpoint.
func detectUSBPrinter() (*usbConn, error) {
	ctx := gousb.NewContext()

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if desc.Class == gousb.ClassPrinter {
			return true
		}
		for _, cfg := range desc.Configs {
			for _, iface := range cfg.Interfaces {
				for _, alt := range iface.AltSettings {
					if alt.Class == gousb.ClassPrinter {
						return true
					}
				}
			}
		}
		return false
	})
	if err != nil && len(devices) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("USB enumeration failed: %w", err)
	}

	for _, dev := range devices {
		conn, err := claimOutEndpoint(ctx, dev)
		if err == nil {
			// Close the rest; only one printer is driven at a time.
			for _, other := range devices {
				if other != dev {
					other.Close()
				}
			}
			return conn, nil
		}
		dev.Close()
	}

	ctx.Close()
	return nil, fmt.Errorf("no usable printer-class USB device")
}

func claimOutEndpoint(ctx *gousb.Context, dev *gousb.Device) (*usbConn, error) {
	// DefaultInterface covers most printers; retry with auto-detach when a
	// kernel driver holds the interface.
	iface, _, err := dev.DefaultInterface()
	if err != nil {
		dev.SetAutoDetach(true)
		iface, _, err = dev.DefaultInterface()
		if err != nil {
			return nil, fmt.Errorf("failed to claim interface: %w", err)
		}
	}

	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut {
			ep, err := iface.OutEndpoint(epDesc.Number)
			if err != nil {
				continue
			}
			manufacturer, _ := dev.Manufacturer()
			product, _ := dev.Product()
			return &usbConn{
				ctx:      ctx,
				device:   dev,
				iface:    iface,
				endpoint: ep,
				desc: fmt.Sprintf("USB %s %s (%04X:%04X)",
					manufacturer, product, dev.Desc.Vendor, dev.Desc.Product),
			}, nil
		}
	}

	iface.Close()
	return nil, fmt.Errorf("no OUT endpoint on %04X:%04X", dev.Desc.Vendor, dev.Desc.Product)
}

func (c *usbConn) Write(data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint.Write(data)
}

// Read satisfies io.ReadWriter for the ESC/POS layer; the OUT endpoint has
// nothing to read.
func (c *usbConn) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("usb printer endpoint is write-only")
}

func (c *usbConn) Description() string { return c.desc }

func (c *usbConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.iface != nil {
		c.iface.Close()
	}
	if c.device != nil {
		c.device.Close()
	}
	if c.ctx != nil {
		c.ctx.Close()
	}
	return nil
}
