package transport

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/hennedo/escpos"

	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// ESC/POS control bytes
const (
	esc byte = 0x1B
	gs  byte = 0x1D
)

// writeReceipt streams the order receipt over a raw ESC/POS connection.
func writeReceipt(w io.ReadWriter, o *receipt.Order, store *receipt.StoreInfo) error {
	p := escpos.New(w)

	st := o.StoreInfo
	if store != nil {
		st = store
	}

	p.Justify(escpos.JustifyCenter)
	if st != nil && st.Name != "" {
		p.Bold(true).Size(2, 2).Write(st.Name)
		p.LineFeed()
		p.Bold(false).Size(1, 1)
		if st.Address != "" {
			p.Write(st.Address)
			p.LineFeed()
		}
		if st.Phone != "" {
			p.Write("Tel: " + st.Phone)
			p.LineFeed()
		}
	}
	p.Write(receipt.Divider())
	p.LineFeed()

	p.Justify(escpos.JustifyLeft)
	p.Write("Order: " + o.Number())
	p.LineFeed()
	if date := receipt.DisplayDate(o.OrderDate); date != "" {
		p.Write("Date:  " + date)
		p.LineFeed()
	}
	if o.CustomerName != "" {
		p.Write("Cust:  " + o.CustomerName)
		p.LineFeed()
	}
	p.Write(receipt.Divider())
	p.LineFeed()

	for _, item := range o.Items {
		p.Write(receipt.ItemLine(item))
		p.LineFeed()
	}
	p.Write(receipt.Divider())
	p.LineFeed()
	p.Bold(true).Write(receipt.TotalLine(o.TotalAmount))
	p.LineFeed()
	p.Bold(false)

	p.Justify(escpos.JustifyCenter)
	p.Write("Thank you!")
	p.LineFeed()
	p.QRCode(receipt.QRPayload(o), true, 10, escpos.QRCodeErrorCorrectionLevelM)
	p.LineFeed()

	if _, err := p.PrintAndCut(); err != nil {
		return fmt.Errorf("escpos write failed: %w", err)
	}
	return nil
}

// writeTestPage streams a short self-test block.
func writeTestPage(w io.ReadWriter, label string) error {
	p := escpos.New(w)

	p.Justify(escpos.JustifyCenter)
	p.Bold(true).Size(2, 2).Write("PRINTER TEST")
	p.LineFeed()
	p.Bold(false).Size(1, 1)
	p.Write(receipt.Divider())
	p.LineFeed()
	p.Justify(escpos.JustifyLeft)
	p.Write(label)
	p.LineFeed()
	p.Write("If you can read this, the")
	p.LineFeed()
	p.Write("transport path is working.")
	p.LineFeed()

	if _, err := p.PrintAndCut(); err != nil {
		return fmt.Errorf("escpos write failed: %w", err)
	}
	return nil
}

// encodeRaster converts a rendered label image into raw ESC/POS raster
// commands, one 8-dot strip per line, ending with a feed and full cut.
func encodeRaster(img image.Image) []byte {
	var buf bytes.Buffer

	buf.WriteByte(esc)
	buf.WriteByte('@')

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	bytesPerLine := (width + 7) / 8
	bitmap := imageToBitmap(img)

	for y := 0; y < height; y++ {
		buf.WriteByte(esc)
		buf.WriteByte('*')
		buf.WriteByte(33) // 24-dot double-density
		buf.WriteByte(byte(bytesPerLine & 0xFF))
		buf.WriteByte(byte((bytesPerLine >> 8) & 0xFF))
		buf.Write(bitmap[y*bytesPerLine : (y+1)*bytesPerLine])
		buf.WriteByte(0x0A)
	}

	for i := 0; i < 3; i++ {
		buf.WriteByte(0x0A)
	}
	buf.WriteByte(gs)
	buf.WriteByte('V')
	buf.WriteByte(0)

	return buf.Bytes()
}

// imageToBitmap thresholds an image into a 1-bit bitmap, MSB first.
func imageToBitmap(img image.Image) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	bytesPerLine := (width + 7) / 8
	bitmap := make([]byte, bytesPerLine*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			gray := (r + g + b) / 3
			if gray < 32768 {
				bitmap[y*bytesPerLine+x/8] |= 1 << (7 - uint(x%8))
			}
		}
	}
	return bitmap
}
