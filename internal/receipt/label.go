package receipt

import (
	"fmt"
	"image"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"
)

const (
	labelCanvasWidth = 384 // 58mm head at 203dpi
	lineHeight       = 18
)

// RenderLabel composes the order receipt as a raster image for transports
// that can print graphics: text block, a code128 of the order number, and
// the order QR. The result is scaled to widthDots.
func RenderLabel(o *Order, store *StoreInfo, widthDots int) (image.Image, error) {
	if widthDots <= 0 {
		widthDots = labelCanvasWidth
	}

	qrImg, err := orderQR(o)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR: %w", err)
	}

	barImg, err := orderBarcode(o)
	if err != nil {
		// A barcode that will not encode is not worth failing the label.
		barImg = nil
	}

	textLines := splitLines(Text(o, store))

	height := len(textLines)*lineHeight + qrImg.Bounds().Dy() + 60
	if barImg != nil {
		height += barImg.Bounds().Dy() + 20
	}

	ctx := gg.NewContext(labelCanvasWidth, height)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetColor(color.Black)

	y := float64(lineHeight)
	for _, line := range textLines {
		ctx.DrawString(line, 8, y)
		y += lineHeight
	}

	if barImg != nil {
		x := (labelCanvasWidth - barImg.Bounds().Dx()) / 2
		ctx.DrawImage(barImg, x, int(y))
		y += float64(barImg.Bounds().Dy() + 20)
	}

	x := (labelCanvasWidth - qrImg.Bounds().Dx()) / 2
	ctx.DrawImage(qrImg, x, int(y))

	img := ctx.Image()
	if widthDots != labelCanvasWidth {
		img = imaging.Resize(img, widthDots, 0, imaging.Lanczos)
	}
	return img, nil
}

func orderQR(o *Order) (image.Image, error) {
	qr, err := qrcode.New(QRPayload(o), qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qr.Image(160), nil
}

func orderBarcode(o *Order) (image.Image, error) {
	bc, err := code128.Encode(o.Number())
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(bc, labelCanvasWidth-64, 60)
	if err != nil {
		return nil, err
	}
	return scaled, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
