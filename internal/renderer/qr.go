package renderer

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

const badgeMargin = 8

// QRBadge encodes text as a square QR code of side size pixels.
func QRBadge(text string, size int) (image.Image, error) {
	if size < 21 {
		return nil, fmt.Errorf("badge of %dpx is too small for a QR code", size)
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr %q: %w", text, err)
	}
	return q.Image(size), nil
}
