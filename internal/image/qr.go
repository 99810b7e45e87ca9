package imagepkg

import (
	"bytes"
	"image"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// QRModulePixels is the edge length of one QR module in generated codes.
const QRModulePixels = 10

// QREncoder turns text into QR code images.
type QREncoder struct {
	Level qrcode.RecoveryLevel
}

// NewQREncoder returns an encoder using the lowest recovery level, which
// keeps URL codes small enough to scan from a printed card.
func NewQREncoder() QREncoder {
	return QREncoder{Level: qrcode.Low}
}

// Encode renders text as a black-on-white QR code with a quiet zone,
// QRModulePixels pixels per module.
func (e QREncoder) Encode(text string) (image.Image, error) {
	q, err := qrcode.New(text, e.Level)
	if err != nil {
		return nil, err
	}
	return q.Image(-QRModulePixels), nil
}

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	// validate png decode
	_, err = png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, err
	}
	return pngBytes, nil
}
