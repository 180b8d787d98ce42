package labkit

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// 256 px prints legibly on a 25 mm label
const DefaultQRCodeSize = 256

// GenerateQRCodePNG encodes content as a PNG image size pixels wide.
func GenerateQRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRCodeSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
