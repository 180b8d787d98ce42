package labkit

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateQRCodePNG(t *testing.T) {
	data, err := GenerateQRCodePNG("resource:12|Ethanol|LOT-42", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if got := img.Bounds().Dx(); got != DefaultQRCodeSize {
		t.Errorf("width = %d, want %d", got, DefaultQRCodeSize)
	}
}
