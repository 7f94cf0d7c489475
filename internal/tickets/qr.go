package tickets

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 300

// QRGenerator renders ticket payloads as PNG QR codes
type QRGenerator struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = defaultQRSize
	}
	return &QRGenerator{size: size, level: qrcode.Medium}
}

// Size returns the edge length of generated images in pixels
func (g *QRGenerator) Size() int {
	return g.size
}

// Generate encodes payload as a PNG image
func (g *QRGenerator) Generate(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty qr payload", ErrExternalRendering)
	}

	png, err := qrcode.Encode(payload, g.level, g.size)
	if err != nil {
		return nil, fmt.Errorf("%w: encode qr: %v", ErrExternalRendering, err)
	}
	return png, nil
}

// DataURL encodes payload as an inline data:image/png URL
func (g *QRGenerator) DataURL(payload string) (string, error) {
	png, err := g.Generate(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
