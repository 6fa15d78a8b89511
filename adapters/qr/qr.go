// Package qr renders URLs as QR code images for print labels.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/artpar/showroom/ports"
)

// Encoder renders PNG QR codes as data URIs, stored on category and
// product rows and served to clients directly.
type Encoder struct {
	size int
}

// NewEncoder creates an encoder producing size x size pixel images.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = 256
	}
	return &Encoder{size: size}
}

// DataURI encodes data into a PNG QR code and returns it as a
// data:image/png;base64 URI.
func (e *Encoder) DataURI(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Ensure interface compliance.
var _ ports.QREncoder = (*Encoder)(nil)

// Fake returns a recognizable placeholder without rendering (for tests).
type Fake struct{}

// DataURI returns a fake URI embedding the input.
func (Fake) DataURI(data string) (string, error) {
	return "qr:" + data, nil
}

// Ensure interface compliance.
var _ ports.QREncoder = Fake{}
