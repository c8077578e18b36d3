// Package qrcode renders confirmation payloads as PNG QR codes.
package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels used when callers pass a non-positive size.
const DefaultSize = 256

// EncodePNG renders payload at the High recovery level.
func EncodePNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr payload required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(payload, goqrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
