package qrcode

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// DataURI renders the invoice payload as a wallet-scannable QR code,
// returned as a base64 PNG data URI
func DataURI(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
