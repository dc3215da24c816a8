package utils

import (
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateCouponQR encode un code coupon en QR PNG, à scanner à l'entrée du venue
func GenerateCouponQR(code string) ([]byte, error) {
	return qrcode.Encode(code, qrcode.Medium, 256)
}
