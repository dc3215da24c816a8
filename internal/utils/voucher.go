package utils

import (
	"crypto/rand"
	"math/big"
)

// Alphabet des codes coupon (alphanumérique, sensible à la casse comme
// l'implémentation d'origine)
const voucherCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Longueur par défaut d'un code généré côté serveur
const VoucherCodeLength = 4

// GenerateVoucherCodes génère count codes aléatoires de length caractères
func GenerateVoucherCodes(length, count int) ([]string, error) {
	codes := make([]string, 0, count)
	max := big.NewInt(int64(len(voucherCharset)))

	for i := 0; i < count; i++ {
		buf := make([]byte, length)
		for j := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return nil, err
			}
			buf[j] = voucherCharset[n.Int64()]
		}
		codes = append(codes, string(buf))
	}

	return codes, nil
}

// GenerateVoucherCode génère un seul code de la longueur par défaut
func GenerateVoucherCode() (string, error) {
	codes, err := GenerateVoucherCodes(VoucherCodeLength, 1)
	if err != nil {
		return "", err
	}
	return codes[0], nil
}
