package converter

import (
	"fmt"
	"math/big"
	"strings"
)

// IsDigits checks that s is a non-empty run of ASCII decimal digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateBarcode trims the starting barcode and checks it before any rows
// are touched.
func ValidateBarcode(start string) (string, error) {
	start = strings.TrimSpace(start)
	if start == "" {
		return "", ErrMissingBarcode
	}
	if !IsDigits(start) {
		return "", &InvalidBarcodeError{Value: start}
	}
	return start, nil
}

// SequenceBarcodes returns k barcodes counting up from start. Each value is
// left-padded with zeros to len(start). A value that needs more digits than
// that is returned unpadded and longer, never truncated.
func SequenceBarcodes(start string, k int) ([]string, error) {
	if !IsDigits(start) {
		return nil, &InvalidBarcodeError{Value: start}
	}
	if k < 0 {
		return nil, fmt.Errorf("barcode count must not be negative, got %d", k)
	}

	width := len(start)
	n, ok := new(big.Int).SetString(start, 10)
	if !ok {
		return nil, &InvalidBarcodeError{Value: start}
	}

	one := big.NewInt(1)
	codes := make([]string, 0, k)
	for i := 0; i < k; i++ {
		codes = append(codes, PadLeft(n.String(), width, '0'))
		n.Add(n, one)
	}
	return codes, nil
}

// PadLeft pads s on the left with padChar up to length characters
func PadLeft(s string, length int, padChar rune) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-len(s)) + s
}
