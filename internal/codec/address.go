package codec

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatAddress renders a contract address in canonical form: lowercase hex,
// 0x prefix, no zero padding.
func FormatAddress(value *big.Int) string {
	return FormatFelt(value)
}

// ParseAddress accepts any casing and padding and returns the address value.
func ParseAddress(s string) (*big.Int, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "0x") {
		return nil, fmt.Errorf("%w: address %q must be 0x-prefixed hex", ErrMalformedData, s)
	}
	return ParseFelt(s)
}

// CanonicalAddress normalizes an address string, so two spellings of the same
// address compare equal.
func CanonicalAddress(s string) (string, error) {
	value, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return FormatAddress(value), nil
}

func IsZeroAddress(value *big.Int) bool {
	return value == nil || value.Sign() == 0
}

// DecodeOptionalAddress maps the zero address sentinel to nil.
func DecodeOptionalAddress(value *big.Int) *string {
	if IsZeroAddress(value) {
		return nil
	}
	address := FormatAddress(value)
	return &address
}

// SameAddress compares two address strings by value.
func SameAddress(a, b string) bool {
	left, err := ParseAddress(a)
	if err != nil {
		return false
	}
	right, err := ParseAddress(b)
	if err != nil {
		return false
	}
	return left.Cmp(right) == 0
}
