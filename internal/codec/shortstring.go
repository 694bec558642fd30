package codec

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ShortStringMaxLen is the number of 8-bit code units a felt can carry.
const ShortStringMaxLen = 31

// DecodeShortString unpacks a felt252 short string.
//
// Layout: the felt's big-endian bytes, one character per byte, no length
// prefix, each byte a Latin-1 code point. The value is read through its
// unpadded hex text two digits at a time from the left. Zero bytes are
// skipped and never terminate; an odd-length text leaves a final single-digit
// unit that is decoded alone.
func DecodeShortString(value *big.Int) string {
	if value == nil {
		return ""
	}

	hex := value.Text(16)

	var out strings.Builder
	for i := 0; i < len(hex); i += 2 {
		end := min(i+2, len(hex))
		code, err := strconv.ParseUint(hex[i:end], 16, 8)
		if err != nil {
			continue
		}
		if code > 0 {
			out.WriteRune(rune(code))
		}
	}
	return out.String()
}

// EncodeShortString packs up to the first ShortStringMaxLen characters into a
// 0x-prefixed hex felt, two digits per character. Leading zero bytes are kept
// in the text. Longer input is truncated; callers validate length first.
func EncodeShortString(s string) (string, error) {
	var out strings.Builder
	out.WriteString("0x")

	n := 0
	for _, r := range s {
		if n == ShortStringMaxLen {
			break
		}
		if r > 0xff {
			return "", fmt.Errorf("%w: character %q is not a single byte", ErrOutOfRange, r)
		}
		fmt.Fprintf(&out, "%02x", r)
		n++
	}

	if n == 0 {
		return "0x0", nil
	}
	return out.String(), nil
}
