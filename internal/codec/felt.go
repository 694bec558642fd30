package codec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrMalformedData means a wire value does not have the shape the
	// contract ABI declares for it.
	ErrMalformedData = errors.New("malformed data")
	// ErrOutOfRange means a value cannot be represented in the target wire
	// type.
	ErrOutOfRange = errors.New("value out of range")
)

// FieldPrime is the Starknet field modulus P = 2^251 + 17*2^192 + 1. Every
// felt on the wire is in [0, P).
var FieldPrime = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 251)
	p.Add(p, new(big.Int).Lsh(big.NewInt(17), 192))
	return p.Add(p, big.NewInt(1))
}()

var (
	maxUint32 = new(big.Int).SetUint64(1<<32 - 1)
	maxUint64 = new(big.Int).SetUint64(1<<64 - 1)
)

// ParseFelt accepts a 0x-prefixed hex or a plain decimal string.
func ParseFelt(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty felt", ErrMalformedData)
	}

	var (
		value = new(big.Int)
		ok    bool
	)
	if rest, found := strings.CutPrefix(strings.ToLower(trimmed), "0x"); found {
		_, ok = value.SetString(rest, 16)
	} else {
		_, ok = value.SetString(trimmed, 10)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid felt %q", ErrMalformedData, s)
	}

	if err := CheckFelt(value); err != nil {
		return nil, err
	}
	return value, nil
}

func CheckFelt(value *big.Int) error {
	if value == nil {
		return fmt.Errorf("%w: missing felt", ErrMalformedData)
	}
	if value.Sign() < 0 || value.Cmp(FieldPrime) >= 0 {
		return fmt.Errorf("%w: felt %s outside field", ErrMalformedData, value.String())
	}
	return nil
}

func Uint32(value *big.Int) (uint32, error) {
	if value == nil || value.Sign() < 0 || value.Cmp(maxUint32) > 0 {
		return 0, fmt.Errorf("%w: %v does not fit u32", ErrMalformedData, value)
	}
	return uint32(value.Uint64()), nil
}

func Uint64(value *big.Int) (uint64, error) {
	if value == nil || value.Sign() < 0 || value.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("%w: %v does not fit u64", ErrMalformedData, value)
	}
	return value.Uint64(), nil
}

// FormatFelt renders a felt as lowercase 0x hex, the form node RPCs accept in
// calldata.
func FormatFelt(value *big.Int) string {
	return "0x" + value.Text(16)
}
