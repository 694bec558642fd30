package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// MaxDecimals bounds the precision a token may declare.
const MaxDecimals = 36

// Token describes an ERC-20 style token on the raffle's network.
type Token struct {
	Address  string
	Symbol   string
	Decimals uint8
}

// ToDisplay renders base units as a decimal string in token units: no
// trailing fractional zeros, and no fractional part at all for whole amounts.
func ToDisplay(base *big.Int, decimals uint8) string {
	if base == nil {
		return "0"
	}
	return decimal.NewFromBigInt(base, -int32(decimals)).String()
}

// FromDisplay parses a display decimal into base units. It accepts "1",
// "1.5", ".5" and "1." forms; signs, exponents, separators and more
// fractional digits than decimals are rejected.
func FromDisplay(s string, decimals uint8) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidAmountFormat)
	}
	if strings.Count(s, ".") > 1 {
		return nil, fmt.Errorf("%w: %q has more than one decimal point", ErrInvalidAmountFormat, s)
	}

	integer, fraction, _ := strings.Cut(s, ".")
	if integer == "" && fraction == "" {
		return nil, fmt.Errorf("%w: %q has no digits", ErrInvalidAmountFormat, s)
	}
	if !digitsOnly(integer) || !digitsOnly(fraction) {
		return nil, fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidAmountFormat, s)
	}
	if len(fraction) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmountFormat, s, decimals)
	}

	if integer == "" {
		integer = "0"
	}
	normalized := integer
	if fraction != "" {
		normalized += "." + fraction
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmountFormat, s, err)
	}
	return value.Shift(int32(decimals)).BigInt(), nil
}

// FromDisplayPositive is FromDisplay for amounts that must be above zero,
// such as ticket prices.
func FromDisplayPositive(s string, decimals uint8) (*big.Int, error) {
	base, err := FromDisplay(s, decimals)
	if err != nil {
		return nil, err
	}
	if base.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrNonPositiveAmount, s)
	}
	return base, nil
}

// Canonical rewrites a valid display amount without leading integer zeros or
// trailing fractional zeros.
func Canonical(s string, decimals uint8) (string, error) {
	base, err := FromDisplay(s, decimals)
	if err != nil {
		return "", err
	}
	return ToDisplay(base, decimals), nil
}

func (t Token) ToDisplay(base *big.Int) string {
	return ToDisplay(base, t.Decimals)
}

func (t Token) FromDisplay(s string) (*big.Int, error) {
	return FromDisplay(s, t.Decimals)
}

// Label appends the token symbol to a display amount, e.g. "1.5 STRK".
func (t Token) Label(display string) string {
	if t.Symbol == "" {
		return display
	}
	return display + " " + t.Symbol
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
