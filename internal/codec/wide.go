package codec

import (
	"fmt"
	"math/big"
)

// u256 travels as two u128 limbs, low limb first.
var (
	limbModulus = new(big.Int).Lsh(big.NewInt(1), 128)
	wideModulus = new(big.Int).Lsh(big.NewInt(1), 256)
	limbMask    = new(big.Int).Sub(limbModulus, big.NewInt(1))
)

func DecodeWideInteger(low, high *big.Int) (*big.Int, error) {
	if err := checkLimb("low", low); err != nil {
		return nil, err
	}
	if err := checkLimb("high", high); err != nil {
		return nil, err
	}

	value := new(big.Int).Lsh(high, 128)
	return value.Or(value, low), nil
}

func EncodeWideInteger(value *big.Int) (low, high *big.Int, err error) {
	if value == nil || value.Sign() < 0 || value.Cmp(wideModulus) >= 0 {
		return nil, nil, fmt.Errorf("%w: %v does not fit u256", ErrOutOfRange, value)
	}

	low = new(big.Int).And(value, limbMask)
	high = new(big.Int).Rsh(value, 128)
	return low, high, nil
}

func checkLimb(name string, limb *big.Int) error {
	if limb == nil {
		return fmt.Errorf("%w: missing %s limb", ErrMalformedData, name)
	}
	if limb.Sign() < 0 || limb.Cmp(limbModulus) >= 0 {
		return fmt.Errorf("%w: %s limb %s does not fit u128", ErrMalformedData, name, limb.String())
	}
	return nil
}
