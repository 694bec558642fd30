package codec

import (
	"fmt"
	"math/big"
)

// Variant names of core::bool as declared in the contract ABI.
const (
	VariantFalse = "False"
	VariantTrue  = "True"
)

// EnumVariant is the active variant of a unit-only Cairo enum.
type EnumVariant struct {
	Name string
}

var boolVariants = [...]string{VariantFalse, VariantTrue}

// BoolVariant maps a serialized core::bool (the variant index) to its
// variant.
func BoolVariant(tag *big.Int) (EnumVariant, error) {
	if tag == nil || !tag.IsInt64() || tag.Int64() < 0 || tag.Int64() >= int64(len(boolVariants)) {
		return EnumVariant{}, fmt.Errorf("%w: bool variant index %v", ErrMalformedData, tag)
	}
	return EnumVariant{Name: boolVariants[tag.Int64()]}, nil
}

// DecodeBoolEnum reads a core::bool. The variant form is what the contract
// returns; a plain bool is accepted for clients that already collapsed it.
func DecodeBoolEnum(value any) (bool, error) {
	switch v := value.(type) {
	case EnumVariant:
		return decodeVariantName(v.Name)
	case *EnumVariant:
		if v == nil {
			return false, fmt.Errorf("%w: nil bool variant", ErrMalformedData)
		}
		return decodeVariantName(v.Name)
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%w: unexpected bool representation %T", ErrMalformedData, value)
	}
}

func decodeVariantName(name string) (bool, error) {
	switch name {
	case VariantTrue:
		return true, nil
	case VariantFalse:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unknown bool variant %q", ErrMalformedData, name)
	}
}
