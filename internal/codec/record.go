package codec

import (
	"fmt"
	"math/big"
)

// RecordDecoder reads a serialized Cairo struct field by field, in declaration
// order. The first failure sticks: later reads return zero values and Finish
// reports it.
type RecordDecoder struct {
	name  string
	words []*big.Int
	pos   int
	err   error
}

func NewRecordDecoder(name string, words []*big.Int) *RecordDecoder {
	return &RecordDecoder{name: name, words: words}
}

func (d *RecordDecoder) next(field string) *big.Int {
	if d.err != nil {
		return nil
	}
	if d.pos >= len(d.words) {
		d.err = fmt.Errorf("%w: %s.%s: record has %d words", ErrMalformedData, d.name, field, len(d.words))
		return nil
	}

	word := d.words[d.pos]
	d.pos++
	if err := CheckFelt(word); err != nil {
		d.err = fmt.Errorf("%s.%s: %w", d.name, field, err)
		return nil
	}
	return word
}

func (d *RecordDecoder) fail(field string, err error) {
	if d.err == nil && err != nil {
		d.err = fmt.Errorf("%s.%s: %w", d.name, field, err)
	}
}

func (d *RecordDecoder) Felt(field string) *big.Int {
	return d.next(field)
}

func (d *RecordDecoder) Address(field string) *big.Int {
	return d.next(field)
}

func (d *RecordDecoder) ShortString(field string) string {
	return DecodeShortString(d.next(field))
}

func (d *RecordDecoder) Uint32(field string) uint32 {
	word := d.next(field)
	if word == nil {
		return 0
	}
	value, err := Uint32(word)
	d.fail(field, err)
	return value
}

func (d *RecordDecoder) Uint64(field string) uint64 {
	word := d.next(field)
	if word == nil {
		return 0
	}
	value, err := Uint64(word)
	d.fail(field, err)
	return value
}

// Wide reads a u256 as its (low, high) limb pair.
func (d *RecordDecoder) Wide(field string) *big.Int {
	low := d.next(field + ".low")
	high := d.next(field + ".high")
	if low == nil || high == nil {
		return nil
	}
	value, err := DecodeWideInteger(low, high)
	d.fail(field, err)
	return value
}

func (d *RecordDecoder) BoolEnum(field string) bool {
	word := d.next(field)
	if word == nil {
		return false
	}
	variant, err := BoolVariant(word)
	if err != nil {
		d.fail(field, err)
		return false
	}
	value, err := DecodeBoolEnum(variant)
	d.fail(field, err)
	return value
}

// Finish rejects trailing words and returns the first decoding error.
func (d *RecordDecoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.pos != len(d.words) {
		return fmt.Errorf("%w: %s: %d unexpected trailing words", ErrMalformedData, d.name, len(d.words)-d.pos)
	}
	return nil
}
