package raffle

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"starkraffle/internal/amount"
	"starkraffle/internal/codec"
)

const MinTickets = 2

// CreateInput is the raw create-raffle form.
type CreateInput struct {
	Title      string
	Price      string
	MaxTickets int64
	EndTime    time.Time
}

// CreateRequest is a validated CreateInput, ready for Builder.BuildCreate.
type CreateRequest struct {
	Title          string
	Price          string
	MaxTickets     uint32
	EndTimeSeconds uint64
}

func ValidateCreate(input CreateInput, token amount.Token, now time.Time) (CreateRequest, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return CreateRequest{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := ValidateTitle(title); err != nil {
		return CreateRequest{}, err
	}

	price := strings.TrimSpace(input.Price)
	if err := ValidatePrice(price, token); err != nil {
		return CreateRequest{}, err
	}

	if input.MaxTickets < MinTickets {
		return CreateRequest{}, fmt.Errorf("%w: max tickets must be at least %d", ErrInvalidInput, MinTickets)
	}
	if input.MaxTickets > math.MaxUint32 {
		return CreateRequest{}, fmt.Errorf("%w: max tickets must fit u32: %w", ErrInvalidInput, codec.ErrOutOfRange)
	}

	// the contract stores whole seconds
	if input.EndTime.Unix() <= now.Unix() {
		return CreateRequest{}, fmt.Errorf("%w: end time must be in the future", ErrInvalidInput)
	}

	return CreateRequest{
		Title:          title,
		Price:          price,
		MaxTickets:     uint32(input.MaxTickets),
		EndTimeSeconds: uint64(input.EndTime.Unix()),
	}, nil
}

// ValidateTitle checks that title fits a felt252 short string.
func ValidateTitle(title string) error {
	for _, r := range title {
		if r > 0xff {
			return fmt.Errorf("%w: title character %q is not a single byte: %w", ErrInvalidInput, r, codec.ErrOutOfRange)
		}
	}
	if n := utf8.RuneCountInString(title); n > codec.ShortStringMaxLen {
		return fmt.Errorf("%w: title has %d characters, max %d: %w", ErrInvalidInput, n, codec.ShortStringMaxLen, codec.ErrOutOfRange)
	}
	return nil
}

// ValidatePrice checks a ticket price: well formed and above zero.
func ValidatePrice(price string, token amount.Token) error {
	if _, err := amount.FromDisplayPositive(price, token.Decimals); err != nil {
		return fmt.Errorf("%w: ticket price: %w", ErrInvalidInput, err)
	}
	return nil
}
