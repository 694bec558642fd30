package raffle

import (
	"fmt"
	"strconv"

	"starkraffle/internal/blockchain"
	"starkraffle/internal/codec"
)

// Builder assembles the invoke batches for raffle actions. Inputs are expected
// to have passed validation; a failure here is an ErrEncoding.
type Builder struct {
	contracts Contracts
}

func NewBuilder(contracts Contracts) *Builder {
	return &Builder{contracts: contracts}
}

// BuildCreate: create_raffle(title: felt252, ticket_price: u256,
// max_tickets: u32, end_time: u64).
func (b *Builder) BuildCreate(title, priceDisplay string, maxTickets uint32, endTimeSeconds uint64) ([]blockchain.Call, error) {
	encodedTitle, err := codec.EncodeShortString(title)
	if err != nil {
		return nil, fmt.Errorf("create raffle: title: %w: %w", ErrEncoding, err)
	}

	low, high, err := b.priceLimbs(priceDisplay)
	if err != nil {
		return nil, fmt.Errorf("create raffle: %w", err)
	}

	return []blockchain.Call{
		{
			ContractAddress: b.contracts.Raffle,
			Entrypoint:      EntrypointCreateRaffle,
			Calldata: []string{
				encodedTitle,
				low,
				high,
				strconv.FormatUint(uint64(maxTickets), 10),
				strconv.FormatUint(endTimeSeconds, 10),
			},
		},
	}, nil
}

// BuildBuyTicket returns the token approval for exactly one ticket followed by
// buy_ticket. The approval must come first or the purchase is refused for
// insufficient allowance.
func (b *Builder) BuildBuyTicket(raffleID uint64, priceDisplay string) ([]blockchain.Call, error) {
	low, high, err := b.priceLimbs(priceDisplay)
	if err != nil {
		return nil, fmt.Errorf("buy ticket: %w", err)
	}

	return []blockchain.Call{
		{
			ContractAddress: b.contracts.Token.Address,
			Entrypoint:      EntrypointApprove,
			Calldata:        []string{b.contracts.Raffle, low, high},
		},
		b.raffleCall(EntrypointBuyTicket, raffleID),
	}, nil
}

func (b *Builder) BuildDrawWinner(raffleID uint64) []blockchain.Call {
	return []blockchain.Call{b.raffleCall(EntrypointDrawWinner, raffleID)}
}

func (b *Builder) BuildClaimPrize(raffleID uint64) []blockchain.Call {
	return []blockchain.Call{b.raffleCall(EntrypointClaimPrize, raffleID)}
}

func (b *Builder) raffleCall(entrypoint string, raffleID uint64) blockchain.Call {
	return blockchain.Call{
		ContractAddress: b.contracts.Raffle,
		Entrypoint:      entrypoint,
		Calldata:        []string{strconv.FormatUint(raffleID, 10)},
	}
}

// priceLimbs converts a display price to the u256 (low, high) calldata pair.
func (b *Builder) priceLimbs(priceDisplay string) (string, string, error) {
	base, err := b.contracts.Token.FromDisplay(priceDisplay)
	if err != nil {
		return "", "", fmt.Errorf("price: %w: %w", ErrEncoding, err)
	}

	low, high, err := codec.EncodeWideInteger(base)
	if err != nil {
		return "", "", fmt.Errorf("price: %w: %w", ErrEncoding, err)
	}
	return low.String(), high.String(), nil
}
