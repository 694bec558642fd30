package raffle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"starkraffle/internal/blockchain"
	"starkraffle/internal/codec"
	"starkraffle/internal/logger"
)

// Caller executes read-only contract entrypoints and returns raw result
// felts. *blockchain.Client implements it.
type Caller interface {
	Call(ctx context.Context, contractAddress, entrypoint string, calldata []*big.Int) ([]*big.Int, error)
}

var _ Caller = (*blockchain.Client)(nil)

// MaxRaffleCount bounds the collection FetchAll will read. A larger count is
// treated as a corrupt reply.
const MaxRaffleCount = 1 << 16

type Reader struct {
	caller      Caller
	contracts   Contracts
	concurrency int
}

type ReaderOption func(*Reader)

// WithConcurrency lets FetchAll read up to n raffles at once. Values below 1
// mean sequential reads.
func WithConcurrency(n int) ReaderOption {
	return func(r *Reader) {
		r.concurrency = max(n, 1)
	}
}

func NewReader(caller Caller, contracts Contracts, options ...ReaderOption) *Reader {
	reader := &Reader{
		caller:      caller,
		contracts:   contracts,
		concurrency: 1,
	}
	for _, option := range options {
		option(reader)
	}
	return reader
}

// raffleInfo mirrors raffle::RaffleInfo field for field.
type raffleInfo struct {
	creator     *big.Int
	title       string
	ticketPrice *big.Int
	maxTickets  uint32
	endTime     uint64
	ticketCount uint32
	winner      *big.Int
	claimed     bool
}

func decodeRaffleInfo(words []*big.Int) (*raffleInfo, error) {
	d := codec.NewRecordDecoder("RaffleInfo", words)
	info := &raffleInfo{
		creator:     d.Address("creator"),
		title:       d.ShortString("title"),
		ticketPrice: d.Wide("ticket_price"),
		maxTickets:  d.Uint32("max_tickets"),
		endTime:     d.Uint64("end_time"),
		ticketCount: d.Uint32("ticket_count"),
		winner:      d.Address("winner"),
		claimed:     d.BoolEnum("claimed"),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}

	if info.ticketCount > info.maxTickets {
		return nil, fmt.Errorf("%w: ticket_count %d exceeds max_tickets %d", codec.ErrMalformedData, info.ticketCount, info.maxTickets)
	}
	if info.endTime > math.MaxInt64/1000 {
		return nil, fmt.Errorf("%w: end_time %d out of range", codec.ErrMalformedData, info.endTime)
	}
	return info, nil
}

func (r *Reader) FetchCount(ctx context.Context) (uint64, error) {
	words, err := r.caller.Call(ctx, r.contracts.Raffle, EntrypointGetRaffleCount, nil)
	if err != nil {
		return 0, fmt.Errorf("raffle count: %w", transportError(err))
	}
	if len(words) != 1 {
		return 0, fmt.Errorf("raffle count: %w: %w: expected 1 word, got %d", ErrDecode, codec.ErrMalformedData, len(words))
	}

	count, err := codec.Uint64(words[0])
	if err != nil {
		return 0, fmt.Errorf("raffle count: %w: %w", ErrDecode, err)
	}
	return count, nil
}

// FetchOne reads raffle id and each of its ticket buyers, in purchase order.
func (r *Reader) FetchOne(ctx context.Context, id uint64) (*Raffle, error) {
	raffleID := new(big.Int).SetUint64(id)

	words, err := r.caller.Call(ctx, r.contracts.Raffle, EntrypointGetRaffle, []*big.Int{raffleID})
	if err != nil {
		if errors.Is(err, blockchain.ErrContractError) {
			return nil, fmt.Errorf("raffle %d: %w: %w", id, ErrNotFound, err)
		}
		return nil, fmt.Errorf("raffle %d: %w", id, transportError(err))
	}

	info, err := decodeRaffleInfo(words)
	if err != nil {
		return nil, fmt.Errorf("raffle %d: %w: %w", id, ErrDecode, err)
	}

	// storage reads of unknown ids come back zeroed
	if codec.IsZeroAddress(info.creator) {
		return nil, fmt.Errorf("raffle %d: %w", id, ErrNotFound)
	}

	tickets := make([]Ticket, 0, info.ticketCount)
	for i := uint32(0); i < info.ticketCount; i++ {
		buyer, err := r.fetchTicketBuyer(ctx, raffleID, i)
		if err != nil {
			return nil, fmt.Errorf("raffle %d: ticket %d: %w", id, i, err)
		}
		tickets = append(tickets, Ticket{Buyer: buyer, Index: i})
	}

	return &Raffle{
		ID:          id,
		Creator:     codec.FormatAddress(info.creator),
		Title:       info.title,
		TicketPrice: r.contracts.Token.ToDisplay(info.ticketPrice),
		MaxTickets:  info.maxTickets,
		EndTime:     int64(info.endTime) * 1000,
		TicketCount: info.ticketCount,
		Tickets:     tickets,
		Winner:      codec.DecodeOptionalAddress(info.winner),
		Claimed:     info.claimed,
	}, nil
}

func (r *Reader) fetchTicketBuyer(ctx context.Context, raffleID *big.Int, index uint32) (string, error) {
	words, err := r.caller.Call(ctx, r.contracts.Raffle, EntrypointGetTicketBuyer, []*big.Int{raffleID, big.NewInt(int64(index))})
	if err != nil {
		// the record promised this ticket, so a refusal is an inconsistency
		if errors.Is(err, blockchain.ErrContractError) {
			return "", fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return "", transportError(err)
	}
	if len(words) != 1 {
		return "", fmt.Errorf("%w: %w: expected 1 word, got %d", ErrDecode, codec.ErrMalformedData, len(words))
	}
	if err := codec.CheckFelt(words[0]); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return codec.FormatAddress(words[0]), nil
}

// FetchAll reads every raffle the contract knows, ordered by id. A raffle
// that fails to read is logged and left out; only failing to read the count
// or a cancelled context fails the whole call.
func (r *Reader) FetchAll(ctx context.Context) ([]*Raffle, error) {
	count, err := r.FetchCount(ctx)
	if err != nil {
		return nil, err
	}
	if count > MaxRaffleCount {
		return nil, fmt.Errorf("raffle count: %w: %w: %d raffles, at most %d", ErrDecode, codec.ErrMalformedData, count, MaxRaffleCount)
	}

	slots := make([]*Raffle, count)

	var group errgroup.Group
	group.SetLimit(r.concurrency)
	for id := uint64(0); id < count; id++ {
		id := id
		group.Go(func() error {
			raffle, err := r.FetchOne(ctx, id)
			if err != nil {
				logger.Warn("fetch all: skipping raffle", zap.Uint64("raffle id", id), zap.Error(err))
				return nil
			}
			slots[id] = raffle
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raffles := make([]*Raffle, 0, len(slots))
	for _, raffle := range slots {
		if raffle != nil {
			raffles = append(raffles, raffle)
		}
	}

	logger.Debug("fetch all: done", zap.Uint64("count", count), zap.Int("fetched", len(raffles)))
	return raffles, nil
}

// FetchBalance returns owner's token balance in display units.
func (r *Reader) FetchBalance(ctx context.Context, owner string) (string, error) {
	ownerAddress, err := codec.ParseAddress(owner)
	if err != nil {
		return "", fmt.Errorf("balance: %w: %w", ErrInvalidInput, err)
	}

	words, err := r.caller.Call(ctx, r.contracts.Token.Address, EntrypointBalanceOf, []*big.Int{ownerAddress})
	if err != nil {
		return "", fmt.Errorf("balance: %w", transportError(err))
	}

	d := codec.NewRecordDecoder("u256", words)
	balance := d.Wide("balance")
	if err := d.Finish(); err != nil {
		return "", fmt.Errorf("balance: %w: %w", ErrDecode, err)
	}
	return r.contracts.Token.ToDisplay(balance), nil
}

// FetchTokenAddress returns the token the raffle contract charges tickets in.
func (r *Reader) FetchTokenAddress(ctx context.Context) (string, error) {
	words, err := r.caller.Call(ctx, r.contracts.Raffle, EntrypointGetStrkAddress, nil)
	if err != nil {
		return "", fmt.Errorf("token address: %w", transportError(err))
	}

	d := codec.NewRecordDecoder("ContractAddress", words)
	address := d.Address("address")
	if err := d.Finish(); err != nil {
		return "", fmt.Errorf("token address: %w: %w", ErrDecode, err)
	}
	return codec.FormatAddress(address), nil
}

func transportError(err error) error {
	if errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
