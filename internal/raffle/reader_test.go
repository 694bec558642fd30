package raffle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"starkraffle/internal/amount"
	"starkraffle/internal/blockchain"
	"starkraffle/internal/codec"
	"starkraffle/internal/raffle/rafflemock"
)

const (
	raffleAddress = "0x5a1e"
	tokenAddress  = "0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"
	creator       = "0xc0ffee"
	buyerA        = "0xa11ce"
	buyerB        = "0xb0b"
)

var (
	testContracts = Contracts{
		Raffle: raffleAddress,
		Token:  amount.Token{Address: tokenAddress, Symbol: "STRK", Decimals: 18},
	}

	errConnectionRefused = errors.New("connection refused")
)

func felt(s string) *big.Int {
	value, err := codec.ParseFelt(s)
	if err != nil {
		panic(err)
	}
	return value
}

func shortString(s string) *big.Int {
	encoded, err := codec.EncodeShortString(s)
	if err != nil {
		panic(err)
	}
	return felt(encoded)
}

// chainRaffle is one raffle as the contract stores it.
type chainRaffle struct {
	creator     string
	title       string
	priceBase   string
	maxTickets  int64
	endTime     int64 // seconds
	winner      string
	claimed     bool
	buyers      []string
	overrideRaw []*big.Int
}

func (c chainRaffle) words() []*big.Int {
	if c.overrideRaw != nil {
		return c.overrideRaw
	}
	price, _ := new(big.Int).SetString(c.priceBase, 10)
	low, high, err := codec.EncodeWideInteger(price)
	if err != nil {
		panic(err)
	}
	winner := big.NewInt(0)
	if c.winner != "" {
		winner = felt(c.winner)
	}
	claimed := big.NewInt(0)
	if c.claimed {
		claimed = big.NewInt(1)
	}
	return []*big.Int{
		felt(c.creator),
		shortString(c.title),
		low,
		high,
		big.NewInt(c.maxTickets),
		big.NewInt(c.endTime),
		big.NewInt(int64(len(c.buyers))),
		winner,
		claimed,
	}
}

// fakeChain answers contract reads from an in-memory raffle list.
type fakeChain struct {
	mu       sync.Mutex
	raffles  []chainRaffle
	count    *int64
	balances map[string]*big.Int
	failIDs  map[uint64]error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeChain) call(_ context.Context, contractAddress, entrypoint string, calldata []*big.Int) ([]*big.Int, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxInFlight.Load()
		if current <= seen || f.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()

	if contractAddress == tokenAddress && entrypoint == EntrypointBalanceOf {
		balance, ok := f.balances[codec.FormatAddress(calldata[0])]
		if !ok {
			balance = big.NewInt(0)
		}
		low, high, _ := codec.EncodeWideInteger(balance)
		return []*big.Int{low, high}, nil
	}
	if contractAddress != raffleAddress {
		return nil, fmt.Errorf("%w: contract not found", blockchain.ErrContractError)
	}

	switch entrypoint {
	case EntrypointGetStrkAddress:
		return []*big.Int{felt(tokenAddress)}, nil
	case EntrypointGetRaffleCount:
		if f.count != nil {
			return []*big.Int{big.NewInt(*f.count)}, nil
		}
		return []*big.Int{big.NewInt(int64(len(f.raffles)))}, nil
	case EntrypointGetRaffle:
		id := calldata[0].Uint64()
		if err, ok := f.failIDs[id]; ok {
			return nil, err
		}
		if id >= uint64(len(f.raffles)) {
			return nil, fmt.Errorf("%w: Raffle does not exist", blockchain.ErrContractError)
		}
		return f.raffles[id].words(), nil
	case EntrypointGetTicketBuyer:
		id, index := calldata[0].Uint64(), calldata[1].Uint64()
		if id >= uint64(len(f.raffles)) || index >= uint64(len(f.raffles[id].buyers)) {
			return nil, fmt.Errorf("%w: Invalid ticket index", blockchain.ErrContractError)
		}
		return []*big.Int{felt(f.raffles[id].buyers[index])}, nil
	default:
		return nil, fmt.Errorf("%w: entrypoint %s not found", blockchain.ErrContractError, entrypoint)
	}
}

func newTestReader(t *testing.T, chain *fakeChain, options ...ReaderOption) *Reader {
	ctrl := gomock.NewController(t)
	caller := rafflemock.NewCaller(ctrl)
	caller.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(chain.call).AnyTimes()
	return NewReader(caller, testContracts, options...)
}

func sampleRaffle() chainRaffle {
	return chainRaffle{
		creator:    creator,
		title:      "Hello",
		priceBase:  "1500000000000000000",
		maxTickets: 10,
		endTime:    1_700_000_000,
		buyers:     []string{buyerA, buyerB},
	}
}

func TestFetchOne(t *testing.T) {
	chain := &fakeChain{raffles: []chainRaffle{sampleRaffle()}}
	reader := newTestReader(t, chain)

	raffle, err := reader.FetchOne(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, &Raffle{
		ID:          0,
		Creator:     creator,
		Title:       "Hello",
		TicketPrice: "1.5",
		MaxTickets:  10,
		EndTime:     1_700_000_000_000,
		TicketCount: 2,
		Tickets: []Ticket{
			{Buyer: buyerA, Index: 0},
			{Buyer: buyerB, Index: 1},
		},
		Winner:  nil,
		Claimed: false,
	}, raffle)
}

func TestFetchOneWinnerAndClaimed(t *testing.T) {
	record := sampleRaffle()
	record.winner = buyerB
	record.claimed = true
	chain := &fakeChain{raffles: []chainRaffle{record}}
	reader := newTestReader(t, chain)

	raffle, err := reader.FetchOne(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, raffle.Winner)
	require.Equal(t, buyerB, *raffle.Winner)
	require.True(t, raffle.Claimed)
}

func TestFetchOneErrors(t *testing.T) {
	tooManyTickets := sampleRaffle()
	tooManyTickets.maxTickets = 1

	badBool := sampleRaffle()
	badBool.overrideRaw = append(sampleRaffle().words()[:8], big.NewInt(2))

	short := sampleRaffle()
	short.overrideRaw = sampleRaffle().words()[:7]

	zeroCreator := sampleRaffle()
	zeroCreator.creator = "0x0"
	zeroCreator.buyers = nil

	tests := []struct {
		name        string
		raffles     []chainRaffle
		failIDs     map[uint64]error
		id          uint64
		expectedErr error
	}{
		{
			name:        "unknown id",
			raffles:     []chainRaffle{sampleRaffle()},
			id:          5,
			expectedErr: ErrNotFound,
		},
		{
			name:        "zeroed record",
			raffles:     []chainRaffle{zeroCreator},
			id:          0,
			expectedErr: ErrNotFound,
		},
		{
			name:        "too few words",
			raffles:     []chainRaffle{short},
			id:          0,
			expectedErr: codec.ErrMalformedData,
		},
		{
			name:        "bool out of range",
			raffles:     []chainRaffle{badBool},
			id:          0,
			expectedErr: ErrDecode,
		},
		{
			name:        "ticket count above max",
			raffles:     []chainRaffle{tooManyTickets},
			id:          0,
			expectedErr: ErrDecode,
		},
		{
			name:        "unreachable node",
			raffles:     []chainRaffle{sampleRaffle()},
			failIDs:     map[uint64]error{0: fmt.Errorf("%w: %w", blockchain.ErrTransport, errConnectionRefused)},
			id:          0,
			expectedErr: ErrTransport,
		},
		{
			name:        "bare transport failure",
			raffles:     []chainRaffle{sampleRaffle()},
			failIDs:     map[uint64]error{0: errConnectionRefused},
			id:          0,
			expectedErr: ErrTransport,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			chain := &fakeChain{raffles: test.raffles, failIDs: test.failIDs}
			reader := newTestReader(t, chain)

			_, err := reader.FetchOne(context.Background(), test.id)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestFetchOneMissingTicketBuyer(t *testing.T) {
	record := sampleRaffle()
	words := record.words()
	words[6] = big.NewInt(3) // claims three tickets, two buyers exist
	record.overrideRaw = words
	chain := &fakeChain{raffles: []chainRaffle{record}}
	reader := newTestReader(t, chain)

	_, err := reader.FetchOne(context.Background(), 0)
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, blockchain.ErrContractError)
}

func TestFetchAllSkipsFailures(t *testing.T) {
	malformed := sampleRaffle()
	malformed.overrideRaw = sampleRaffle().words()[:3]

	chain := &fakeChain{raffles: []chainRaffle{sampleRaffle(), sampleRaffle(), malformed, sampleRaffle()}}
	reader := newTestReader(t, chain)

	raffles, err := reader.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, raffles, 3)
	for i, id := range []uint64{0, 1, 3} {
		require.Equal(t, id, raffles[i].ID)
	}
}

func TestFetchAllEmpty(t *testing.T) {
	reader := newTestReader(t, &fakeChain{})

	raffles, err := reader.FetchAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, raffles)
}

func TestFetchAllCountFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := rafflemock.NewCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), raffleAddress, EntrypointGetRaffleCount, gomock.Nil()).
		Return(nil, fmt.Errorf("%w: timeout", blockchain.ErrTransport))
	reader := NewReader(caller, testContracts)

	_, err := reader.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

func TestFetchAllCountTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := rafflemock.NewCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), raffleAddress, EntrypointGetRaffleCount, gomock.Nil()).
		Return([]*big.Int{big.NewInt(1 << 31)}, nil)
	reader := NewReader(caller, testContracts)

	_, err := reader.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, codec.ErrMalformedData)
}

func TestFetchAllConcurrentKeepsOrder(t *testing.T) {
	raffles := make([]chainRaffle, 12)
	for i := range raffles {
		raffles[i] = sampleRaffle()
		raffles[i].title = fmt.Sprintf("Raffle %d", i)
	}
	chain := &fakeChain{raffles: raffles, failIDs: map[uint64]error{4: errConnectionRefused}}
	reader := newTestReader(t, chain, WithConcurrency(4))

	fetched, err := reader.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, fetched, 11)
	for i := 1; i < len(fetched); i++ {
		require.Less(t, fetched[i-1].ID, fetched[i].ID)
	}
	require.Equal(t, "Raffle 11", fetched[10].Title)
	require.LessOrEqual(t, chain.maxInFlight.Load(), int32(4))
}

func TestFetchAllSequentialByDefault(t *testing.T) {
	chain := &fakeChain{raffles: []chainRaffle{sampleRaffle(), sampleRaffle(), sampleRaffle()}}
	reader := newTestReader(t, chain)

	_, err := reader.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), chain.maxInFlight.Load())
}

func TestFetchAllCancelled(t *testing.T) {
	chain := &fakeChain{raffles: []chainRaffle{sampleRaffle()}}
	reader := newTestReader(t, chain)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.FetchAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchCountMalformed(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := rafflemock.NewCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), raffleAddress, EntrypointGetRaffleCount, gomock.Any()).
		Return([]*big.Int{big.NewInt(1), big.NewInt(2)}, nil)
	reader := NewReader(caller, testContracts)

	_, err := reader.FetchCount(context.Background())
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, codec.ErrMalformedData)
}

func TestFetchBalance(t *testing.T) {
	balance, _ := new(big.Int).SetString("2500000000000000000", 10)
	chain := &fakeChain{balances: map[string]*big.Int{buyerA: balance}}
	reader := newTestReader(t, chain)

	display, err := reader.FetchBalance(context.Background(), "0x000A11CE")
	require.NoError(t, err)
	require.Equal(t, "2.5", display)

	display, err = reader.FetchBalance(context.Background(), buyerB)
	require.NoError(t, err)
	require.Equal(t, "0", display)

	_, err = reader.FetchBalance(context.Background(), "a11ce")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFetchTokenAddress(t *testing.T) {
	reader := newTestReader(t, &fakeChain{})

	address, err := reader.FetchTokenAddress(context.Background())
	require.NoError(t, err)
	require.Equal(t, tokenAddress, address)
}
