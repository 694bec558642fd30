package raffle

import (
	"errors"

	"starkraffle/internal/amount"
	"starkraffle/internal/blockchain"
)

// Contract entrypoints.
const (
	EntrypointCreateRaffle   = "create_raffle"
	EntrypointBuyTicket      = "buy_ticket"
	EntrypointDrawWinner     = "draw_winner"
	EntrypointClaimPrize     = "claim_prize"
	EntrypointGetRaffle      = "get_raffle"
	EntrypointGetRaffleCount = "get_raffle_count"
	EntrypointGetTicketBuyer = "get_ticket_buyer"
	EntrypointGetStrkAddress = "get_strk_address"

	// token entrypoints
	EntrypointApprove   = "approve"
	EntrypointBalanceOf = "balance_of"
)

var (
	ErrNotFound = errors.New("raffle not found")
	// ErrDecode wraps codec.ErrMalformedData when a contract answer does not
	// match the expected ABI; usually a contract/client version mismatch.
	ErrDecode = errors.New("raffle decode error")
	// ErrEncoding is raised by the call builders when a precondition that
	// validation should have enforced was bypassed.
	ErrEncoding     = errors.New("call encoding error")
	ErrInvalidInput = errors.New("invalid input")

	ErrTransport = blockchain.ErrTransport
)

// Contracts locates the raffle contract and the token tickets are paid in.
type Contracts struct {
	Raffle string
	Token  amount.Token
}

type Ticket struct {
	Buyer string `json:"buyer"`
	Index uint32 `json:"index"`
}

// Raffle is a read-only snapshot of one on-chain raffle.
type Raffle struct {
	ID          uint64   `json:"id"`
	Creator     string   `json:"creator"`
	Title       string   `json:"title"`
	TicketPrice string   `json:"ticketPrice"`
	MaxTickets  uint32   `json:"maxTickets"`
	EndTime     int64    `json:"endTime"` // unix milliseconds
	TicketCount uint32   `json:"ticketCount"`
	Tickets     []Ticket `json:"tickets"`
	Winner      *string  `json:"winner"`
	Claimed     bool     `json:"claimed"`
}

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
	StatusDrawn  Status = "drawn"
)

func (s Status) Label() string {
	switch s {
	case StatusDrawn:
		return "Winner Drawn"
	case StatusEnded:
		return "Ended"
	default:
		return "Active"
	}
}

func (s Status) order() int {
	switch s {
	case StatusActive:
		return 0
	case StatusEnded:
		return 1
	default:
		return 2
	}
}
