package raffle

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"starkraffle/internal/codec"
)

const (
	millisPerMinute = int64(60_000)
	millisPerHour   = int64(3_600_000)
)

// DeriveStatus is drawn once a winner exists, ended once now reaches the end
// time, active before that.
func DeriveStatus(r *Raffle, now time.Time) Status {
	if r.Winner != nil {
		return StatusDrawn
	}
	if now.UnixMilli() >= r.EndTime {
		return StatusEnded
	}
	return StatusActive
}

// TimeRemaining formats the time left until endTimeMs as "Hh Mm", or "Nd Hh"
// beyond 24 hours, or "Ended".
func TimeRemaining(endTimeMs, nowMs int64) string {
	diff := endTimeMs - nowMs
	if diff <= 0 {
		return "Ended"
	}

	hours := diff / millisPerHour
	mins := (diff % millisPerHour) / millisPerMinute
	if hours > 24 {
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

func (r *Raffle) IsFull() bool {
	return r.TicketCount >= r.MaxTickets
}

func (r *Raffle) HasTicket(address string) bool {
	for _, ticket := range r.Tickets {
		if codec.SameAddress(ticket.Buyer, address) {
			return true
		}
	}
	return false
}

func (r *Raffle) IsCreator(address string) bool {
	return codec.SameAddress(r.Creator, address)
}

func (r *Raffle) IsWinner(address string) bool {
	return r.Winner != nil && codec.SameAddress(*r.Winner, address)
}

// CanBuy reports whether viewer may still buy a ticket: one ticket per
// address while the raffle is active and not sold out.
func (r *Raffle) CanBuy(viewer string, now time.Time) bool {
	return DeriveStatus(r, now) == StatusActive && !r.IsFull() && !r.HasTicket(viewer)
}

// CanDraw reports whether viewer may draw: the creator, after the end, with
// at least one ticket sold.
func (r *Raffle) CanDraw(viewer string, now time.Time) bool {
	return DeriveStatus(r, now) == StatusEnded && r.TicketCount > 0 && r.IsCreator(viewer)
}

func (r *Raffle) CanClaim(viewer string) bool {
	return r.IsWinner(viewer) && !r.Claimed
}

// Progress is the sold share of tickets in whole percent, rounded half up.
func (r *Raffle) Progress() int {
	if r.MaxTickets == 0 {
		return 0
	}
	sold := uint64(r.TicketCount) * 100
	total := uint64(r.MaxTickets)
	return int((2*sold + total) / (2 * total))
}

// SortForDisplay returns a copy ordered active, ended, drawn, newest first
// within a status. Sorting an already sorted slice changes nothing.
func SortForDisplay(raffles []*Raffle, now time.Time) []*Raffle {
	sorted := slices.Clone(raffles)
	slices.SortStableFunc(sorted, func(a, b *Raffle) int {
		if c := cmp.Compare(DeriveStatus(a, now).order(), DeriveStatus(b, now).order()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return sorted
}

// Truncate shortens an address to its first and last n hex digits.
func Truncate(address string, n int) string {
	if len(address) <= n*2+2 {
		return address
	}
	return address[:n+2] + "..." + address[len(address)-n:]
}
