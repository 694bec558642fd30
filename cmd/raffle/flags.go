package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"starkraffle/internal/raffle"
)

const (
	IDKey         = "id"
	ViewerKey     = "viewer"
	AddressKey    = "address"
	TitleKey      = "title"
	PriceKey      = "price"
	MaxTicketsKey = "max-tickets"
	EndKey        = "end"
	DurationKey   = "duration"
	LimitKey      = "limit"
	PendingKey    = "pending"
	SubmissionKey = "submission"
	EnvFileKey    = "env-file"
)

var errMissingFlag = errors.New("missing required flag")

func newFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.StringSlice(EnvFileKey, nil, "Dotenv files to load before reading the environment")
	return flags
}

func addRaffleFlags(flags *pflag.FlagSet) {
	flags.Uint64(IDKey, 0, "Raffle id")
	flags.String(ViewerKey, "", "Address acting on the raffle")
}

func addCreateFlags(flags *pflag.FlagSet) {
	flags.String(TitleKey, "", "Raffle title, at most 31 single-byte characters")
	flags.String(PriceKey, "", "Ticket price in token units, e.g. 1.5")
	flags.Int64(MaxTicketsKey, 0, "Maximum number of tickets, at least 2")
	flags.String(EndKey, "", "End time as RFC 3339, e.g. 2026-11-01T18:00:00Z")
	flags.Duration(DurationKey, 0, "End the raffle this long from now, when --end is not set")
}

func addHistoryFlags(flags *pflag.FlagSet) {
	flags.Int(LimitKey, 20, "Number of submissions to list, 0 for all")
	flags.Bool(PendingKey, false, "List only submissions still waiting for an outcome")
	flags.Uint64(IDKey, 0, "List only submissions for this raffle")
	flags.Int64(SubmissionKey, 0, "Show a single submission")
}

type raffleArgs struct {
	ID     uint64
	Viewer string
}

func parseRaffleFlags(flags *pflag.FlagSet, requireViewer bool) (*raffleArgs, error) {
	if !flags.Changed(IDKey) {
		return nil, fmt.Errorf("%w: --%s", errMissingFlag, IDKey)
	}
	id, err := flags.GetUint64(IDKey)
	if err != nil {
		return nil, err
	}

	viewer, err := flags.GetString(ViewerKey)
	if err != nil {
		return nil, err
	}
	if requireViewer && viewer == "" {
		return nil, fmt.Errorf("%w: --%s", errMissingFlag, ViewerKey)
	}

	return &raffleArgs{
		ID:     id,
		Viewer: viewer,
	}, nil
}

func parseCreateFlags(flags *pflag.FlagSet, now time.Time) (raffle.CreateInput, error) {
	title, err := flags.GetString(TitleKey)
	if err != nil {
		return raffle.CreateInput{}, err
	}

	price, err := flags.GetString(PriceKey)
	if err != nil {
		return raffle.CreateInput{}, err
	}

	maxTickets, err := flags.GetInt64(MaxTicketsKey)
	if err != nil {
		return raffle.CreateInput{}, err
	}

	endStr, err := flags.GetString(EndKey)
	if err != nil {
		return raffle.CreateInput{}, err
	}

	duration, err := flags.GetDuration(DurationKey)
	if err != nil {
		return raffle.CreateInput{}, err
	}

	var end time.Time
	switch {
	case endStr != "":
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return raffle.CreateInput{}, fmt.Errorf("%w: --%s: %w", raffle.ErrInvalidInput, EndKey, err)
		}
	case duration != 0:
		end = now.Add(duration)
	default:
		return raffle.CreateInput{}, fmt.Errorf("%w: --%s or --%s", errMissingFlag, EndKey, DurationKey)
	}

	return raffle.CreateInput{
		Title:      title,
		Price:      price,
		MaxTickets: maxTickets,
		EndTime:    end,
	}, nil
}
