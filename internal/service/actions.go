package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"starkraffle/internal/blockchain"
	"starkraffle/internal/codec"
	"starkraffle/internal/logger"
	"starkraffle/internal/raffle"
	"starkraffle/internal/storage"
)

// Receipt is the outcome of a confirmed write. Raffle is the raffle re-read
// after confirmation; Raffles is the refreshed list after a create.
type Receipt struct {
	SubmissionID    int64        `json:"submissionId,omitempty"`
	TransactionHash string       `json:"transactionHash"`
	ExplorerURL     string       `json:"explorerUrl,omitempty"`
	Raffle          *DetailView  `json:"raffle,omitempty"`
	Raffles         []RaffleView `json:"raffles,omitempty"`
}

// PrepareCreate validates the form and returns the create_raffle batch.
func (s *Service) PrepareCreate(input raffle.CreateInput) ([]blockchain.Call, error) {
	request, err := raffle.ValidateCreate(input, s.contracts.Token, s.now())
	if err != nil {
		return nil, err
	}
	return s.builder.BuildCreate(request.Title, request.Price, request.MaxTickets, request.EndTimeSeconds)
}

// PrepareBuyTicket re-reads the raffle and returns the approve and buy_ticket
// batch when viewer may still buy.
func (s *Service) PrepareBuyTicket(ctx context.Context, id uint64, viewer string) ([]blockchain.Call, error) {
	if err := checkViewer(viewer); err != nil {
		return nil, err
	}

	r, err := s.reader.FetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkBuy(r, viewer); err != nil {
		return nil, err
	}
	return s.builder.BuildBuyTicket(r.ID, r.TicketPrice)
}

func (s *Service) PrepareDrawWinner(ctx context.Context, id uint64, viewer string) ([]blockchain.Call, error) {
	if err := checkViewer(viewer); err != nil {
		return nil, err
	}

	r, err := s.reader.FetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDraw(r, viewer); err != nil {
		return nil, err
	}
	return s.builder.BuildDrawWinner(r.ID), nil
}

func (s *Service) PrepareClaimPrize(ctx context.Context, id uint64, viewer string) ([]blockchain.Call, error) {
	if err := checkViewer(viewer); err != nil {
		return nil, err
	}

	r, err := s.reader.FetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkClaim(r, viewer); err != nil {
		return nil, err
	}
	return s.builder.BuildClaimPrize(r.ID), nil
}

func checkViewer(viewer string) error {
	if _, err := codec.ParseAddress(viewer); err != nil {
		return fmt.Errorf("%w: viewer address: %w", raffle.ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) checkBuy(r *raffle.Raffle, viewer string) error {
	now := s.now()
	switch {
	case raffle.DeriveStatus(r, now) != raffle.StatusActive:
		return fmt.Errorf("raffle %d: %w: raffle is %s", r.ID, ErrNotAllowed, raffle.DeriveStatus(r, now))
	case r.IsFull():
		return fmt.Errorf("raffle %d: %w: sold out", r.ID, ErrNotAllowed)
	case r.HasTicket(viewer):
		return fmt.Errorf("raffle %d: %w: %s already holds a ticket", r.ID, ErrNotAllowed, viewer)
	}
	return nil
}

func (s *Service) checkDraw(r *raffle.Raffle, viewer string) error {
	now := s.now()
	switch {
	case !r.IsCreator(viewer):
		return fmt.Errorf("raffle %d: %w: only the creator can draw", r.ID, ErrNotAllowed)
	case raffle.DeriveStatus(r, now) != raffle.StatusEnded:
		return fmt.Errorf("raffle %d: %w: raffle is %s", r.ID, ErrNotAllowed, raffle.DeriveStatus(r, now))
	case r.TicketCount == 0:
		return fmt.Errorf("raffle %d: %w: no tickets sold", r.ID, ErrNotAllowed)
	}
	return nil
}

func checkClaim(r *raffle.Raffle, viewer string) error {
	switch {
	case !r.IsWinner(viewer):
		return fmt.Errorf("raffle %d: %w: only the winner can claim", r.ID, ErrNotAllowed)
	case r.Claimed:
		return fmt.Errorf("raffle %d: %w: prize already claimed", r.ID, ErrNotAllowed)
	}
	return nil
}

// CreateRaffle submits a new raffle and returns the refreshed list.
func (s *Service) CreateRaffle(ctx context.Context, input raffle.CreateInput) (*Receipt, error) {
	calls, err := s.PrepareCreate(input)
	if err != nil {
		return nil, fmt.Errorf("create raffle: %w", err)
	}

	receipt, err := s.submit(ctx, storage.CreateRaffleActionType, nil, calls)
	if err != nil {
		return nil, err
	}

	raffles, err := s.List(ctx)
	if err != nil {
		logger.Warn("create raffle: refresh failed", zap.Error(err))
		return receipt, nil
	}
	receipt.Raffles = raffles
	return receipt, nil
}

func (s *Service) BuyTicket(ctx context.Context, id uint64, viewer string) (*Receipt, error) {
	calls, err := s.PrepareBuyTicket(ctx, id, viewer)
	if err != nil {
		return nil, fmt.Errorf("buy ticket: %w", err)
	}
	return s.submitAndRefresh(ctx, storage.BuyTicketActionType, id, viewer, calls)
}

func (s *Service) DrawWinner(ctx context.Context, id uint64, viewer string) (*Receipt, error) {
	calls, err := s.PrepareDrawWinner(ctx, id, viewer)
	if err != nil {
		return nil, fmt.Errorf("draw winner: %w", err)
	}
	return s.submitAndRefresh(ctx, storage.DrawWinnerActionType, id, viewer, calls)
}

func (s *Service) ClaimPrize(ctx context.Context, id uint64, viewer string) (*Receipt, error) {
	calls, err := s.PrepareClaimPrize(ctx, id, viewer)
	if err != nil {
		return nil, fmt.Errorf("claim prize: %w", err)
	}
	return s.submitAndRefresh(ctx, storage.ClaimPrizeActionType, id, viewer, calls)
}

func (s *Service) submitAndRefresh(ctx context.Context, action storage.ActionType, id uint64, viewer string, calls []blockchain.Call) (*Receipt, error) {
	receipt, err := s.submit(ctx, action, &id, calls)
	if err != nil {
		return nil, err
	}

	detail, err := s.Detail(ctx, id, viewer)
	if err != nil {
		logger.Warn("refresh after submission failed", zap.String("action type", action), zap.Uint64("raffle id", id), zap.Error(err))
		return receipt, nil
	}
	receipt.Raffle = detail
	return receipt, nil
}

// submit executes calls once and waits for the outcome. Nothing is retried;
// a failed batch is journaled and reported to the caller.
func (s *Service) submit(ctx context.Context, action storage.ActionType, raffleID *uint64, calls []blockchain.Call) (*Receipt, error) {
	if s.executor == nil {
		return nil, fmt.Errorf("%s: %w", action, ErrNoExecutor)
	}

	encodedCalls, err := json.Marshal(calls)
	if err != nil {
		return nil, fmt.Errorf("%s: encode calls: %w", action, err)
	}
	submission := &storage.Submission{
		ActionType: action,
		RaffleID:   raffleID,
		Calls:      string(encodedCalls),
	}

	logger.Info("submitting", zap.String("action type", action), zap.Int("calls", len(calls)))
	handle, err := s.executor.Execute(ctx, calls)
	if err != nil {
		submission.Status = storage.SubmissionFailed
		submission.Error = err.Error()
		s.record(submission)
		return nil, fmt.Errorf("%s: execute: %w", action, err)
	}

	submission.TransactionHash = handle.TransactionHash()
	submission.ExplorerURL = handle.ExplorerURL()
	if submission.ExplorerURL == "" {
		submission.ExplorerURL = blockchain.ExplorerTxURL(s.explorerTxURL, submission.TransactionHash)
	}
	s.record(submission)

	waitErr := handle.Wait(ctx)
	if waitErr != nil {
		submission.Status = storage.SubmissionFailed
		submission.Error = waitErr.Error()
	} else {
		submission.Status = storage.SubmissionConfirmed
	}
	s.update(submission)

	if waitErr != nil {
		logger.Error("submission failed", zap.String("action type", action), zap.String("transaction hash", submission.TransactionHash), zap.Error(waitErr))
		return nil, fmt.Errorf("%s: transaction %s: %w", action, submission.TransactionHash, waitErr)
	}

	logger.Info("submission confirmed", zap.String("action type", action), zap.String("transaction hash", submission.TransactionHash))
	return &Receipt{
		SubmissionID:    submission.ID,
		TransactionHash: submission.TransactionHash,
		ExplorerURL:     submission.ExplorerURL,
	}, nil
}

// Journal failures are logged only.
func (s *Service) record(submission *storage.Submission) {
	if s.storage == nil {
		return
	}
	if err := s.storage.RecordSubmission(submission); err != nil {
		logger.Error("journal: cannot record submission", zap.String("action type", submission.ActionType), zap.Error(err))
	}
}

func (s *Service) update(submission *storage.Submission) {
	if s.storage == nil || submission.ID == 0 {
		return
	}
	if err := s.storage.UpdateSubmission(submission); err != nil {
		logger.Error("journal: cannot update submission", zap.Int64("id", submission.ID), zap.Error(err))
	}
}

// History lists the latest journaled submissions, newest first.
func (s *Service) History(limit int) ([]*storage.Submission, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.GetSubmissions(limit)
}

// HistoryByRaffle lists the submissions that acted on raffleID, oldest first.
func (s *Service) HistoryByRaffle(raffleID uint64) ([]*storage.Submission, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.GetSubmissionsByRaffle(raffleID)
}

func (s *Service) Submission(id int64) (*storage.Submission, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: %d", storage.ErrSubmissionNotFound, id)
	}
	return s.storage.GetSubmission(id)
}

func (s *Service) Pending() ([]*storage.Submission, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.GetPendingSubmissions()
}
