package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"starkraffle/internal/codec"
	"starkraffle/internal/logger"
	"starkraffle/internal/raffle"
)

// RaffleView is a raffle with the values derived for display at one instant.
type RaffleView struct {
	*raffle.Raffle
	Status        raffle.Status `json:"status"`
	StatusLabel   string        `json:"statusLabel"`
	TimeRemaining string        `json:"timeRemaining"`
	Progress      int           `json:"progress"`
	PriceLabel    string        `json:"priceLabel"`
	CreatorLabel  string        `json:"creatorLabel"`
}

// DetailView adds what a given viewer may do with the raffle.
type DetailView struct {
	RaffleView
	ShareURL    string `json:"shareUrl,omitempty"`
	WinnerLabel string `json:"winnerLabel,omitempty"`

	Viewer    string `json:"viewer,omitempty"`
	IsCreator bool   `json:"isCreator"`
	IsWinner  bool   `json:"isWinner"`
	HasTicket bool   `json:"hasTicket"`
	CanBuy    bool   `json:"canBuy"`
	CanDraw   bool   `json:"canDraw"`
	CanClaim  bool   `json:"canClaim"`
}

func (s *Service) view(r *raffle.Raffle, now time.Time) RaffleView {
	status := raffle.DeriveStatus(r, now)
	return RaffleView{
		Raffle:        r,
		Status:        status,
		StatusLabel:   status.Label(),
		TimeRemaining: raffle.TimeRemaining(r.EndTime, now.UnixMilli()),
		Progress:      r.Progress(),
		PriceLabel:    s.contracts.Token.Label(r.TicketPrice),
		CreatorLabel:  raffle.Truncate(r.Creator, 6),
	}
}

// List reads every raffle and orders it for display: active first, then
// ended, then drawn, newest first within each.
func (s *Service) List(ctx context.Context) ([]RaffleView, error) {
	raffles, err := s.reader.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sorted := raffle.SortForDisplay(raffles, now)
	views := make([]RaffleView, len(sorted))
	for i, r := range sorted {
		views[i] = s.view(r, now)
	}
	return views, nil
}

// Detail reads one raffle fresh from the chain. viewer may be empty for an
// anonymous view, in which case no action is allowed.
func (s *Service) Detail(ctx context.Context, id uint64, viewer string) (*DetailView, error) {
	r, err := s.reader.FetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(r, viewer), nil
}

func (s *Service) detail(r *raffle.Raffle, viewer string) *DetailView {
	now := s.now()
	detail := &DetailView{
		RaffleView: s.view(r, now),
		ShareURL:   s.ShareLink(r.ID),
	}
	if r.Winner != nil {
		detail.WinnerLabel = raffle.Truncate(*r.Winner, 8)
	}
	if viewer == "" {
		return detail
	}

	if canonical, err := codec.CanonicalAddress(viewer); err == nil {
		viewer = canonical
	}
	detail.Viewer = viewer
	detail.IsCreator = r.IsCreator(viewer)
	detail.IsWinner = r.IsWinner(viewer)
	detail.HasTicket = r.HasTicket(viewer)
	detail.CanBuy = r.CanBuy(viewer, now)
	detail.CanDraw = r.CanDraw(viewer, now)
	detail.CanClaim = r.CanClaim(viewer)
	return detail
}

// ShareLink returns the deep link for raffle id, or "" without a share URL.
func (s *Service) ShareLink(id uint64) string {
	if s.shareURL == "" {
		return ""
	}
	link, err := url.Parse(s.shareURL)
	if err != nil {
		logger.Warn("share link: invalid share url", zap.String("share url", s.shareURL), zap.Error(err))
		return ""
	}
	query := link.Query()
	query.Set("raffle", strconv.FormatUint(id, 10))
	link.RawQuery = query.Encode()
	return link.String()
}

// Balance returns owner's token balance with the token symbol.
func (s *Service) Balance(ctx context.Context, owner string) (string, error) {
	balance, err := s.reader.FetchBalance(ctx, owner)
	if err != nil {
		return "", err
	}
	return s.contracts.Token.Label(balance), nil
}

// Verify checks that the configured node and contracts are the ones this
// service expects: the chain id, a readable raffle count and the token the
// raffle contract charges in.
func (s *Service) Verify(ctx context.Context) error {
	logger.Debug("verify raffle contract: verifying...", zap.String("raffle address", s.contracts.Raffle))

	if s.chain != nil && s.expectedChainID != "" {
		chainID, err := s.chain.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("verify raffle contract: %w", err)
		}
		if chainID != s.expectedChainID {
			return fmt.Errorf("verify raffle contract: %w: node serves %s, expected %s", ErrContractMismatch, chainID, s.expectedChainID)
		}
		logger.Debug("verify raffle contract: chain", zap.String("chain id", chainID))
	}

	count, err := s.reader.FetchCount(ctx)
	if err != nil {
		return fmt.Errorf("verify raffle contract: %w", err)
	}
	logger.Debug("verify raffle contract: raffle count", zap.Uint64("count", count))

	tokenAddress, err := s.reader.FetchTokenAddress(ctx)
	if err != nil {
		return fmt.Errorf("verify raffle contract: %w", err)
	}
	if !codec.SameAddress(tokenAddress, s.contracts.Token.Address) {
		return fmt.Errorf("verify raffle contract: %w: contract charges in %s, configured token is %s", ErrContractMismatch, tokenAddress, s.contracts.Token.Address)
	}

	logger.Debug("verify raffle contract: verifying... done")
	return nil
}
