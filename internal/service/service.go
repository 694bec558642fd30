package service

import (
	"context"
	"errors"
	"time"

	"starkraffle/internal/blockchain"
	"starkraffle/internal/raffle"
	"starkraffle/internal/storage"
)

var (
	// ErrNotAllowed means the viewer may not take the action on the raffle in
	// its current state.
	ErrNotAllowed       = errors.New("action not allowed")
	ErrNoExecutor       = errors.New("no executor configured")
	ErrContractMismatch = errors.New("contract mismatch")
)

// Executor submits an ordered call batch as one atomic transaction, typically
// through a wallet that owns the signing key.
type Executor interface {
	Execute(ctx context.Context, calls []blockchain.Call) (Handle, error)
}

// Handle tracks one submitted transaction.
type Handle interface {
	Wait(ctx context.Context) error
	TransactionHash() string
	// ExplorerURL may be empty when the executor knows no explorer.
	ExplorerURL() string
}

// ChainInfo identifies the network a node serves. *blockchain.Client
// implements it.
type ChainInfo interface {
	ChainID(ctx context.Context) (string, error)
}

var _ ChainInfo = (*blockchain.Client)(nil)

type Service struct {
	reader    *raffle.Reader
	builder   *raffle.Builder
	contracts raffle.Contracts

	executor Executor
	storage  storage.Storage
	chain    ChainInfo

	expectedChainID string
	explorerTxURL   string
	shareURL        string
	now             func() time.Time
}

type Option func(*Service)

func WithExecutor(executor Executor) Option {
	return func(s *Service) {
		s.executor = executor
	}
}

// WithStorage journals every submitted batch.
func WithStorage(storage storage.Storage) Option {
	return func(s *Service) {
		s.storage = storage
	}
}

// WithChain lets Verify check that the node serves chainID.
func WithChain(chain ChainInfo, chainID string) Option {
	return func(s *Service) {
		s.chain = chain
		s.expectedChainID = chainID
	}
}

// WithExplorer sets the transaction page prefix used when an executor does
// not report an explorer URL itself.
func WithExplorer(txURLPrefix string) Option {
	return func(s *Service) {
		s.explorerTxURL = txURLPrefix
	}
}

// WithShareURL sets the page raffle share links point to; the raffle id is
// passed as the raffle query parameter.
func WithShareURL(shareURL string) Option {
	return func(s *Service) {
		s.shareURL = shareURL
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(reader *raffle.Reader, contracts raffle.Contracts, options ...Option) *Service {
	service := &Service{
		reader:    reader,
		builder:   raffle.NewBuilder(contracts),
		contracts: contracts,
		now:       time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}
