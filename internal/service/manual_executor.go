package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"starkraffle/internal/blockchain"
	"starkraffle/internal/codec"
	"starkraffle/internal/raffle"
)

var ErrNoTransactionHash = errors.New("no transaction hash entered")

// TransactionWaiter is implemented by *blockchain.Client.
type TransactionWaiter interface {
	WaitForTransaction(ctx context.Context, transactionHash string, pollInterval time.Duration) error
}

var _ TransactionWaiter = (*blockchain.Client)(nil)

// ManualExecutor hands each batch to an external signer: it prints the batch
// as JSON, reads back the hash of the transaction the signer sent and follows
// that transaction on the node.
type ManualExecutor struct {
	in            *bufio.Reader
	lines         chan readResult
	readOnce      sync.Once
	out           io.Writer
	waiter        TransactionWaiter
	pollInterval  time.Duration
	explorerTxURL string
}

var _ Executor = (*ManualExecutor)(nil)

func NewManualExecutor(in io.Reader, out io.Writer, waiter TransactionWaiter, pollInterval time.Duration, explorerTxURL string) *ManualExecutor {
	return &ManualExecutor{
		in:            bufio.NewReader(in),
		lines:         make(chan readResult, 1),
		out:           out,
		waiter:        waiter,
		pollInterval:  pollInterval,
		explorerTxURL: explorerTxURL,
	}
}

func (e *ManualExecutor) Execute(ctx context.Context, calls []blockchain.Call) (Handle, error) {
	encoded, err := json.MarshalIndent(calls, "", "  ")
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(e.out, "%s\nsign and send the batch above, then enter the transaction hash: ", encoded); err != nil {
		return nil, err
	}

	line, err := e.readLine(ctx)
	if err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrNoTransactionHash
	}

	hash, err := codec.ParseAddress(line)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction hash: %w", raffle.ErrInvalidInput, err)
	}

	transactionHash := codec.FormatFelt(hash)
	return &transactionHandle{
		transactionHash: transactionHash,
		explorerURL:     blockchain.ExplorerTxURL(e.explorerTxURL, transactionHash),
		waiter:          e.waiter,
		pollInterval:    e.pollInterval,
	}, nil
}

type readResult struct {
	line string
	err  error
}

// readLine returns the next input line, or ctx.Err() once ctx is done. A
// single goroutine owns the reader, so a line typed after a cancelled prompt
// answers the next one.
func (e *ManualExecutor) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.readOnce.Do(func() {
		go e.readLines()
	})

	select {
	case result := <-e.lines:
		return result.line, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *ManualExecutor) readLines() {
	for {
		line, err := e.in.ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		e.lines <- readResult{line: line, err: err}
		if err != nil || line == "" {
			close(e.lines)
			return
		}
	}
}

type transactionHandle struct {
	transactionHash string
	explorerURL     string
	waiter          TransactionWaiter
	pollInterval    time.Duration
}

func (h *transactionHandle) Wait(ctx context.Context) error {
	return h.waiter.WaitForTransaction(ctx, h.transactionHash, h.pollInterval)
}

func (h *transactionHandle) TransactionHash() string {
	return h.transactionHash
}

func (h *transactionHandle) ExplorerURL() string {
	return h.explorerURL
}
