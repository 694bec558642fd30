package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"starkraffle/internal/logger"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionRejected = errors.New("transaction rejected")
	ErrTransactionReverted = errors.New("transaction reverted")
)

const defaultPollInterval = 3 * time.Second

// Finality and execution states reported by starknet_getTransactionStatus.
const (
	FinalityReceived     = "RECEIVED"
	FinalityRejected     = "REJECTED"
	FinalityAcceptedOnL2 = "ACCEPTED_ON_L2"
	FinalityAcceptedOnL1 = "ACCEPTED_ON_L1"

	ExecutionSucceeded = "SUCCEEDED"
	ExecutionReverted  = "REVERTED"
)

type TransactionStatus struct {
	FinalityStatus  string `json:"finality_status"`
	ExecutionStatus string `json:"execution_status,omitempty"`
	FailureReason   string `json:"failure_reason,omitempty"`
}

func (s TransactionStatus) Accepted() bool {
	return s.FinalityStatus == FinalityAcceptedOnL2 || s.FinalityStatus == FinalityAcceptedOnL1
}

type transactionHashParams struct {
	TransactionHash string `json:"transaction_hash"`
}

func (c *Client) TransactionStatus(ctx context.Context, transactionHash string) (*TransactionStatus, error) {
	var reply TransactionStatus
	err := c.send(ctx, "starknet_getTransactionStatus", transactionHashParams{TransactionHash: transactionHash}, &reply)
	if err != nil {
		return nil, fmt.Errorf("transaction %s status: %w", transactionHash, err)
	}
	return &reply, nil
}

// WaitForTransaction polls the node until the transaction is accepted or has
// failed. A transaction the node does not know yet is polled again; any other
// read failure ends the wait.
func (c *Client) WaitForTransaction(ctx context.Context, transactionHash string, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.TransactionStatus(ctx, transactionHash)
		switch {
		case errors.Is(err, ErrTransactionNotFound):
			logger.Debug("wait for transaction: not known yet", zap.String("transaction hash", transactionHash))
		case err != nil:
			return err
		case status.FinalityStatus == FinalityRejected:
			return fmt.Errorf("transaction %s: %w: %s", transactionHash, ErrTransactionRejected, status.FailureReason)
		case status.ExecutionStatus == ExecutionReverted:
			return fmt.Errorf("transaction %s: %w: %s", transactionHash, ErrTransactionReverted, status.FailureReason)
		case status.Accepted():
			logger.Debug("wait for transaction: accepted", zap.String("transaction hash", transactionHash), zap.String("finality", status.FinalityStatus))
			return nil
		default:
			logger.Debug("wait for transaction: pending", zap.String("transaction hash", transactionHash), zap.String("finality", status.FinalityStatus))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
