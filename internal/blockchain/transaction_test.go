package blockchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// statusNode answers successive starknet_getTransactionStatus requests with
// the next scripted response, repeating the last one.
type statusNode struct {
	mu        sync.Mutex
	responses []map[string]any
	requests  int
}

func (n *statusNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var request rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	next := n.responses[min(n.requests, len(n.responses)-1)]
	n.requests++
	n.mu.Unlock()

	response := map[string]any{"jsonrpc": "2.0", "id": request.ID}
	for key, value := range next {
		response[key] = value
	}
	_ = json.NewEncoder(w).Encode(response)
}

func result(finality, execution string) map[string]any {
	status := map[string]any{"finality_status": finality}
	if execution != "" {
		status["execution_status"] = execution
	}
	return map[string]any{"result": status}
}

var notFound = map[string]any{"error": map[string]any{"code": 29, "message": "Transaction hash not found"}}

func TestTransactionStatus(t *testing.T) {
	node := &statusNode{responses: []map[string]any{result(FinalityAcceptedOnL2, ExecutionSucceeded)}}
	server := httptest.NewServer(node)
	defer server.Close()

	status, err := NewClient(server.URL).TransactionStatus(context.Background(), "0x1")
	require.NoError(t, err)
	require.True(t, status.Accepted())
	require.Equal(t, ExecutionSucceeded, status.ExecutionStatus)
}

func TestTransactionStatusNotFound(t *testing.T) {
	node := &statusNode{responses: []map[string]any{notFound}}
	server := httptest.NewServer(node)
	defer server.Close()

	_, err := NewClient(server.URL).TransactionStatus(context.Background(), "0x1")
	require.ErrorIs(t, err, ErrTransactionNotFound)
	require.NotErrorIs(t, err, ErrTransport)
}

func TestWaitForTransaction(t *testing.T) {
	tests := []struct {
		name        string
		responses   []map[string]any
		expectedErr error
		requests    int
	}{
		{
			name: "accepted after polling",
			responses: []map[string]any{
				notFound,
				result(FinalityReceived, ""),
				result(FinalityAcceptedOnL2, ExecutionSucceeded),
			},
			requests: 3,
		},
		{
			name:        "reverted",
			responses:   []map[string]any{result(FinalityAcceptedOnL2, ExecutionReverted)},
			expectedErr: ErrTransactionReverted,
			requests:    1,
		},
		{
			name:        "rejected",
			responses:   []map[string]any{result(FinalityRejected, "")},
			expectedErr: ErrTransactionRejected,
			requests:    1,
		},
		{
			name:        "node failure",
			responses:   []map[string]any{{"error": map[string]any{"code": -32603, "message": "Internal error"}}},
			expectedErr: ErrTransport,
			requests:    1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node := &statusNode{responses: test.responses}
			server := httptest.NewServer(node)
			defer server.Close()

			err := NewClient(server.URL).WaitForTransaction(context.Background(), "0xfeed", time.Millisecond)
			if test.expectedErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, test.expectedErr)
			}
			require.Equal(t, test.requests, node.requests)
		})
	}
}

func TestWaitForTransactionCancelled(t *testing.T) {
	node := &statusNode{responses: []map[string]any{result(FinalityReceived, "")}}
	server := httptest.NewServer(node)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewClient(server.URL).WaitForTransaction(ctx, "0xfeed", 5*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
