package blockchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	rpc "github.com/gorilla/rpc/v2/json2"
	"go.uber.org/zap"

	"starkraffle/internal/codec"
	"starkraffle/internal/logger"
)

var (
	// ErrTransport covers everything between us and a node answer: network
	// failures, bad status codes, undecodable responses and node-side errors
	// unrelated to the called contract.
	ErrTransport = errors.New("chain transport error")
	// ErrContractError means the node executed the call and the contract
	// rejected it.
	ErrContractError = errors.New("contract rejected call")
)

// Starknet JSON-RPC error codes that mean the call itself was refused by the
// contract rather than by the node.
const (
	codeInvalidMessageSelector rpc.ErrorCode = 21
	codeInvalidCallData        rpc.ErrorCode = 22
	codeContractError          rpc.ErrorCode = 40

	codeTransactionHashNotFound rpc.ErrorCode = 29
)

const defaultTimeout = 15 * time.Second

type Client struct {
	url        string
	blockID    string
	httpClient *http.Client
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBlockID pins reads to a block tag ("latest", "pending").
func WithBlockID(blockID string) Option {
	return func(c *Client) {
		c.blockID = blockID
	}
}

func NewClient(url string, options ...Option) *Client {
	client := &Client{
		url:        url,
		blockID:    "latest",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

type callParams struct {
	Request FunctionCall `json:"request"`
	BlockID string       `json:"block_id"`
}

// Call runs a read-only entrypoint and returns the raw result felts.
func (c *Client) Call(ctx context.Context, contractAddress, entrypoint string, calldata []*big.Int) ([]*big.Int, error) {
	serialized := make([]string, len(calldata))
	for i, word := range calldata {
		serialized[i] = codec.FormatFelt(word)
	}

	params := callParams{
		Request: FunctionCall{
			ContractAddress:    contractAddress,
			EntryPointSelector: codec.FormatFelt(Selector(entrypoint)),
			Calldata:           serialized,
		},
		BlockID: c.blockID,
	}

	var reply []string
	if err := c.send(ctx, "starknet_call", params, &reply); err != nil {
		return nil, fmt.Errorf("call %s: %w", entrypoint, err)
	}

	result := make([]*big.Int, len(reply))
	for i, word := range reply {
		value, err := codec.ParseFelt(word)
		if err != nil {
			return nil, fmt.Errorf("call %s: result word %d: %w: %w", entrypoint, i, ErrTransport, err)
		}
		result[i] = value
	}

	logger.Debug("starknet call", zap.String("contract", contractAddress), zap.String("entrypoint", entrypoint), zap.Int("result words", len(result)))
	return result, nil
}

// ChainID returns the node's chain identifier decoded from its short string
// form, e.g. "SN_SEPOLIA".
func (c *Client) ChainID(ctx context.Context) (string, error) {
	var reply string
	if err := c.send(ctx, "starknet_chainId", []any{}, &reply); err != nil {
		return "", fmt.Errorf("chain id: %w", err)
	}

	value, err := codec.ParseFelt(reply)
	if err != nil {
		return "", fmt.Errorf("chain id: %w: %w", ErrTransport, err)
	}
	return codec.DecodeShortString(value), nil
}

func (c *Client) send(ctx context.Context, method string, params any, reply any) error {
	requestBody, err := rpc.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s request: %w", ErrTransport, method, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: failed to issue request: %w", ErrTransport, err)
	}
	defer cleanlyCloseBody(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("%w: received status code %d", ErrTransport, response.StatusCode)
	}

	if err := rpc.DecodeClientResponse(response.Body, reply); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var rpcErr *rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeContractError, codeInvalidMessageSelector, codeInvalidCallData:
			return fmt.Errorf("%w: %s (%v)", ErrContractError, rpcErr.Message, rpcErr.Data)
		case codeTransactionHashNotFound:
			return fmt.Errorf("%w: %s", ErrTransactionNotFound, rpcErr.Message)
		}
		return fmt.Errorf("%w: node error %d: %s", ErrTransport, rpcErr.Code, rpcErr.Message)
	}
	return fmt.Errorf("%w: failed to decode response: %w", ErrTransport, err)
}

// cleanlyCloseBody drains the body so the connection can be reused.
func cleanlyCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
