package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/branched-services/go-ptb"
)

// Client is an HTTP JSON-RPC client implementing ptb.StateReader.
// It is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	retry    *RetryConfig
	logger   Logger
	debug    bool
	nextID   atomic.Uint64
}

// New creates a client from config. A nil config uses DefaultConfig.
func New(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	httpCli := config.HTTPClient
	if httpCli == nil {
		httpCli = &http.Client{Timeout: config.Timeout}
	}
	retry := config.Retry
	if retry == nil {
		retry = DefaultRetryConfig()
	}
	return &Client{
		endpoint: config.Endpoint,
		http:     httpCli,
		retry:    retry,
		logger:   config.Logger,
		debug:    config.Debug,
	}
}

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      uint64 `json:"id"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      uint64          `json:"id"`
}

// Call invokes a JSON-RPC method and unmarshals its result into out.
// Transient transport failures are retried per the configured policy.
func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	req := &jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}
	reqBody, err := json.Marshal(req)
	if err != nil {
		return newInvalidResponseError("marshal request", err)
	}
	if c.debug && c.logger != nil {
		c.logger.Debug("json-rpc request", "method", method, "body", string(reqBody))
	}

	var respBody []byte
	err = withRetry(ctx, c.retry, func() error {
		// A fresh request per attempt: the body reader is consumed on use.
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if isRetryableHTTPStatus(resp.StatusCode) {
			return &retryableStatusError{status: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return &Error{Code: ErrCodeInvalidResponse, Message: fmt.Sprintf("http status %d", resp.StatusCode)}
		}
		respBody, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		var statusErr *retryableStatusError
		if errors.As(err, &statusErr) {
			return &Error{Code: ErrCodeNetwork, Message: fmt.Sprintf("http status %d", statusErr.status)}
		}
		return newNetworkError(err)
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return newInvalidResponseError("decode response", err)
	}
	if rpcResp.Error != nil {
		return &Error{Code: ErrCodeRPCError, Message: "rpc error", Err: rpcResp.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return newInvalidResponseError("decode result", err)
	}
	return nil
}

// retryableStatusError marks retryable HTTP statuses inside the retry loop.
type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("http status %d", e.status)
}

// coinPage is one page of a suix_getCoins response.
type coinPage struct {
	Data []struct {
		CoinType     string `json:"coinType"`
		CoinObjectID string `json:"coinObjectId"`
		Version      string `json:"version"`
		Digest       string `json:"digest"`
		Balance      string `json:"balance"`
	} `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// GetCoins lists coins of coinType owned by owner, following pagination.
func (c *Client) GetCoins(ctx context.Context, owner ptb.Address, coinType string) ([]ptb.Coin, error) {
	var (
		coins  []ptb.Coin
		cursor *string
	)
	for {
		var page coinPage
		params := []any{owner.Hex(), coinType, cursor, nil}
		if err := c.Call(ctx, "suix_getCoins", params, &page); err != nil {
			return nil, err
		}
		for _, raw := range page.Data {
			coin, err := convertCoin(raw.CoinObjectID, raw.Version, raw.Digest, raw.Balance, raw.CoinType)
			if err != nil {
				return nil, err
			}
			coins = append(coins, coin)
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return coins, nil
		}
		cursor = page.NextCursor
	}
}

func convertCoin(id, version, digest, balance, coinType string) (ptb.Coin, error) {
	ref, err := convertRef(id, version, digest)
	if err != nil {
		return ptb.Coin{}, err
	}
	bal, err := strconv.ParseUint(balance, 10, 64)
	if err != nil {
		return ptb.Coin{}, newInvalidResponseError("coin balance", err)
	}
	return ptb.Coin{Ref: ref, Type: coinType, Balance: bal}, nil
}

func convertRef(id, version, digest string) (ptb.ObjectRef, error) {
	addr, err := ptb.AddressFromHex(id)
	if err != nil {
		return ptb.ObjectRef{}, newInvalidResponseError("object id", err)
	}
	ver, err := strconv.ParseUint(version, 10, 64)
	if err != nil {
		return ptb.ObjectRef{}, newInvalidResponseError("object version", err)
	}
	dig, err := ptb.DigestFromBase58(digest)
	if err != nil {
		return ptb.ObjectRef{}, newInvalidResponseError("object digest", err)
	}
	return ptb.ObjectRef{ID: addr, Version: ver, Digest: dig}, nil
}

// objectResponse is the shape of a sui_getObject result.
type objectResponse struct {
	Data *struct {
		ObjectID string `json:"objectId"`
		Version  string `json:"version"`
		Digest   string `json:"digest"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

// GetObject returns the latest pinned reference for an object.
func (c *Client) GetObject(ctx context.Context, id ptb.Address) (ptb.ObjectRef, error) {
	var resp objectResponse
	params := []any{id.Hex(), map[string]bool{}}
	if err := c.Call(ctx, "sui_getObject", params, &resp); err != nil {
		return ptb.ObjectRef{}, err
	}
	if resp.Data == nil {
		code := "notExists"
		if resp.Error != nil {
			code = resp.Error.Code
		}
		return ptb.ObjectRef{}, &Error{
			Code:    ErrCodeRPCError,
			Message: fmt.Sprintf("object %s: %s", id, code),
		}
	}
	return convertRef(resp.Data.ObjectID, resp.Data.Version, resp.Data.Digest)
}

// ReferenceGasPrice returns the current epoch's reference gas price.
func (c *Client) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price string
	if err := c.Call(ctx, "suix_getReferenceGasPrice", []any{}, &price); err != nil {
		return 0, err
	}
	value, err := strconv.ParseUint(price, 10, 64)
	if err != nil {
		return 0, newInvalidResponseError("gas price", err)
	}
	return value, nil
}
