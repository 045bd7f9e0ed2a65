// Package client implements a JSON-RPC state reader for ptb builders.
//
// The client talks to a fullnode over HTTP and satisfies ptb.StateReader,
// so it can be handed to ptb.WithStateReader to resolve intents such as
// CoinWithBalance at finish time. Transient transport failures are
// retried with exponential backoff before being reported.
package client

import (
	"fmt"

	"github.com/branched-services/go-ptb"
)

// Logger receives debug and warning output when Config.Debug is set.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

// Error is a typed client failure.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("client error [%d]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("client error [%d]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Error codes.
const (
	ErrCodeNetwork         = 1000
	ErrCodeTimeout         = 1001
	ErrCodeInvalidResponse = 1002
	ErrCodeRPCError        = 1003
)

func newNetworkError(err error) *Error {
	return &Error{Code: ErrCodeNetwork, Message: "network error", Err: err}
}

func newInvalidResponseError(message string, err error) *Error {
	return &Error{Code: ErrCodeInvalidResponse, Message: message, Err: err}
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	RPCCode int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error [%d]: %s", e.RPCCode, e.Message)
}

// Statically assert the client satisfies the builder's state-query
// contract.
var _ ptb.StateReader = (*Client)(nil)
