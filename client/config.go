package client

import (
	"net/http"
	"time"
)

// Config controls how the client connects to a fullnode.
type Config struct {
	// Endpoint is the fullnode JSON-RPC URL.
	Endpoint string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Retry controls transient-failure retries; nil uses DefaultRetryConfig.
	Retry *RetryConfig

	// HTTPClient overrides the underlying transport; nil builds one from
	// Timeout.
	HTTPClient *http.Client

	// Logger receives debug output when Debug is set.
	Logger Logger

	// Debug enables request/response logging through Logger.
	Debug bool
}

// DefaultConfig returns a config for a local fullnode.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "http://127.0.0.1:9000",
		Timeout:  30 * time.Second,
		Retry:    DefaultRetryConfig(),
	}
}
