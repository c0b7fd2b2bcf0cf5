// sdk.go
// ------
// The sdk.go file contains the ResilientBridge struct and its methods, the
// entry point for callers that issue Ads API calls on behalf of several
// accounts.
//
// Key functionalities include:
// - Initializing the bridge with NewResilientBridge() around an Api
// - Registering accounts (sessions) with RegisterAccount()
// - Making calls via Request()
// - Retrieving the rate limit info observed per account and bucket
//
// The ResilientBridge relies on a RateLimiter and a RequestExecutor to handle
// rate limiting and retries. The Api it wraps stays free of retry policy.
package adsbridge

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultAccount is the name under which the wrapped Api's own session is registered.
const DefaultAccount = "default"

type ResilientBridge struct {
	mu          sync.Mutex
	api         *Api
	accounts    map[string]*Api
	config      *BridgeConfig
	rateLimiter *RateLimiter
	executor    *RequestExecutor

	log zerolog.Logger
}

// NewResilientBridge wraps api. A nil config selects DefaultBridgeConfig.
func NewResilientBridge(api *Api, config *BridgeConfig) *ResilientBridge {
	if config == nil {
		config = DefaultBridgeConfig()
	}
	sdk := &ResilientBridge{
		api:         api,
		accounts:    map[string]*Api{DefaultAccount: api},
		config:      config,
		rateLimiter: NewRateLimiter(),
		log:         zerolog.Nop(),
	}
	sdk.executor = NewRequestExecutor(sdk)

	if limits, ok := api.Transport().(RateLimitAware); ok {
		var maxRequests int
		var windowSecs int64
		if config.MaxRequestsOverride != nil {
			maxRequests = *config.MaxRequestsOverride
		}
		if config.WindowSecsOverride != nil {
			windowSecs = *config.WindowSecsOverride
		}
		limits.SetRateLimitDefaults(maxRequests, windowSecs)
	}
	return sdk
}

// SetDebug enables or disables debug logging to stderr.
func (sdk *ResilientBridge) SetDebug(enabled bool) {
	if enabled {
		sdk.SetLogger(zerolog.New(os.Stderr).With().Timestamp().Str("component", "adsbridge").Logger())
		return
	}
	sdk.SetLogger(zerolog.Nop())
}

func (sdk *ResilientBridge) SetLogger(l zerolog.Logger) {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	sdk.log = l
}

func (sdk *ResilientBridge) logger() zerolog.Logger {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	return sdk.log
}

// RegisterAccount binds name to a copy of the wrapped Api signing with session.
func (sdk *ResilientBridge) RegisterAccount(name string, session *Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	sdk.accounts[name] = sdk.api.CopyWithSession(session)
	sdk.log.Debug().Str("account", name).Msg("registered account")
	return nil
}

// Request issues a signed call for the named account through the rate limiter
// and retry executor.
func (sdk *ResilientBridge) Request(ctx context.Context, account, path, method string, params map[string]string, fileParams map[string][]byte) (*Response, error) {
	sdk.mu.Lock()
	api, ok := sdk.accounts[account]
	sdk.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotRegistered, account)
	}

	limits, _ := api.Transport().(RateLimitAware)
	bucket := path
	if limits != nil {
		req := api.Transport().CreateRequest()
		req.Method = method
		req.Path = path
		bucket = limits.IdentifyRequestType(req)
	}

	log := sdk.logger()
	log.Debug().Str("account", account).Str("bucket", bucket).Str("path", path).Msg("requesting")
	return sdk.executor.ExecuteWithRetry(ctx, account, bucket, func() (*Response, error) {
		return api.Call(ctx, path, method, params, fileParams)
	}, limits)
}

// GetRateLimitInfo returns the last known rate limit info for account and bucket.
func (sdk *ResilientBridge) GetRateLimitInfo(account, bucket string) *NormalizedRateLimitInfo {
	return sdk.rateLimiter.GetRateLimitInfo(account, bucket)
}
