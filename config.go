// config.go
// ----------
// This file defines BridgeConfig, which allows customization of how the
// ResilientBridge treats rate limits and retries: whether to trust the
// provider's rate limit headers or apply overrides, how many times to retry,
// and the base duration for exponential backoff.
package adsbridge

import "time"

// BridgeConfig allows customization of rate limits, retries, and backoff.
type BridgeConfig struct {
	UseProviderLimits   bool
	MaxRequestsOverride *int   // Override the provider's max requests if set
	WindowSecsOverride  *int64 // Override the provider's window if set

	MaxRetries  int           // Max number of retries on failure
	BaseBackoff time.Duration // Initial backoff duration for exponential backoff
	MaxBackoff  time.Duration // Cap on a single backoff, 30s when zero
}

// DefaultBridgeConfig is used when NewResilientBridge receives nil.
func DefaultBridgeConfig() *BridgeConfig {
	return &BridgeConfig{
		UseProviderLimits: true,
		MaxRetries:        3,
		BaseBackoff:       time.Second,
		MaxBackoff:        30 * time.Second,
	}
}
