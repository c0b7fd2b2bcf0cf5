// rate_limiter.go
// ----------------
// This file defines the RateLimiter type, which stores rate limit information
// per account and request bucket. It consumes the NormalizedRateLimitInfo
// parsed by a RateLimitAware transport to decide whether a request can go out
// now or must wait until the window resets.
//
// Responsibilities:
// - Storing rate limit info keyed by "account:bucket".
// - Checking if requests can proceed based on RemainingRequests and ResetRequestsAt.
// - Calculating the delay before the next allowed request.
// - Applying BridgeConfig overrides when UseProviderLimits is false.
package adsbridge

import (
	"sync"
	"time"

	"github.com/opengovern/adsbridge/internal"
)

type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*NormalizedRateLimitInfo
	now    func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*NormalizedRateLimitInfo),
		now:    time.Now,
	}
}

func limitKey(account, bucket string) string {
	return account + ":" + bucket
}

// UpdateRateLimits stores info for account and bucket, applying overrides
// from config if UseProviderLimits is false.
func (r *RateLimiter) UpdateRateLimits(account, bucket string, info *NormalizedRateLimitInfo, config *BridgeConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info != nil && config != nil && !config.UseProviderLimits {
		if config.MaxRequestsOverride != nil {
			info.MaxRequests = config.MaxRequestsOverride
			if info.RemainingRequests == nil || *info.RemainingRequests > *info.MaxRequests {
				newRem := *info.MaxRequests
				info.RemainingRequests = &newRem
			}
		}
		if config.WindowSecsOverride != nil && info.RemainingRequests != nil && *info.RemainingRequests <= 0 && info.ResetRequestsAt == nil {
			resetAt := r.now().UnixMilli() + internal.UnixToMs(*config.WindowSecsOverride)
			info.ResetRequestsAt = &resetAt
		}
	}

	r.limits[limitKey(account, bucket)] = info
}

// canProceed returns false if the limit is exhausted and its reset time is still ahead.
func (r *RateLimiter) canProceed(account, bucket string) bool {
	return r.delayBeforeNextRequest(account, bucket) == 0
}

// delayBeforeNextRequest returns how long to wait before the next request, if at all.
func (r *RateLimiter) delayBeforeNextRequest(account, bucket string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.limits[limitKey(account, bucket)]
	if !ok || info == nil {
		return 0
	}

	if info.RemainingRequests != nil && *info.RemainingRequests <= 0 && info.ResetRequestsAt != nil {
		nowMs := r.now().UnixMilli()
		if internal.IsAfter(*info.ResetRequestsAt, nowMs) {
			return time.Duration(*info.ResetRequestsAt-nowMs) * time.Millisecond
		}
	}
	return 0
}

// GetRateLimitInfo returns a copy of the info for account and bucket, or nil.
func (r *RateLimiter) GetRateLimitInfo(account, bucket string) *NormalizedRateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.limits[limitKey(account, bucket)]; ok && info != nil {
		copyInfo := *info
		return &copyInfo
	}
	return nil
}
