package adsbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// RequestExecutor handles retry logic, backoff, and consulting the RateLimiter.
// Each attempt re-runs the operation, so a signed call gets a new nonce and
// timestamp every time.
type RequestExecutor struct {
	sdk *ResilientBridge
}

func NewRequestExecutor(sdk *ResilientBridge) *RequestExecutor {
	return &RequestExecutor{sdk: sdk}
}

// retryableResponse marks a response that should be retried: a 429 or a 5xx.
type retryableResponse struct {
	resp        *Response
	rateLimited bool
}

func (e *retryableResponse) Error() string {
	if e.rateLimited {
		return "rate limited (429)"
	}
	return fmt.Sprintf("server error %d", e.resp.StatusCode)
}

func isRetryable(err error) bool {
	var rr *retryableResponse
	var te *TransportError
	return errors.As(err, &rr) || errors.As(err, &te)
}

// ExecuteWithRetry runs operation until it succeeds, returns a non-retryable
// result, or MaxRetries is exhausted. 4xx responses other than rate limit
// errors are returned as-is. A 5xx still failing after the last retry is also
// returned as-is; a persistent 429 yields ErrRateLimitExceeded.
func (re *RequestExecutor) ExecuteWithRetry(ctx context.Context, account, bucket string, operation func() (*Response, error), limits RateLimitAware) (*Response, error) {
	config := re.sdk.config
	baseBackoff := config.BaseBackoff
	if baseBackoff == 0 {
		baseBackoff = time.Second
	}
	log := re.sdk.logger()
	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var last *Response
	attempts := 0
	err := retry.Do(
		func() error {
			if !re.sdk.rateLimiter.canProceed(account, bucket) {
				delay := re.sdk.rateLimiter.delayBeforeNextRequest(account, bucket)
				log.Debug().Str("account", account).Str("bucket", bucket).Dur("delay", delay).Msg("waiting for rate limit window")
				if err := sleepContext(ctx, delay); err != nil {
					return err
				}
			}

			attempts++
			log.Debug().Str("account", account).Int("attempt", attempts).Msg("sending request")
			resp, err := operation()
			if err != nil {
				return err
			}
			last = resp

			if limits != nil {
				if info, parseErr := limits.ParseRateLimitInfo(resp); parseErr == nil && info != nil {
					re.sdk.rateLimiter.UpdateRateLimits(account, bucket, info, config)
				}
				if limits.IsRateLimitError(resp) {
					return &retryableResponse{resp: resp, rateLimited: true}
				}
			}
			if resp.StatusCode >= 500 {
				return &retryableResponse{resp: resp}
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxRetries)+1),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			var rr *retryableResponse
			if errors.As(err, &rr) && rr.rateLimited {
				return re.waitForRateLimit(account, bucket, int(n), baseBackoff)
			}
			return re.calculateBackoff(baseBackoff, int(n))
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Str("account", account).Uint("attempt", n+1).Int("max_retries", maxRetries).Err(err).Msg("retrying")
		}),
	)
	if err == nil {
		if attempts > 1 {
			log.Debug().Str("account", account).Int("attempts", attempts).Msg("request succeeded after retries")
		}
		return last, nil
	}

	var rr *retryableResponse
	if errors.As(err, &rr) {
		if rr.rateLimited {
			log.Debug().Str("account", account).Msg("rate limit (429) persisted, giving up")
			return rr.resp, ErrRateLimitExceeded
		}
		return rr.resp, nil
	}
	return nil, err
}

func (re *RequestExecutor) waitForRateLimit(account, bucket string, attempt int, baseBackoff time.Duration) time.Duration {
	if delay := re.sdk.rateLimiter.delayBeforeNextRequest(account, bucket); delay > 0 {
		return delay
	}
	// No reset time known, fall back to exponential backoff.
	return re.calculateBackoff(baseBackoff, attempt)
}

func (re *RequestExecutor) calculateBackoff(base time.Duration, attempt int) time.Duration {
	maxBackoff := re.sdk.config.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = 30 * time.Second
	}
	if attempt > 30 {
		return maxBackoff
	}
	backoff := base * (1 << attempt) // base * 2^attempt
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	return backoff
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
