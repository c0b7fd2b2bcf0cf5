package adsbridge

import "context"

// Transport creates envelopes and executes them. Timeouts, TLS and socket
// level retries belong to the Transport.
type Transport interface {
	CreateRequest() *Request
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Logger is called around every execution with a level such as "debug".
type Logger interface {
	LogRequest(level string, req *Request)
	LogResponse(level string, resp *Response)
}

// NullLogger discards everything.
type NullLogger struct{}

func (NullLogger) LogRequest(string, *Request)   {}
func (NullLogger) LogResponse(string, *Response) {}

// RateLimitAware is implemented by transports that understand the provider's
// rate limit headers. The ResilientBridge consults it when present.
type RateLimitAware interface {
	ParseRateLimitInfo(resp *Response) (*NormalizedRateLimitInfo, error)
	IsRateLimitError(resp *Response) bool

	// SetRateLimitDefaults sets the limits assumed when a response carries no headers.
	SetRateLimitDefaults(maxRequests int, windowSecs int64)

	// IdentifyRequestType returns the bucket a request is counted against.
	IdentifyRequestType(req *Request) string
}
