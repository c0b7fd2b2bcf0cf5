package mock

import (
	"context"
	"sync"
	"time"

	"github.com/opengovern/adsbridge"
)

const (
	MockDefaultHost        = "https://ads-api.twitter.com"
	MockDefaultMaxRequests = 100
	MockDefaultWindowSecs  = 60
)

// MockAdapter is an in-memory Transport that records every executed request.
type MockAdapter struct {
	Host string

	RequestsUntilRateLimit int  // How many requests until we hit a limit
	ShouldReturn429Always  bool // If true, always return 429

	// FailTimes makes the first N executions fail with Err (or a 503 response when Err is nil).
	FailTimes int
	Err       error

	// Response, if set, is returned for successful executions.
	Response *adsbridge.Response

	MaxRequests int
	WindowSecs  int64

	mu                  sync.Mutex
	currentRequestCount int
	requests            []*adsbridge.Request
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		Host:        MockDefaultHost,
		MaxRequests: MockDefaultMaxRequests,
		WindowSecs:  MockDefaultWindowSecs,
	}
}

func (m *MockAdapter) CreateRequest() *adsbridge.Request {
	host := m.Host
	if host == "" {
		host = MockDefaultHost
	}
	return adsbridge.NewRequest(host)
}

func (m *MockAdapter) SetRateLimitDefaults(maxRequests int, windowSecs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if maxRequests == 0 {
		maxRequests = MockDefaultMaxRequests
	}
	if windowSecs == 0 {
		windowSecs = MockDefaultWindowSecs
	}
	m.MaxRequests = maxRequests
	m.WindowSecs = windowSecs
}

func (m *MockAdapter) IdentifyRequestType(req *adsbridge.Request) string {
	return req.Path
}

func (m *MockAdapter) Execute(_ context.Context, req *adsbridge.Request) (*adsbridge.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentRequestCount++
	m.requests = append(m.requests, req)

	if m.currentRequestCount <= m.FailTimes {
		if m.Err != nil {
			return nil, m.Err
		}
		return &adsbridge.Response{
			StatusCode: 503,
			Headers:    map[string]string{},
			Data:       []byte(`{"error":"Service unavailable"}`),
		}, nil
	}

	if m.ShouldReturn429Always || (m.RequestsUntilRateLimit > 0 && m.currentRequestCount > m.RequestsUntilRateLimit) {
		return &adsbridge.Response{
			StatusCode: 429,
			Headers:    map[string]string{},
			Data:       []byte(`{"error":"Rate limited"}`),
		}, nil
	}

	if m.Response != nil {
		return m.Response, nil
	}
	return &adsbridge.Response{
		StatusCode: 200,
		Headers:    map[string]string{"content-type": "application/json"},
		Data:       []byte(`{"success":true}`),
	}, nil
}

func (m *MockAdapter) ParseRateLimitInfo(resp *adsbridge.Response) (*adsbridge.NormalizedRateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.MaxRequests - m.currentRequestCount
	if remaining < 0 {
		remaining = 0
	}
	var resetAt *int64
	if remaining == 0 {
		future := (time.Now().Unix() + m.WindowSecs) * 1000
		resetAt = &future
	}
	return &adsbridge.NormalizedRateLimitInfo{
		MaxRequests:       intPtr(m.MaxRequests),
		RemainingRequests: intPtr(remaining),
		ResetRequestsAt:   resetAt,
	}, nil
}

func (m *MockAdapter) IsRateLimitError(resp *adsbridge.Response) bool {
	return resp.StatusCode == 429
}

// Requests returns the requests executed so far.
func (m *MockAdapter) Requests() []*adsbridge.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*adsbridge.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (m *MockAdapter) LastRequest() *adsbridge.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func intPtr(i int) *int {
	return &i
}
