// twitterads_adapter.go
// ---------------------
// This adapter is the HTTP Transport for the Ads API. It turns a signed
// adsbridge.Request into an HTTP request and normalizes the response.
//
// Key Points:
//   - GET parameters go into the query string; other methods send a
//     form-urlencoded body, or a multipart body when file params are present.
//   - Body params sent as multipart fields are still part of the signature.
//     RFC 5849 only signs form-urlencoded bodies, so a server that follows it
//     strictly will compute a different base string for uploads with params.
//   - Parameters are encoded with the same RFC 3986 rules used for signing, so
//     what goes over the wire is exactly what was signed.
//   - Rate limits: the API reports x-rate-limit-{limit,remaining,reset} and, for
//     account-scoped endpoints, x-account-rate-limit-*. The account variant wins
//     when both are present. 429 is a rate limit error.
//   - A local sliding window per path guards against bursts before any headers
//     have been seen; when it is full a synthetic 429 is returned.
package adapters

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/opengovern/adsbridge"
	"github.com/opengovern/adsbridge/internal"
)

const (
	TwitterAdsDefaultHost        = "https://ads-api.twitter.com"
	TwitterAdsDefaultMaxRequests = 450
	TwitterAdsDefaultWindowSecs  = 900 // 15 minutes

	formContentType = "application/x-www-form-urlencoded"
)

type TwitterAdsAdapter struct {
	Host       string
	HTTPClient *http.Client

	mu sync.Mutex

	maxRequests int
	windowSecs  int64

	requestTimes map[string][]int64
}

func NewTwitterAdsAdapter(host string) *TwitterAdsAdapter {
	if host == "" {
		host = TwitterAdsDefaultHost
	}
	return &TwitterAdsAdapter{
		Host:         host,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		maxRequests:  TwitterAdsDefaultMaxRequests,
		windowSecs:   TwitterAdsDefaultWindowSecs,
		requestTimes: make(map[string][]int64),
	}
}

func (t *TwitterAdsAdapter) CreateRequest() *adsbridge.Request {
	return adsbridge.NewRequest(t.Host)
}

func (t *TwitterAdsAdapter) SetRateLimitDefaults(maxRequests int, windowSecs int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if maxRequests == 0 {
		maxRequests = TwitterAdsDefaultMaxRequests
	}
	if windowSecs == 0 {
		windowSecs = TwitterAdsDefaultWindowSecs
	}
	t.maxRequests = maxRequests
	t.windowSecs = windowSecs
}

// IdentifyRequestType buckets requests by path, which is how the API scopes its limits.
func (t *TwitterAdsAdapter) IdentifyRequestType(req *adsbridge.Request) string {
	path, _, _ := strings.Cut(req.Path, "?")
	return path
}

func (t *TwitterAdsAdapter) Execute(ctx context.Context, req *adsbridge.Request) (*adsbridge.Response, error) {
	bucket := t.IdentifyRequestType(req)
	if t.isRateLimited(bucket) {
		return &adsbridge.Response{
			StatusCode: http.StatusTooManyRequests,
			Headers:    map[string]string{},
			Data:       []byte(`{"errors":[{"code":"TOO_MANY_REQUESTS","message":"local rate limit reached"}]}`),
		}, nil
	}

	httpReq, err := t.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	t.recordRequest(bucket)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	headers := make(map[string]string)
	for k, vals := range resp.Header {
		if len(vals) > 0 {
			headers[strings.ToLower(k)] = vals[0]
		}
	}

	return &adsbridge.Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Data:       data,
	}, nil
}

func (t *TwitterAdsAdapter) buildHTTPRequest(ctx context.Context, req *adsbridge.Request) (*http.Request, error) {
	fullURL := req.URL()
	if query := encodePairs(req.Query.Pairs()); query != "" {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + query
	}

	var body io.Reader
	contentType := ""
	switch {
	case len(req.Files) > 0:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for _, p := range req.Body.Pairs() {
			if err := w.WriteField(p.Key, p.Value); err != nil {
				return nil, err
			}
		}
		names := make([]string, 0, len(req.Files))
		for name := range req.Files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			part, err := w.CreateFormFile(name, name)
			if err != nil {
				return nil, err
			}
			if _, err := part.Write(req.Files[name]); err != nil {
				return nil, err
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		body = buf
		contentType = w.FormDataContentType()
	case req.Body.Len() > 0:
		body = strings.NewReader(encodePairs(req.Body.Pairs()))
		contentType = formContentType
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func encodePairs(pairs []adsbridge.Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = adsbridge.PercentEncode(p.Key) + "=" + adsbridge.PercentEncode(p.Value)
	}
	return strings.Join(parts, "&")
}

func (t *TwitterAdsAdapter) ParseRateLimitInfo(resp *adsbridge.Response) (*adsbridge.NormalizedRateLimitInfo, error) {
	h := resp.Headers
	prefix := "x-rate-limit-"
	if _, ok := h["x-account-rate-limit-remaining"]; ok {
		prefix = "x-account-rate-limit-"
	}

	parseInt := func(key string) *int {
		if val, ok := h[key]; ok {
			if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				return &i
			}
		}
		return nil
	}

	parseReset := func(key string) *int64 {
		if val, ok := h[key]; ok {
			if ms, ok := internal.ParseUnixSeconds(val); ok {
				return &ms
			}
		}
		return nil
	}

	info := &adsbridge.NormalizedRateLimitInfo{
		MaxRequests:       parseInt(prefix + "limit"),
		RemainingRequests: parseInt(prefix + "remaining"),
		ResetRequestsAt:   parseReset(prefix + "reset"),
	}

	if info.ResetRequestsAt == nil && resp.StatusCode == http.StatusTooManyRequests {
		if wait := internal.ParseDurationMs(h["retry-after"]); wait > 0 {
			resetAt := time.Now().UnixMilli() + wait
			info.ResetRequestsAt = &resetAt
			zero := 0
			info.RemainingRequests = &zero
		}
	}

	if info.MaxRequests == nil {
		t.mu.Lock()
		maxReq := t.maxRequests
		t.mu.Unlock()
		info.MaxRequests = &maxReq
	}

	return info, nil
}

func (t *TwitterAdsAdapter) IsRateLimitError(resp *adsbridge.Response) bool {
	return resp.StatusCode == http.StatusTooManyRequests
}

func (t *TwitterAdsAdapter) isRateLimited(bucket string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxRequests <= 0 {
		return false
	}
	if t.requestTimes == nil {
		t.requestTimes = make(map[string][]int64)
	}

	now := time.Now().Unix()
	windowStart := now - t.windowSecs
	var kept []int64
	for _, ts := range t.requestTimes[bucket] {
		if ts >= windowStart {
			kept = append(kept, ts)
		}
	}
	t.requestTimes[bucket] = kept

	return len(kept) >= t.maxRequests
}

func (t *TwitterAdsAdapter) recordRequest(bucket string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.requestTimes == nil {
		t.requestTimes = make(map[string][]int64)
	}
	t.requestTimes[bucket] = append(t.requestTimes[bucket], time.Now().Unix())
}
