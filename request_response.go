package adsbridge

import (
	"regexp"
	"strings"
)

const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// versionedPath matches paths that already begin with a version segment, e.g. /12/ or /1.1/.
var versionedPath = regexp.MustCompile(`^/\d+(\.\d+)?/`)

// Request is the mutable envelope built by the Api and executed by a Transport.
type Request struct {
	Method  string
	Host    string // scheme://host, e.g. https://ads-api.twitter.com
	Path    string
	Version string
	Query   *Params
	Body    *Params
	Files   map[string][]byte
	Headers map[string]string
}

func NewRequest(host string) *Request {
	return &Request{
		Host:    strings.TrimRight(host, "/"),
		Query:   NewParams(),
		Body:    NewParams(),
		Files:   make(map[string][]byte),
		Headers: make(map[string]string),
	}
}

// URL returns Host+Path without query parameters. Paths lacking a leading
// version segment are prefixed with /Version.
func (r *Request) URL() string {
	path := r.Path
	if r.Version != "" && !versionedPath.MatchString(path) {
		path = "/" + r.Version + path
	}
	return r.Host + path
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Data       []byte
}

// NormalizedRateLimitInfo is the rate limit state parsed from a Response.
// Reset times are Unix milliseconds.
type NormalizedRateLimitInfo struct {
	MaxRequests       *int
	RemainingRequests *int
	ResetRequestsAt   *int64
}
