package adsbridge

import (
	"time"

	"github.com/google/uuid"
)

// APIVersion is the Ads API version requests are issued against unless
// overridden with WithAPIVersion.
const APIVersion = "12"

// Noncer provides oauth_nonce values. Implementations must be safe for
// concurrent use and never repeat a value.
type Noncer interface {
	Nonce() (string, error)
}

// Clock supplies the time used for oauth_timestamp.
type Clock interface {
	Now() time.Time
}

// RandomNoncer draws 128 bits from crypto/rand per call.
type RandomNoncer struct{}

func (RandomNoncer) Nonce() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return Base64URLEncode(string(u[:])), nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Placement selects where the oauth_* parameters are attached.
type Placement int

const (
	// PlacementParams puts them in the same bag as the caller's parameters.
	PlacementParams Placement = iota
	// PlacementHeader puts them in an "Authorization: OAuth ..." header.
	PlacementHeader
)

type options struct {
	apiVersion      string
	logger          Logger
	signatureMethod SignatureMethod
	noncer          Noncer
	clock           Clock
	placement       Placement
}

func defaultOptions() options {
	return options{
		apiVersion:      APIVersion,
		logger:          NullLogger{},
		signatureMethod: HmacSha1{},
		noncer:          RandomNoncer{},
		clock:           systemClock{},
		placement:       PlacementParams,
	}
}

// Option configures an Api.
type Option func(*options)

// WithAPIVersion overrides the configured API version string.
func WithAPIVersion(v string) Option {
	return func(o *options) { o.apiVersion = v }
}

func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithSignatureMethod(m SignatureMethod) Option {
	return func(o *options) {
		if m != nil {
			o.signatureMethod = m
		}
	}
}

func WithNoncer(n Noncer) Option {
	return func(o *options) {
		if n != nil {
			o.noncer = n
		}
	}
}

func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func WithPlacement(p Placement) Option {
	return func(o *options) { o.placement = p }
}
