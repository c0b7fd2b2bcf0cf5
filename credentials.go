package adsbridge

import "fmt"

const (
	oauthConsumerKeyParam     = "oauth_consumer_key"
	oauthNonceParam           = "oauth_nonce"
	oauthSignatureParam       = "oauth_signature"
	oauthSignatureMethodParam = "oauth_signature_method"
	oauthTimestampParam       = "oauth_timestamp"
	oauthTokenParam           = "oauth_token"
	oauthVersionParam         = "oauth_version"
	realmParam                = "realm"
	defaultOAuthVersion       = "1.0"
)

// Consumer identifies the registered application.
type Consumer struct {
	Key    string
	Secret string
}

// Token is a per-user access credential. The zero value means "no token".
type Token struct {
	Key    string
	Secret string
}

// IsEmpty reports whether the token lacks a key or a secret.
func (t Token) IsEmpty() bool {
	return t.Key == "" || t.Secret == ""
}

// Session binds a Consumer to an optional Token. Sessions are immutable and
// safe to share between goroutines.
type Session struct {
	consumer Consumer
	token    *Token
}

// NewSession validates the consumer credentials and returns a Session.
// An empty token yields a token-less (app-only) session.
func NewSession(consumer Consumer, token Token) (*Session, error) {
	s := &Session{consumer: consumer}
	if !token.IsEmpty() {
		t := token
		s.token = &t
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the consumer key and secret are both set.
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrConfiguration)
	}
	if s.consumer.Key == "" {
		return fmt.Errorf("%w: empty consumer key", ErrConfiguration)
	}
	if s.consumer.Secret == "" {
		return fmt.Errorf("%w: empty consumer secret", ErrConfiguration)
	}
	return nil
}

// Consumer returns the session's consumer credentials.
func (s *Session) Consumer() Consumer {
	return s.consumer
}

// Token returns the session's token, or nil for an app-only session.
func (s *Session) Token() *Token {
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// WithToken returns a new Session with the same consumer and the given token.
func (s *Session) WithToken(token Token) *Session {
	derived := &Session{consumer: s.consumer}
	if !token.IsEmpty() {
		t := token
		derived.token = &t
	}
	return derived
}

// RequestParameters returns the authentication parameters every request carries.
func (s *Session) RequestParameters() map[string]string {
	params := map[string]string{
		oauthConsumerKeyParam: s.consumer.Key,
	}
	if s.token != nil {
		params[oauthTokenParam] = s.token.Key
	}
	return params
}

func (s *Session) tokenSecret() string {
	if s.token == nil {
		return ""
	}
	return s.token.Secret
}
