package adsbridge

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// SignatureMethod computes an oauth_signature value from a base string and
// signing key. Implementations are stateless.
type SignatureMethod interface {
	Name() string
	Sign(baseString, signingKey string) (string, error)
}

// HmacSha1 implements HMAC-SHA1 (RFC 5849 §3.4.2).
type HmacSha1 struct{}

func (HmacSha1) Name() string {
	return "HMAC-SHA1"
}

func (HmacSha1) Sign(baseString, signingKey string) (string, error) {
	mac := hmac.New(sha1.New, []byte(signingKey))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Plaintext implements PLAINTEXT (RFC 5849 §3.4.4). Only use it over TLS.
type Plaintext struct{}

func (Plaintext) Name() string {
	return "PLAINTEXT"
}

func (Plaintext) Sign(_, signingKey string) (string, error) {
	return signingKey, nil
}

// SigningKey joins the encoded consumer and token secrets with '&'.
func SigningKey(consumerSecret, tokenSecret string) string {
	return PercentEncode(consumerSecret) + "&" + PercentEncode(tokenSecret)
}

// BaseURI returns the base string URI of rawURL (RFC 5849 §3.4.1.2): scheme
// and host lowercased, default ports dropped, query and fragment removed.
func BaseURI(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: base URL %q is not absolute", ErrInvalidRequest, rawURL)
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
		host = host + ":" + port
	}
	return scheme + "://" + host + u.EscapedPath(), nil
}

// SignatureBase builds METHOD&enc(baseURI)&enc(normalized params).
func SignatureBase(method, rawURL string, pairs []Pair) (string, error) {
	baseURI, err := BaseURI(rawURL)
	if err != nil {
		return "", err
	}
	parts := []string{
		strings.ToUpper(method),
		PercentEncode(baseURI),
		PercentEncode(NormalizeParameters(pairs)),
	}
	return strings.Join(parts, "&"), nil
}

// CollectParameters gathers the pairs that take part in signing: the query
// string embedded in the path, the query and body bags, and oauthParams.
// File parameters, oauth_signature and realm are excluded.
func CollectParameters(req *Request, oauthParams map[string]string) ([]Pair, error) {
	var pairs []Pair
	if i := strings.IndexByte(req.Path, '?'); i >= 0 {
		values, err := url.ParseQuery(req.Path[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		for k, vs := range values {
			for _, v := range vs {
				pairs = append(pairs, Pair{Key: k, Value: v})
			}
		}
	}
	for _, bag := range []*Params{req.Query, req.Body} {
		if bag == nil {
			continue
		}
		for _, p := range bag.Pairs() {
			if p.Key == oauthSignatureParam {
				continue
			}
			pairs = append(pairs, p)
		}
	}
	for k, v := range oauthParams {
		if k == oauthSignatureParam || k == realmParam {
			continue
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs, nil
}

// BuildSignature signs req for the given consumer and optional token.
// oauthParams are the protocol parameters not already present in the bags.
func BuildSignature(method SignatureMethod, req *Request, consumer Consumer, token *Token, oauthParams map[string]string) (string, error) {
	if consumer.Secret == "" {
		return "", fmt.Errorf("%w: empty consumer secret", ErrSigning)
	}
	pairs, err := CollectParameters(req, oauthParams)
	if err != nil {
		return "", err
	}
	base, err := SignatureBase(req.Method, req.URL(), pairs)
	if err != nil {
		return "", err
	}
	tokenSecret := ""
	if token != nil {
		tokenSecret = token.Secret
	}
	return method.Sign(base, SigningKey(consumer.Secret, tokenSecret))
}

// AuthorizationHeader formats oauth parameters as an RFC 5849 §3.5.1 header value.
func AuthorizationHeader(oauthParams map[string]string) string {
	pairs := make([]Pair, 0, len(oauthParams))
	for k, v := range oauthParams {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	normalized := strings.Split(NormalizeParameters(pairs), "&")
	for i, kv := range normalized {
		k, v, _ := strings.Cut(kv, "=")
		normalized[i] = fmt.Sprintf(`%s="%s"`, k, v)
	}
	return "OAuth " + strings.Join(normalized, ", ")
}
