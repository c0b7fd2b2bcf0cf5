package adsbridge

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/pkcs12"
)

// RSASHA1 implements RSA-SHA1 (RFC 5849 §3.4.3). The signing key argument is
// ignored; the consumer's RSA private key signs the base string.
type RSASHA1 struct {
	PrivateKey *rsa.PrivateKey
}

// NewRSASHA1FromPEM parses a PKCS#1 or PKCS#8 PEM encoded RSA private key.
func NewRSASHA1FromPEM(pemBytes []byte) (*RSASHA1, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse rsa key: %v", ErrConfiguration, err)
	}
	return &RSASHA1{PrivateKey: key}, nil
}

// NewRSASHA1FromPKCS12 extracts the RSA private key from a PKCS#12 bundle.
func NewRSASHA1FromPKCS12(data []byte, password string) (*RSASHA1, error) {
	key, _, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, fmt.Errorf("%w: decode pkcs12: %v", ErrConfiguration, err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: pkcs12 key is %T, not RSA", ErrConfiguration, key)
	}
	return &RSASHA1{PrivateKey: rsaKey}, nil
}

func (*RSASHA1) Name() string {
	return "RSA-SHA1"
}

func (s *RSASHA1) Sign(baseString, _ string) (string, error) {
	if s.PrivateKey == nil {
		return "", fmt.Errorf("%w: rsa private key not set", ErrSigning)
	}
	digest := sha1.Sum([]byte(baseString))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.PrivateKey, crypto.SHA1, digest[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
