// Package sign signs and verifies payment-gateway webhook bodies with HMAC-SHA256.
package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const signaturePrefix = "sha256="

var (
	ErrSignMissing = errors.New("sign missing")
	ErrSignInvalid = errors.New("sign invalid")
)

type ISign interface {
	Sign(data []byte) string
	Verify(data []byte, sign string) error
}

type hmacSign struct {
	key []byte
}

func NewHMACSign(key []byte) ISign {
	return &hmacSign{key: key}
}

// Sign returns the hex digest of data, prefixed with "sha256=".
func (s *hmacSign) Sign(data []byte) string {
	return signaturePrefix + hex.EncodeToString(s.digest(data))
}

// Verify accepts the digest with or without the "sha256=" prefix.
func (s *hmacSign) Verify(data []byte, sign string) error {
	sign = strings.TrimSpace(sign)
	if sign == "" {
		return ErrSignMissing
	}

	got, err := hex.DecodeString(strings.TrimPrefix(sign, signaturePrefix))
	if err != nil {
		return ErrSignInvalid
	}
	if !hmac.Equal(got, s.digest(data)) {
		return ErrSignInvalid
	}
	return nil
}

func (s *hmacSign) digest(data []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(data)
	return mac.Sum(nil)
}
