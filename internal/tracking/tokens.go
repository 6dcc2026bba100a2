// Package tracking implements the public engagement surface: open pixels,
// click redirects, and unsubscribe links. Tokens are pipe-delimited payloads,
// base64url encoded and signed with HMAC-SHA256 so recipients cannot forge
// events for other campaigns or contacts.
package tracking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrBadToken is returned for tokens that fail decoding or signature checks.
var ErrBadToken = errors.New("invalid tracking token")

// Signer signs and verifies tracking token payloads.
type Signer struct {
	key []byte
}

// NewSigner creates a signer from the shared tracking secret.
func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

// Sign returns the truncated hex HMAC for a payload.
func (s *Signer) Sign(data string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Verify checks a payload against its signature in constant time.
func (s *Signer) Verify(data, signature string) bool {
	expected := s.Sign(data)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Encode joins the parts into a signed token. Returns the encoded payload
// and its signature, ready for embedding in a URL path.
func (s *Signer) Encode(parts ...string) (string, string) {
	data := strings.Join(parts, "|")
	return base64.URLEncoding.EncodeToString([]byte(data)), s.Sign(data)
}

// Decode verifies and splits a token. wantParts is the minimum number of
// fields the payload must contain.
func (s *Signer) Decode(encoded, signature string, wantParts int) ([]string, error) {
	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrBadToken
	}
	data := string(decoded)
	if !s.Verify(data, signature) {
		return nil, ErrBadToken
	}
	parts := strings.Split(data, "|")
	if len(parts) < wantParts {
		return nil, ErrBadToken
	}
	return parts, nil
}
