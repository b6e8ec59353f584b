// Package identity turns self-reported usernames into opaque identity tokens.
// Raw usernames never leave this package.
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrMissingIdentity is returned for empty or whitespace-only usernames.
var ErrMissingIdentity = errors.New("username is required")

// Hasher derives identities with HMAC-SHA256 keyed by a server-side pepper.
type Hasher struct {
	pepper []byte
}

func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: []byte(pepper)}
}

// Hash returns the 64-char hex identity for username.
func (h *Hasher) Hash(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrMissingIdentity
	}

	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(username))
	return hex.EncodeToString(mac.Sum(nil)), nil
}
