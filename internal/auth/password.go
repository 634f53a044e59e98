// Package auth holds credential checks, the role/action authorization table,
// sessions and the signed tokens that carry a session across CLI runs.
package auth

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies stored credentials. Stored values that are not
// bcrypt hashes are treated as legacy plaintext and compared exactly.
type Hasher struct {
	cost    int
	enabled bool

	dummyOnce sync.Once
	dummy     []byte
}

// NewHasher returns a Hasher. With enabled false, Hash stores plaintext, which
// reproduces the behaviour of the original demo data.
func NewHasher(enabled bool, cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost, enabled: enabled}
}

func (h *Hasher) Hash(plain string) (string, error) {
	if !h.enabled {
		return plain, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored credential.
func (h *Hasher) Verify(stored, plain string) bool {
	if IsHashed(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
		return err == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// VerifyMissing burns the same work as a real check so that unknown
// usernames take as long to reject as wrong passwords.
func (h *Hasher) VerifyMissing(plain string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("clubdeck-placeholder"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}

// NeedsUpgrade reports whether a stored credential should be rehashed after
// a successful login.
func (h *Hasher) NeedsUpgrade(stored string) bool {
	if !h.enabled {
		return false
	}
	if !IsHashed(stored) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(stored))
	return err == nil && cost < h.cost
}

// IsHashed reports whether the credential is a bcrypt hash.
func IsHashed(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}
