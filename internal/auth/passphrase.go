// Package auth holds the family join credential.
//
// A family account is joined with two values: its ID and a shared passphrase,
// both generated once when the account is created. Anyone who holds both can
// add themselves as a member; there is no per-member secret, no expiry and no
// revocation. This is a known weak trust boundary, kept deliberately: the
// ledger only runs against a local record store, and the passphrase exists to
// stop typos and casual guessing, not a determined attacker.
package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// FamilyIDPrefix marks family account identifiers.
const FamilyIDPrefix = "fam-"

var (
	ErrWrongPassphrase = errors.New("incorrect passphrase")
	ErrEmptyPassphrase = errors.New("passphrase required")
)

// NewFamilyID returns a fresh family account ID backed by a random (v4) UUID.
func NewFamilyID() string {
	return FamilyIDPrefix + uuid.NewString()
}

// NewPassphrase returns a human-shareable passphrase of 12 random hex
// characters in groups of four, e.g. "3f9a-07c2-e41b".
func NewPassphrase() string {
	id := uuid.New()
	raw := hex.EncodeToString(id[:6])
	return strings.Join([]string{raw[0:4], raw[4:8], raw[8:12]}, "-")
}

// VerifyPassphrase checks a supplied passphrase against the stored one.
// The comparison is exact and constant-time.
func VerifyPassphrase(stored, supplied string) error {
	if supplied == "" {
		return ErrEmptyPassphrase
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return ErrWrongPassphrase
	}
	return nil
}
