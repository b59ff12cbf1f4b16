package structs

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Password is an immutable hashed password together with the digest that produced it.
type Password struct {
	digest         Digest
	hashedPassword string
}

// NewPassword wraps an already hashed password. The digest must be known and the hash non-empty.
func NewPassword(digest Digest, hashedPassword string) (Password, error) {
	if !digest.IsValid() {
		return Password{}, fmt.Errorf("password digest %s: %w", digest, ErrInvalidEntity)
	}
	if hashedPassword == "" {
		return Password{}, fmt.Errorf("hashed password must not be empty: %w", ErrInvalidEntity)
	}
	return Password{digest: digest, hashedPassword: hashedPassword}, nil
}

// HashPassword hashes plain with the given digest and returns the hex encoded result.
func HashPassword(digest Digest, plain string) (Password, error) {
	h := digest.New()
	if h == nil {
		return Password{}, fmt.Errorf("password digest %s: %w", digest, ErrInvalidEntity)
	}
	h.Write([]byte(plain))
	return NewPassword(digest, hex.EncodeToString(h.Sum(nil)))
}

func (p Password) GetDigest() Digest {
	return p.digest
}

func (p Password) GetHashedPassword() string {
	return p.hashedPassword
}

// IsZero reports whether p was never constructed.
func (p Password) IsZero() bool {
	return p.digest == 0 && p.hashedPassword == ""
}

// Matches hashes plain with the password's digest and compares in constant time.
func (p Password) Matches(plain string) bool {
	candidate, err := HashPassword(p.digest, plain)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate.hashedPassword), []byte(p.hashedPassword)) == 1
}

func (p Password) Equal(other Password) bool {
	return p.digest == other.digest && p.hashedPassword == other.hashedPassword
}

func (p Password) String() string {
	return fmt.Sprintf("Password{digest: %s, hashedPassword: *****}", p.digest)
}
