package structs

import (
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// Digest identifies the hashing algorithm a stored password hash was produced with.
type Digest int

const (
	SHA1 Digest = iota + 1
	SHA256
	SHA384
	SHA512
)

var digestNames = map[Digest]string{
	SHA1:   "SHA-1",
	SHA256: "SHA-256",
	SHA384: "SHA-384",
	SHA512: "SHA-512",
}

// Digests returns all supported digests ordered by strength.
func Digests() []Digest {
	return []Digest{SHA1, SHA256, SHA384, SHA512}
}

// DigestByName resolves a canonical algorithm name such as "SHA-256".
func DigestByName(name string) (Digest, error) {
	for d, n := range digestNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("digest %q: %w", name, ErrUnknownDigest)
}

// GetDigestName returns the canonical external name of the digest.
func (d Digest) GetDigestName() string {
	return digestNames[d]
}

func (d Digest) IsValid() bool {
	_, ok := digestNames[d]
	return ok
}

func (d Digest) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Digest(%d)", int(d))
	}
	return d.GetDigestName()
}

// New returns a fresh hash for the digest, or nil for an invalid digest.
func (d Digest) New() hash.Hash {
	switch d {
	case SHA1:
		return sha1.New() //nolint:gosec
	case SHA256:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	default:
		return nil
	}
}
