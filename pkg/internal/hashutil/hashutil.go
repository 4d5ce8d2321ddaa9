// Package hashutil computes the content digests used for cache keys and
// rule fingerprints.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Sum returns the hex SHA-256 digest of data
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SumString is Sum for a string
func SumString(s string) string {
	return Sum([]byte(s))
}

// SumReader digests everything r yields
func SumReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Prefix returns the first n hex characters of the digest of s
func Prefix(s string, n int) string {
	d := SumString(s)
	if n <= 0 || n >= len(d) {
		return d
	}
	return d[:n]
}
