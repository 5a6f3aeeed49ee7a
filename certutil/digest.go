package certutil

import (
	"crypto"
	// register hashes used by thumbprints
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// Digest returns the hash of data
func Digest(h crypto.Hash, data []byte) ([]byte, error) {
	if !h.Available() {
		return nil, errors.Errorf("hash not available: %d", h)
	}
	d := h.New()
	_, _ = d.Write(data)
	return d.Sum(nil), nil
}

// Thumbprint returns the hash of data as uppercase hex string,
// or empty string if the hash is not available
func Thumbprint(h crypto.Hash, data []byte) string {
	d, err := Digest(h, data)
	if err != nil {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(d))
}

// MD5 returns MD5 thumbprint of data
func MD5(data []byte) string {
	return Thumbprint(crypto.MD5, data)
}

// SHA1 returns SHA-1 thumbprint of data
func SHA1(data []byte) string {
	return Thumbprint(crypto.SHA1, data)
}

// SHA256 returns SHA-256 thumbprint of data
func SHA256(data []byte) string {
	return Thumbprint(crypto.SHA256, data)
}
