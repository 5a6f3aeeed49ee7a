package cryptoprov

import (
	"crypto"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/keys"
	"github.com/effective-security/xlog"
)

// NewSignerFromFile loads a private key from PEM encoded file
func NewSignerFromFile(keyFile string) (crypto.Signer, error) {
	pem, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, errors.WithMessagef(err, "load key file")
	}

	s, err := NewSignerFromPEM(pem)
	if err != nil {
		return nil, errors.WithMessagef(err, "load key from file: %s", keyFile)
	}
	return s, nil
}

// NewSignerFromPEM returns a signer from PRIVATE KEY or EC PRIVATE KEY block
func NewSignerFromPEM(pem []byte) (crypto.Signer, error) {
	// remove trailing space and end-of-line
	text := strings.TrimSpace(string(pem))

	s, err := keys.ParsePrivateKeyPEM(text)
	if err != nil {
		return nil, err
	}
	logger.KV(xlog.DEBUG, "key", fmt.Sprintf("%T", s))
	return s, nil
}
