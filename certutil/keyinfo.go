package certutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	jose "github.com/go-jose/go-jose/v3"
)

// KeyInfo provides information about the key
type KeyInfo struct {
	KeySize   int
	Type      string
	Curve     string
	IsPrivate bool
	Hash      crypto.Hash
	Key       any
}

// NewKeyInfo returns *KeyInfo for RSA or ECDSA key,
// private, public or JWK
func NewKeyInfo(k any) (*KeyInfo, error) {
	ki := &KeyInfo{Key: k}
	var pubKey crypto.PublicKey

	// find the Public
	switch typ := k.(type) {
	case *rsa.PrivateKey:
		ki.IsPrivate = true
		pubKey = &typ.PublicKey
	case *ecdsa.PrivateKey:
		ki.IsPrivate = true
		pubKey = &typ.PublicKey
	case *jose.JSONWebKey:
		return NewKeyInfo(typ.Key)
	case crypto.Signer:
		pubKey = typ.Public()
	default:
		pubKey = k
	}

	switch typ := pubKey.(type) {
	case *rsa.PublicKey:
		ki.KeySize = typ.N.BitLen()
		ki.Type = "RSA"
	case *ecdsa.PublicKey:
		ki.Type = "ECDSA"
		ki.KeySize = typ.Curve.Params().BitSize
		ki.Curve = typ.Curve.Params().Name
	default:
		return nil, errors.Errorf("key not supported: %T", typ)
	}
	ki.Hash = hashAlgo(pubKey)
	return ki, nil
}

// NewJWK returns public JSON Web Key, with the key ID
// set to base64url SHA-256 thumbprint of the key
func NewJWK(k any) (*jose.JSONWebKey, error) {
	ki, err := NewKeyInfo(k)
	if err != nil {
		return nil, err
	}

	var pub crypto.PublicKey
	switch typ := ki.Key.(type) {
	case crypto.Signer:
		pub = typ.Public()
	default:
		pub = typ
	}

	jk := &jose.JSONWebKey{
		Key:       pub,
		Use:       "sig",
		Algorithm: string(signatureAlgorithm(pub)),
	}
	tb, err := jk.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to get thumbprint")
	}
	jk.KeyID = base64.RawURLEncoding.EncodeToString(tb)
	return jk, nil
}

func signatureAlgorithm(pub crypto.PublicKey) jose.SignatureAlgorithm {
	if ec, ok := pub.(*ecdsa.PublicKey); ok {
		switch ec.Curve {
		case elliptic.P384():
			return jose.ES384
		case elliptic.P521():
			return jose.ES512
		default:
			return jose.ES256
		}
	}
	return jose.RS256
}

func hashAlgo(pub crypto.PublicKey) crypto.Hash {
	switch pub := pub.(type) {
	case *rsa.PublicKey:
		keySize := pub.N.BitLen()
		switch {
		case keySize >= 4096:
			return crypto.SHA512
		case keySize >= 3072:
			return crypto.SHA384
		case keySize >= 2048:
			return crypto.SHA256
		default:
			return crypto.SHA1
		}
	case *ecdsa.PublicKey:
		switch pub.Curve {
		case elliptic.P256():
			return crypto.SHA256
		case elliptic.P384():
			return crypto.SHA384
		case elliptic.P521():
			return crypto.SHA512
		default:
			return crypto.SHA1
		}
	default:
		return crypto.SHA1
	}
}
