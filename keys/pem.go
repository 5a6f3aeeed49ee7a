package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/armor"
)

// EncodeRSAPrivateKeyPEM returns PRIVATE KEY PEM block
func EncodeRSAPrivateKeyPEM(priv *rsa.PrivateKey) (string, error) {
	der, err := EncodeRSAPrivateKey(priv)
	if err != nil {
		return "", err
	}
	return armor.FrameBlock(der, armor.TypePrivateKey, armor.KeyOptions), nil
}

// EncodeRSAPublicKeyPEM returns PUBLIC KEY PEM block
func EncodeRSAPublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := EncodeRSAPublicKey(pub)
	if err != nil {
		return "", err
	}
	return armor.FrameBlock(der, armor.TypePublicKey, armor.KeyOptions), nil
}

// EncodeECPrivateKeyPEM returns EC PRIVATE KEY PEM block
func EncodeECPrivateKeyPEM(priv *ecdsa.PrivateKey) (string, error) {
	der, err := EncodeECPrivateKey(priv)
	if err != nil {
		return "", err
	}
	return armor.FrameBlock(der, armor.TypeECPrivateKey, armor.KeyOptions), nil
}

// EncodeECPublicKeyPEM returns EC PUBLIC KEY PEM block
func EncodeECPublicKeyPEM(pub *ecdsa.PublicKey) (string, error) {
	der, err := EncodeECPublicKey(pub)
	if err != nil {
		return "", err
	}
	return armor.FrameBlock(der, armor.TypeECPublicKey, armor.KeyOptions), nil
}

// ParseRSAPrivateKeyPEM parses PRIVATE KEY PEM block
func ParseRSAPrivateKeyPEM(text string) (*rsa.PrivateKey, error) {
	der, err := armor.UnframeBlock(text, armor.TypePrivateKey)
	if err != nil {
		return nil, err
	}
	return ParseRSAPrivateKey(der)
}

// ParseRSAPublicKeyPEM parses PUBLIC KEY PEM block
func ParseRSAPublicKeyPEM(text string) (*rsa.PublicKey, error) {
	der, err := armor.UnframeBlock(text, armor.TypePublicKey)
	if err != nil {
		return nil, err
	}
	return ParseRSAPublicKey(der)
}

// ParseECPrivateKeyPEM parses EC PRIVATE KEY PEM block
func ParseECPrivateKeyPEM(text string) (*ecdsa.PrivateKey, error) {
	der, err := armor.UnframeBlock(text, armor.TypeECPrivateKey)
	if err != nil {
		return nil, err
	}
	return ParseECPrivateKey(der)
}

// ParseECPublicKeyPEM parses EC PUBLIC KEY PEM block
func ParseECPublicKeyPEM(text string) (*ecdsa.PublicKey, error) {
	der, err := armor.UnframeBlock(text, armor.TypeECPublicKey)
	if err != nil {
		return nil, err
	}
	return ParseECPublicKey(der)
}

// ParsePrivateKeyPEM parses RSA or EC private key,
// depending on the PEM block type
func ParsePrivateKeyPEM(text string) (crypto.Signer, error) {
	switch typ := armor.BlockType(text); typ {
	case armor.TypePrivateKey:
		k, err := ParseRSAPrivateKeyPEM(text)
		if err != nil {
			return nil, err
		}
		return k, nil
	case armor.TypeECPrivateKey:
		k, err := ParseECPrivateKeyPEM(text)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, errors.Wrapf(armor.ErrFormat, "unsupported private key type: %q", typ)
	}
}

// ParsePublicKeyPEM parses RSA or EC public key,
// depending on the PEM block type
func ParsePublicKeyPEM(text string) (crypto.PublicKey, error) {
	switch typ := armor.BlockType(text); typ {
	case armor.TypePublicKey:
		k, err := ParseRSAPublicKeyPEM(text)
		if err != nil {
			return nil, err
		}
		return k, nil
	case armor.TypeECPublicKey:
		k, err := ParseECPublicKeyPEM(text)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, errors.Wrapf(armor.ErrFormat, "unsupported public key type: %q", typ)
	}
}

// EncodePrivateKeyPEM returns PEM block of RSA or EC private key
func EncodePrivateKeyPEM(priv crypto.PrivateKey) (string, error) {
	switch k := priv.(type) {
	case *rsa.PrivateKey:
		return EncodeRSAPrivateKeyPEM(k)
	case *ecdsa.PrivateKey:
		return EncodeECPrivateKeyPEM(k)
	default:
		return "", errors.Errorf("unsupported key: %T", priv)
	}
}

// EncodePublicKeyPEM returns PEM block of RSA or EC public key
func EncodePublicKeyPEM(pub crypto.PublicKey) (string, error) {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return EncodeRSAPublicKeyPEM(k)
	case *ecdsa.PublicKey:
		return EncodeECPublicKeyPEM(k)
	default:
		return "", errors.Errorf("unsupported key: %T", pub)
	}
}
