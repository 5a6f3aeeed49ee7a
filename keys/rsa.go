package keys

import (
	"crypto/rsa"
	"encoding/asn1"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/oid"
	"github.com/effective-security/xlog"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/pkicodec", "keys")

var (
	// ErrUnsupportedKeySize is returned when RSA modulus size is not supported
	ErrUnsupportedKeySize = errors.New("unsupported RSA key size")
	// ErrUnsupportedExponent is returned when RSA public exponent is not 65537
	ErrUnsupportedExponent = errors.New("unsupported RSA public exponent")
)

// PublicExponent is the only RSA exponent written to private keys
const PublicExponent = 65537

// SupportedRSAKeySizes lists modulus sizes accepted by ParseRSAPrivateKey
var SupportedRSAKeySizes = []int{1024, 2048, 4096}

// IsSupportedRSAKeySize returns true if RSA modulus size is supported
func IsSupportedRSAKeySize(bits int) bool {
	for _, s := range SupportedRSAKeySizes {
		if s == bits {
			return true
		}
	}
	return false
}

// AddRSAPublicKeyInfo adds SubjectPublicKeyInfo of the RSA key
func AddRSAPublicKeyInfo(b *cryptobyte.Builder, pub *rsa.PublicKey) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oid.PublicKeyRSA)
			b.AddASN1NULL()
		})
		b.AddASN1(cbasn1.BIT_STRING, func(b *cryptobyte.Builder) {
			// no unused bits
			b.AddUint8(0)
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1BigInt(pub.N)
				b.AddASN1Int64(int64(pub.E))
			})
		})
	})
}

// EncodeRSAPublicKey returns DER encoded SubjectPublicKeyInfo
func EncodeRSAPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil || pub.N == nil {
		return nil, errors.New("missing RSA public key")
	}
	return asn1util.Build(func(b *cryptobyte.Builder) {
		AddRSAPublicKeyInfo(b, pub)
	})
}

// ParseRSAPublicKey parses DER encoded SubjectPublicKeyInfo
func ParseRSAPublicKey(der []byte) (*rsa.PublicKey, error) {
	input := cryptobyte.String(der)

	var spki, alg cryptobyte.String
	var algID asn1.ObjectIdentifier
	if !input.ReadASN1(&spki, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid SubjectPublicKeyInfo")
	}
	if !spki.ReadASN1(&alg, cbasn1.SEQUENCE) || !alg.ReadASN1ObjectIdentifier(&algID) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid algorithm identifier")
	}
	if !algID.Equal(oid.PublicKeyRSA) {
		return nil, errors.Wrapf(asn1util.ErrParse, "unexpected algorithm: %s", algID.String())
	}

	var bs asn1.BitString
	if !spki.ReadASN1BitString(&bs) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid public key BIT STRING")
	}

	inner := cryptobyte.String(bs.RightAlign())
	var seq cryptobyte.String
	n := new(big.Int)
	e := new(big.Int)
	if !inner.ReadASN1(&seq, cbasn1.SEQUENCE) ||
		!seq.ReadASN1Integer(n) ||
		!seq.ReadASN1Integer(e) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid RSA public key")
	}
	if n.Sign() <= 0 || e.Sign() <= 0 || !e.IsInt64() || e.Int64() > 1<<31-1 {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid RSA public key values")
	}

	return &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}, nil
}

// EncodeRSAPrivateKey returns DER encoded PKCS#8 private key,
// where the CRT values are derived from D, P and Q.
func EncodeRSAPrivateKey(priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil || priv.N == nil || priv.D == nil {
		return nil, errors.New("missing RSA private key")
	}
	if len(priv.Primes) != 2 {
		return nil, errors.Errorf("unsupported number of primes: %d", len(priv.Primes))
	}
	if priv.E != PublicExponent {
		return nil, errors.Wrapf(ErrUnsupportedExponent, "%d", priv.E)
	}

	p, q := priv.Primes[0], priv.Primes[1]
	one := big.NewInt(1)
	dP := new(big.Int).Mod(priv.D, new(big.Int).Sub(p, one))
	dQ := new(big.Int).Mod(priv.D, new(big.Int).Sub(q, one))
	qInv := new(big.Int).ModInverse(q, p)
	if qInv == nil {
		return nil, errors.New("invalid RSA primes")
	}

	pkcs1, err := asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1Int64(0)
			b.AddASN1BigInt(priv.N)
			b.AddASN1Int64(PublicExponent)
			b.AddASN1BigInt(priv.D)
			b.AddASN1BigInt(p)
			b.AddASN1BigInt(q)
			b.AddASN1BigInt(dP)
			b.AddASN1BigInt(dQ)
			b.AddASN1BigInt(qInv)
		})
	})
	if err != nil {
		return nil, err
	}

	return asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1Int64(0)
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(oid.PublicKeyRSA)
				b.AddASN1NULL()
			})
			b.AddASN1OctetString(pkcs1)
		})
	})
}

// PKCS#1 RSAPrivateKey field positions
const (
	rsaFieldModulus = 1 + iota
	rsaFieldPublicExponent
	rsaFieldPrivateExponent
	rsaFieldPrime1
	rsaFieldPrime2
	rsaFieldCount = 9
)

// ParseRSAPrivateKey parses DER encoded PKCS#8 private key.
// The key is reconstructed from the modulus, exponents and primes,
// the CRT values in the encoding are not validated.
func ParseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	outer, err := asn1util.ReadSequence(der)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid PKCS#8 private key")
	}

	// version and algorithm are not checked
	octet, err := asn1util.Expect(outer, 2, cbasn1.OCTET_STRING, "private key")
	if err != nil {
		return nil, err
	}

	fields, err := asn1util.ReadSequence(octet.Content)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid PKCS#1 private key")
	}
	if len(fields) < rsaFieldCount {
		return nil, errors.Wrapf(asn1util.ErrParse, "expected %d PKCS#1 fields, found %d", rsaFieldCount, len(fields))
	}

	ints := make([]*big.Int, rsaFieldCount)
	for i := rsaFieldModulus; i <= rsaFieldPrime2; i++ {
		if !fields[i].Is(cbasn1.INTEGER) {
			return nil, errors.Wrapf(asn1util.ErrParse, "PKCS#1 field %d is not INTEGER", i)
		}
		if ints[i], err = asn1util.BigInt(fields[i], "PKCS#1 field"); err != nil {
			return nil, err
		}
	}

	e := ints[rsaFieldPublicExponent]
	if !e.IsInt64() || e.Sign() <= 0 || e.Int64() > 1<<31-1 {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid public exponent")
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{
			N: ints[rsaFieldModulus],
			E: int(e.Int64()),
		},
		D:      ints[rsaFieldPrivateExponent],
		Primes: []*big.Int{ints[rsaFieldPrime1], ints[rsaFieldPrime2]},
	}

	bits := key.N.BitLen()
	if !IsSupportedRSAKeySize(bits) {
		logger.KV(xlog.DEBUG, "reason", "unsupported_size", "bits", bits)
		return nil, errors.Wrapf(ErrUnsupportedKeySize, "%d", bits)
	}

	key.Precompute()
	return key, nil
}
