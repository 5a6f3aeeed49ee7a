package keys

import (
	"bytes"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/oid"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrUnsupportedCurve is returned when EC curve is not supported
var ErrUnsupportedCurve = errors.New("unsupported curve")

// ecPrivateKeyVersion is the SEC1 ECPrivateKey version
const ecPrivateKeyVersion = 1

type namedCurve struct {
	id    asn1.ObjectIdentifier
	curve elliptic.Curve
	ecdh  ecdh.Curve
}

var namedCurves = []namedCurve{
	{oid.CurveP256, elliptic.P256(), ecdh.P256()},
	{oid.CurveP384, elliptic.P384(), ecdh.P384()},
	{oid.CurveP521, elliptic.P521(), ecdh.P521()},
}

func curveByKey(c elliptic.Curve) (*namedCurve, error) {
	for i := range namedCurves {
		if namedCurves[i].curve == c {
			return &namedCurves[i], nil
		}
	}
	name := "unknown"
	if c != nil {
		name = c.Params().Name
	}
	return nil, errors.Wrapf(ErrUnsupportedCurve, "%s", name)
}

func curveByOID(id asn1.ObjectIdentifier) (*namedCurve, error) {
	for i := range namedCurves {
		if namedCurves[i].id.Equal(id) {
			return &namedCurves[i], nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedCurve, "%s", id.String())
}

// CurveBySize returns the supported named curve of the size in bits
func CurveBySize(bits int) (elliptic.Curve, error) {
	for _, nc := range namedCurves {
		if nc.curve.Params().BitSize == bits {
			return nc.curve, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedCurve, "size %d", bits)
}

// CurveOID returns the named curve OID of the key
func CurveOID(pub *ecdsa.PublicKey) (asn1.ObjectIdentifier, error) {
	nc, err := curveByKey(pub.Curve)
	if err != nil {
		return nil, err
	}
	return nc.id, nil
}

// MarshalECPoint returns the uncompressed curve point of the key
func MarshalECPoint(pub *ecdsa.PublicKey) ([]byte, error) {
	if pub == nil || pub.Curve == nil {
		return nil, errors.New("missing EC public key")
	}
	if _, err := curveByKey(pub.Curve); err != nil {
		return nil, err
	}
	k, err := pub.ECDH()
	if err != nil {
		return nil, errors.WithMessage(err, "invalid EC public key")
	}
	return k.Bytes(), nil
}

// AddECPublicKeyInfo adds SubjectPublicKeyInfo of the EC key
func AddECPublicKeyInfo(b *cryptobyte.Builder, curveID asn1.ObjectIdentifier, point []byte) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oid.PublicKeyECDSA)
			b.AddASN1ObjectIdentifier(curveID)
		})
		b.AddASN1BitString(point)
	})
}

// EncodeECPublicKey returns DER encoded SubjectPublicKeyInfo
func EncodeECPublicKey(pub *ecdsa.PublicKey) ([]byte, error) {
	point, err := MarshalECPoint(pub)
	if err != nil {
		return nil, err
	}
	curveID, err := CurveOID(pub)
	if err != nil {
		return nil, err
	}
	return asn1util.Build(func(b *cryptobyte.Builder) {
		AddECPublicKeyInfo(b, curveID, point)
	})
}

// EncodeECPrivateKey returns DER encoded ECPrivateKey,
// with both optional fields populated.
func EncodeECPrivateKey(priv *ecdsa.PrivateKey) ([]byte, error) {
	if priv == nil || priv.D == nil {
		return nil, errors.New("missing EC private key")
	}
	point, err := MarshalECPoint(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	curveID, err := CurveOID(&priv.PublicKey)
	if err != nil {
		return nil, err
	}

	return asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1Int64(ecPrivateKeyVersion)
			b.AddASN1OctetString(asn1util.UnsignedBytes(priv.D))
			asn1util.AddExplicit(b, 0, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(curveID)
				})
			})
			asn1util.AddExplicit(b, 1, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1BitString(point)
				})
			})
		})
	})
}

// ParseECPublicKey parses DER encoded SubjectPublicKeyInfo of EC key
func ParseECPublicKey(der []byte) (*ecdsa.PublicKey, error) {
	input := cryptobyte.String(der)

	var spki, alg cryptobyte.String
	var algID, curveID asn1.ObjectIdentifier
	if !input.ReadASN1(&spki, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid SubjectPublicKeyInfo")
	}
	if !spki.ReadASN1(&alg, cbasn1.SEQUENCE) ||
		!alg.ReadASN1ObjectIdentifier(&algID) ||
		!alg.ReadASN1ObjectIdentifier(&curveID) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid algorithm identifier")
	}
	if !algID.Equal(oid.PublicKeyECDSA) {
		return nil, errors.Wrapf(asn1util.ErrParse, "unexpected algorithm: %s", algID.String())
	}
	var bs asn1.BitString
	if !spki.ReadASN1BitString(&bs) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid public key BIT STRING")
	}

	nc, err := curveByOID(curveID)
	if err != nil {
		return nil, err
	}
	return nc.publicKey(bs.RightAlign())
}

// ParseECPrivateKey parses DER encoded ECPrivateKey.
// The public key under [1] may be wrapped in a SEQUENCE, as produced
// by EncodeECPrivateKey, or be a BIT STRING as in RFC 5915.
// If the public key is present, it must match the private scalar.
func ParseECPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	fields, err := asn1util.ReadSequence(der)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid EC private key")
	}

	el, err := asn1util.Expect(fields, 0, cbasn1.INTEGER, "version")
	if err != nil {
		return nil, err
	}
	version, err := asn1util.BigInt(el, "version")
	if err != nil {
		return nil, err
	}
	if version.Int64() != ecPrivateKeyVersion {
		return nil, errors.Wrapf(asn1util.ErrParse, "unsupported EC private key version: %s", version.String())
	}

	dEl, err := asn1util.Expect(fields, 1, cbasn1.OCTET_STRING, "private key")
	if err != nil {
		return nil, err
	}

	var curveID asn1.ObjectIdentifier
	var point []byte
	for _, f := range fields[2:] {
		switch f.Tag {
		case cbasn1.Tag(0).Constructed().ContextSpecific():
			curveID, err = readCurveParameter(f.Reader())
		case cbasn1.Tag(1).Constructed().ContextSpecific():
			point, err = readPublicPoint(f.Reader())
		}
		if err != nil {
			return nil, err
		}
	}
	if curveID == nil {
		return nil, errors.Wrap(asn1util.ErrParse, "missing curve parameters")
	}

	nc, err := curveByOID(curveID)
	if err != nil {
		return nil, err
	}

	size := (nc.curve.Params().BitSize + 7) / 8
	if len(dEl.Content) > size {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid private key length")
	}
	padded := make([]byte, size)
	copy(padded[size-len(dEl.Content):], dEl.Content)

	pk, err := nc.ecdh.NewPrivateKey(padded)
	if err != nil {
		return nil, errors.Wrapf(asn1util.ErrParse, "invalid private key: %s", err.Error())
	}
	derived := pk.PublicKey().Bytes()
	if point != nil && !bytes.Equal(point, derived) {
		return nil, errors.Wrap(asn1util.ErrParse, "public key does not match private key")
	}

	pub, err := nc.publicKey(derived)
	if err != nil {
		return nil, err
	}
	return &ecdsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(padded),
	}, nil
}

func readCurveParameter(s cryptobyte.String) (asn1.ObjectIdentifier, error) {
	var id asn1.ObjectIdentifier
	if s.PeekASN1Tag(cbasn1.SEQUENCE) {
		var seq cryptobyte.String
		if !s.ReadASN1(&seq, cbasn1.SEQUENCE) || !seq.ReadASN1ObjectIdentifier(&id) {
			return nil, errors.Wrap(asn1util.ErrParse, "invalid curve parameters")
		}
		return id, nil
	}
	if !s.ReadASN1ObjectIdentifier(&id) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid curve parameters")
	}
	return id, nil
}

func readPublicPoint(s cryptobyte.String) ([]byte, error) {
	if s.PeekASN1Tag(cbasn1.SEQUENCE) {
		var seq cryptobyte.String
		if !s.ReadASN1(&seq, cbasn1.SEQUENCE) {
			return nil, errors.Wrap(asn1util.ErrParse, "invalid public key")
		}
		s = seq
	}
	var bs asn1.BitString
	if !s.ReadASN1BitString(&bs) {
		return nil, errors.Wrap(asn1util.ErrParse, "invalid public key BIT STRING")
	}
	return bs.RightAlign(), nil
}

func (nc *namedCurve) publicKey(point []byte) (*ecdsa.PublicKey, error) {
	if _, err := nc.ecdh.NewPublicKey(point); err != nil {
		return nil, errors.Wrapf(asn1util.ErrParse, "invalid curve point: %s", err.Error())
	}
	size := (nc.curve.Params().BitSize + 7) / 8
	return &ecdsa.PublicKey{
		Curve: nc.curve,
		X:     new(big.Int).SetBytes(point[1 : 1+size]),
		Y:     new(big.Int).SetBytes(point[1+size:]),
	}, nil
}
