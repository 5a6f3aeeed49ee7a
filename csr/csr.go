package csr

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/armor"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/cryptoprov"
	"github.com/effective-security/pkicodec/dn"
	"github.com/effective-security/pkicodec/keys"
	"github.com/effective-security/pkicodec/metricskey"
	"github.com/effective-security/pkicodec/oid"
	"github.com/effective-security/xlog"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/pkicodec", "csr")

// requestVersion is the CertificationRequestInfo version
const requestVersion = 0

// attributesTag is the implicit [0] tag of the SET OF Attribute
var attributesTag = cbasn1.Tag(0).Constructed().ContextSpecific()

// Provider builds certificate requests,
// with keys and signatures from cryptoprov.Provider
type Provider struct {
	provider cryptoprov.Provider
	names    *dn.Codec
	random   io.Reader
}

// Option configures the Provider
type Option func(*Provider)

// WithRandom specifies the source of ECDSA nonces
func WithRandom(r io.Reader) Option {
	return func(p *Provider) {
		p.random = r
	}
}

// WithNameCodec specifies the codec for the subject
func WithNameCodec(c *dn.Codec) Option {
	return func(p *Provider) {
		p.names = c
	}
}

// NewProvider returns Provider
func NewProvider(provider cryptoprov.Provider, opts ...Option) *Provider {
	p := &Provider{
		provider: provider,
		names:    dn.Default,
		random:   rand.Reader,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildRSA returns PEM encoded request for RSA key
func (c *Provider) BuildRSA(names dn.Names, priv *rsa.PrivateKey, pub *rsa.PublicKey) (string, error) {
	if priv == nil || pub == nil {
		return "", errors.New("missing RSA key")
	}
	defer metricskey.PerfCodecOperation.MeasureSince(time.Now(), "csr", "build_rsa")

	info, err := c.buildInfo(names, func(b *cryptobyte.Builder) {
		keys.AddRSAPublicKeyInfo(b, pub)
	})
	if err != nil {
		return "", err
	}

	sig, err := c.provider.SignRSASHA256(info, priv)
	if err != nil {
		return "", err
	}

	return frame(info, oid.SignatureSHA256WithRSA, true, sig)
}

// BuildECC returns PEM encoded request for EC key
func (c *Provider) BuildECC(names dn.Names, priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) (string, error) {
	if priv == nil || pub == nil {
		return "", errors.New("missing EC key")
	}
	defer metricskey.PerfCodecOperation.MeasureSince(time.Now(), "csr", "build_ecc")
	point, err := keys.MarshalECPoint(pub)
	if err != nil {
		return "", err
	}
	curveID, err := keys.CurveOID(pub)
	if err != nil {
		return "", err
	}

	info, err := c.buildInfo(names, func(b *cryptobyte.Builder) {
		keys.AddECPublicKeyInfo(b, curveID, point)
	})
	if err != nil {
		return "", err
	}

	r, s, err := c.provider.SignECDSASHA256(info, priv, c.random)
	if err != nil {
		return "", err
	}

	sig, err := asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1BigInt(r)
			b.AddASN1BigInt(s)
		})
	})
	if err != nil {
		return "", err
	}

	return frame(info, oid.SignatureECDSAWithSHA256, false, sig)
}

// Build returns PEM encoded request for RSA or ECDSA private key
func (c *Provider) Build(names dn.Names, priv crypto.Signer) (string, error) {
	switch k := priv.(type) {
	case *rsa.PrivateKey:
		return c.BuildRSA(names, k, &k.PublicKey)
	case *ecdsa.PrivateKey:
		return c.BuildECC(names, k, &k.PublicKey)
	default:
		return "", errors.Errorf("unsupported key: %T", priv)
	}
}

// GenerateKeyAndRequest returns PEM encoded request,
// and a new private key generated for the KeyRequest
func (c *Provider) GenerateKeyAndRequest(req *CertificateRequest) (string, crypto.Signer, error) {
	if req.KeyRequest == nil {
		return "", nil, errors.New("invalid key request")
	}
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	var priv crypto.Signer
	switch req.KeyRequest.Algorithm() {
	case AlgoRSA:
		k, err := c.provider.GenerateRSAKey(req.KeyRequest.Size)
		if err != nil {
			return "", nil, err
		}
		priv = k
	default:
		k, err := c.provider.GenerateECDSAKey()
		if err != nil {
			return "", nil, err
		}
		if bits := k.Curve.Params().BitSize; bits != req.KeyRequest.Size {
			return "", nil, errors.Errorf("provider %s generated %d bit EC key, requested %d",
				c.provider.Name(), bits, req.KeyRequest.Size)
		}
		priv = k
	}

	logger.KV(xlog.DEBUG, "algo", req.KeyRequest.Algorithm(), "size", req.KeyRequest.Size)

	pem, err := c.Build(req.Names, priv)
	if err != nil {
		return "", nil, err
	}
	return pem, priv, nil
}

// buildInfo returns DER encoded CertificationRequestInfo.
// The names are encoded before anything else,
// so an unknown attribute fails without signing.
func (c *Provider) buildInfo(names dn.Names, spki cryptobyte.BuilderContinuation) ([]byte, error) {
	name, err := c.names.Encode(names)
	if err != nil {
		return nil, err
	}

	return asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1Int64(requestVersion)
			b.AddBytes(name)
			spki(b)
			// no attributes: empty [0] SET
			b.AddASN1(attributesTag, func(*cryptobyte.Builder) {})
		})
	})
}

func frame(info []byte, sigAlg asn1.ObjectIdentifier, nullParams bool, sig []byte) (string, error) {
	der, err := asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddBytes(info)
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(sigAlg)
				if nullParams {
					b.AddASN1NULL()
				}
			})
			b.AddASN1BitString(sig)
		})
	})
	if err != nil {
		return "", err
	}
	return armor.FrameBlock(der, armor.TypeCertificateRequest, armor.CSROptions), nil
}

// ParsePEM unframes the request and verifies its signature
func ParsePEM(text string) (*x509.CertificateRequest, error) {
	der, err := armor.UnframeBlock(text, armor.TypeCertificateRequest)
	if err != nil {
		return nil, err
	}
	return Parse(der)
}

// Parse parses DER encoded request and verifies its signature
func Parse(der []byte) (*x509.CertificateRequest, error) {
	req, err := x509.ParseCertificateRequest(der)
	if err != nil {
		return nil, errors.Wrapf(asn1util.ErrParse, "failed to parse request: %s", err.Error())
	}
	if err = checkAttributes(req.RawTBSCertificateRequest); err != nil {
		return nil, err
	}
	if err = req.CheckSignature(); err != nil {
		return nil, errors.WithMessage(err, "invalid signature")
	}
	return req, nil
}

// checkAttributes returns error if the attributes field of
// CertificationRequestInfo is not a [0] SET OF Attribute.
// crypto/x509 skips attributes it cannot parse.
func checkAttributes(info []byte) error {
	fields, err := asn1util.ReadSequence(info)
	if err != nil {
		return err
	}
	attrs, err := asn1util.Expect(fields, 3, attributesTag, "attributes")
	if err != nil {
		return err
	}
	list, err := asn1util.ReadElements(attrs.Content)
	if err != nil {
		return err
	}
	for _, a := range list {
		if !a.Is(cbasn1.SEQUENCE) {
			return errors.Wrapf(asn1util.ErrParse, "unexpected attribute tag: 0x%02x", uint8(a.Tag))
		}
	}
	return nil
}
