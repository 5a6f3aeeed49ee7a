package cryptoprov

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"io"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/pkicodec", "cryptoprov")

// ProviderName is the name of the default provider
const ProviderName = "inmem"

// Provider defines the primitives required by the codecs
type Provider interface {
	// Name of the provider
	Name() string
	// GenerateRSAKey returns RSA key of the specified modulus size in bits
	GenerateRSAKey(bits int) (*rsa.PrivateKey, error)
	// GenerateECDSAKey returns ECDSA key on the provider's curve
	GenerateECDSAKey() (*ecdsa.PrivateKey, error)
	// SignRSASHA256 returns PKCS#1 v1.5 signature over SHA-256 digest of data
	SignRSASHA256(data []byte, key *rsa.PrivateKey) ([]byte, error)
	// SignECDSASHA256 returns ECDSA signature over SHA-256 digest of data,
	// a fresh nonce is drawn from random on each call
	SignECDSASHA256(data []byte, key *ecdsa.PrivateKey, random io.Reader) (r, s *big.Int, err error)
}

// Option configures the in-memory provider
type Option func(*inmem)

// WithRandom specifies the source of randomness
func WithRandom(r io.Reader) Option {
	return func(p *inmem) {
		p.random = r
	}
}

// WithCurve specifies the curve for generated EC keys
func WithCurve(c elliptic.Curve) Option {
	return func(p *inmem) {
		p.curve = c
	}
}

type inmem struct {
	random io.Reader
	curve  elliptic.Curve
}

// New returns in-memory Provider, by default
// using crypto/rand and P-256 curve
func New(opts ...Option) Provider {
	p := &inmem{
		random: rand.Reader,
		curve:  elliptic.P256(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default provider
var Default = New()

func (p *inmem) Name() string {
	return ProviderName
}

func (p *inmem) GenerateRSAKey(bits int) (*rsa.PrivateKey, error) {
	defer metricskey.PerfCryptoOperation.MeasureSince(time.Now(), ProviderName, "genkey_rsa")
	logger.KV(xlog.DEBUG, "api", "GenerateRSAKey", "size", bits)

	key, err := rsa.GenerateKey(p.random, bits)
	if err != nil {
		return nil, errors.WithMessagef(err, "generate RSA key")
	}
	return key, nil
}

func (p *inmem) GenerateECDSAKey() (*ecdsa.PrivateKey, error) {
	defer metricskey.PerfCryptoOperation.MeasureSince(time.Now(), ProviderName, "genkey_ecdsa")
	logger.KV(xlog.DEBUG, "api", "GenerateECDSAKey", "curve", p.curve.Params().Name)

	key, err := ecdsa.GenerateKey(p.curve, p.random)
	if err != nil {
		return nil, errors.WithMessagef(err, "generate ECDSA key")
	}
	return key, nil
}

func (p *inmem) SignRSASHA256(data []byte, key *rsa.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, errors.New("missing RSA key")
	}
	defer metricskey.PerfCryptoOperation.MeasureSince(time.Now(), ProviderName, "sign_rsa")
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(p.random, key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, errors.WithMessagef(err, "sign RSA")
	}
	return sig, nil
}

func (p *inmem) SignECDSASHA256(data []byte, key *ecdsa.PrivateKey, random io.Reader) (*big.Int, *big.Int, error) {
	if key == nil {
		return nil, nil, errors.New("missing ECDSA key")
	}
	if random == nil {
		random = p.random
	}
	defer metricskey.PerfCryptoOperation.MeasureSince(time.Now(), ProviderName, "sign_ecdsa")
	digest := sha256.Sum256(data)
	r, s, err := ecdsa.Sign(random, key, digest[:])
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "sign ECDSA")
	}
	return r, s, nil
}
