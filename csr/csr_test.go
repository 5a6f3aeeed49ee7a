package csr_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"io"
	"math/big"
	"regexp"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/armor"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/cryptoprov"
	"github.com/effective-security/pkicodec/csr"
	"github.com/effective-security/pkicodec/dn"
	"github.com/effective-security/pkicodec/keys"
	"github.com/effective-security/pkicodec/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// countingProvider counts signatures, and fails them when err is set
type countingProvider struct {
	cryptoprov.Provider
	signed int
	err    error
}

func (p *countingProvider) SignRSASHA256(data []byte, key *rsa.PrivateKey) ([]byte, error) {
	p.signed++
	if p.err != nil {
		return nil, p.err
	}
	return p.Provider.SignRSASHA256(data, key)
}

func (p *countingProvider) SignECDSASHA256(data []byte, key *ecdsa.PrivateKey, random io.Reader) (*big.Int, *big.Int, error) {
	p.signed++
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.Provider.SignECDSASHA256(data, key, random)
}

var base64Line = regexp.MustCompile(`^[A-Za-z0-9+/=]{1,64}$`)

func testNames() dn.Names {
	return dn.Names{}.
		Add("cn", "example.com").
		Add("o", "Test").
		Add("c", "US")
}

func TestBuildRSA(t *testing.T) {
	key, err := cryptoprov.Default.GenerateRSAKey(2048)
	require.NoError(t, err)

	prov := csr.NewProvider(cryptoprov.Default)
	pem, err := prov.BuildRSA(testNames(), key, &key.PublicKey)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pem, "-----BEGIN CERTIFICATE REQUEST-----\r\n"))
	assert.True(t, strings.HasSuffix(pem, "\r\n-----END CERTIFICATE REQUEST-----"))
	assert.Equal(t, strings.Count(pem, "\n"), strings.Count(pem, "\r\n"))

	lines := strings.Split(pem, "\r\n")
	require.Greater(t, len(lines), 2)
	for _, line := range lines[1 : len(lines)-1] {
		assert.Regexp(t, base64Line, line)
	}

	req, err := csr.ParsePEM(pem)
	require.NoError(t, err)
	assert.Equal(t, x509.SHA256WithRSA, req.SignatureAlgorithm)
	assert.Equal(t, "example.com", req.Subject.CommonName)
	assert.Equal(t, []string{"Test"}, req.Subject.Organization)
	assert.Equal(t, []string{"US"}, req.Subject.Country)
	assert.True(t, key.PublicKey.Equal(req.PublicKey))

	// PKCS#1 v1.5 is deterministic
	pem2, err := prov.BuildRSA(testNames(), key, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, pem, pem2)
}

func TestBuildLayout(t *testing.T) {
	rk, err := cryptoprov.Default.GenerateRSAKey(1024)
	require.NoError(t, err)
	ek, err := cryptoprov.Default.GenerateECDSAKey()
	require.NoError(t, err)

	prov := csr.NewProvider(cryptoprov.Default)

	tcases := []struct {
		build  func() (string, error)
		sigAlg string
		params int
	}{
		{func() (string, error) { return prov.BuildRSA(testNames(), rk, &rk.PublicKey) }, oid.SignatureSHA256WithRSA.String(), 2},
		{func() (string, error) { return prov.BuildECC(testNames(), ek, &ek.PublicKey) }, oid.SignatureECDSAWithSHA256.String(), 1},
	}

	for _, tc := range tcases {
		pem, err := tc.build()
		require.NoError(t, err)

		der, err := armor.UnframeBlock(pem, armor.TypeCertificateRequest)
		require.NoError(t, err)

		outer, err := asn1util.ReadSequence(der)
		require.NoError(t, err)
		require.Len(t, outer, 3)

		info, err := asn1util.ReadSequence(outer[0].Full)
		require.NoError(t, err)
		require.Len(t, info, 4)
		assert.Equal(t, []byte{0x02, 0x01, 0x00}, info[0].Full)

		name, err := dn.Encode(testNames())
		require.NoError(t, err)
		assert.Equal(t, name, info[1].Full)
		assert.Equal(t, []byte{0xa0, 0x00}, info[3].Full)

		// attributes decode as an empty [0] SET OF Attribute
		var tbs struct {
			Version    int
			Subject    asn1.RawValue
			PublicKey  asn1.RawValue
			Attributes []pkix.AttributeTypeAndValueSET `asn1:"tag:0"`
		}
		rest, err := asn1.Unmarshal(outer[0].Full, &tbs)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Empty(t, tbs.Attributes)

		alg, err := asn1util.ReadSequence(outer[1].Full)
		require.NoError(t, err)
		require.Len(t, alg, tc.params)
		id, err := asn1util.ObjectIdentifier(alg[0], "algorithm")
		require.NoError(t, err)
		assert.Equal(t, tc.sigAlg, id)

		assert.True(t, outer[2].Is(cbasn1.BIT_STRING))
	}
}

func TestBuildECC(t *testing.T) {
	for _, c := range []elliptic.Curve{elliptic.P256(), elliptic.P384()} {
		cp := cryptoprov.New(cryptoprov.WithCurve(c))
		key, err := cp.GenerateECDSAKey()
		require.NoError(t, err)

		prov := csr.NewProvider(cp)
		pem, err := prov.BuildECC(testNames(), key, &key.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, strings.Count(pem, "\n"), strings.Count(pem, "\r\n"))

		req, err := csr.ParsePEM(pem)
		require.NoError(t, err)
		assert.Equal(t, x509.ECDSAWithSHA256, req.SignatureAlgorithm)
		assert.Equal(t, "example.com", req.Subject.CommonName)
		assert.True(t, key.PublicKey.Equal(req.PublicKey))

		// fresh nonce on each call
		pem2, err := prov.BuildECC(testNames(), key, &key.PublicKey)
		require.NoError(t, err)
		assert.NotEqual(t, pem, pem2)
		_, err = csr.ParsePEM(pem2)
		require.NoError(t, err)
	}
}

func TestBuildUnknownAttribute(t *testing.T) {
	rk, err := cryptoprov.Default.GenerateRSAKey(1024)
	require.NoError(t, err)
	ek, err := cryptoprov.Default.GenerateECDSAKey()
	require.NoError(t, err)

	cp := &countingProvider{Provider: cryptoprov.Default}
	prov := csr.NewProvider(cp)
	names := testNames().Add("nickname", "bob")

	pem, err := prov.BuildRSA(names, rk, &rk.PublicKey)
	require.Error(t, err)
	assert.Empty(t, pem)
	assert.True(t, errors.Is(err, dn.ErrUnknownAttribute))

	pem, err = prov.BuildECC(names, ek, &ek.PublicKey)
	require.Error(t, err)
	assert.Empty(t, pem)
	assert.True(t, errors.Is(err, dn.ErrUnknownAttribute))

	assert.Equal(t, 0, cp.signed)
}

func TestBuildSignerError(t *testing.T) {
	rk, err := cryptoprov.Default.GenerateRSAKey(1024)
	require.NoError(t, err)
	ek, err := cryptoprov.Default.GenerateECDSAKey()
	require.NoError(t, err)

	signErr := errors.New("signer unavailable")
	cp := &countingProvider{Provider: cryptoprov.Default, err: signErr}
	prov := csr.NewProvider(cp)

	_, err = prov.BuildRSA(testNames(), rk, &rk.PublicKey)
	assert.Equal(t, signErr, err)

	_, err = prov.Build(testNames(), ek)
	assert.Equal(t, signErr, err)
	assert.Equal(t, 2, cp.signed)

	_, err = prov.BuildRSA(testNames(), nil, nil)
	assert.EqualError(t, err, "missing RSA key")
	_, err = prov.BuildECC(testNames(), nil, nil)
	assert.EqualError(t, err, "missing EC key")
	_, err = prov.Build(testNames(), nil)
	assert.EqualError(t, err, "unsupported key: <nil>")
}

func TestGenerateKeyAndRequest(t *testing.T) {
	prov := csr.NewProvider(cryptoprov.Default)

	tt := []struct {
		name   string
		req    *csr.CertificateRequest
		experr string
	}{
		{
			name:   "no key",
			req:    &csr.CertificateRequest{Names: testNames()},
			experr: "invalid key request",
		},
		{
			name:   "no names",
			req:    &csr.CertificateRequest{KeyRequest: &csr.KeyRequest{Algo: "RSA", Size: 1024}},
			experr: "missing subject information",
		},
		{
			name:   "rsa size",
			req:    &csr.CertificateRequest{Names: testNames(), KeyRequest: &csr.KeyRequest{Algo: "RSA", Size: 3072}},
			experr: "3072: unsupported RSA key size",
		},
		{
			name:   "algo",
			req:    &csr.CertificateRequest{Names: testNames(), KeyRequest: &csr.KeyRequest{Algo: "DSA", Size: 1024}},
			experr: `invalid key algorithm: "DSA"`,
		},
		{
			name:   "curve mismatch",
			req:    &csr.CertificateRequest{Names: testNames(), KeyRequest: &csr.KeyRequest{Algo: "ECDSA", Size: 384}},
			experr: "provider inmem generated 256 bit EC key, requested 384",
		},
		{
			name: "valid rsa",
			req:  &csr.CertificateRequest{Names: testNames(), KeyRequest: &csr.KeyRequest{Algo: "rsa", Size: 1024}},
		},
		{
			name: "valid ecdsa",
			req:  &csr.CertificateRequest{Names: testNames(), KeyRequest: &csr.KeyRequest{Algo: "EC", Size: 256}},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			pem, k, err := prov.GenerateKeyAndRequest(tc.req)
			if tc.experr != "" {
				assert.Nil(t, k)
				require.Error(t, err)
				assert.Equal(t, tc.experr, err.Error())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, k)

			req, err := csr.ParsePEM(pem)
			require.NoError(t, err)
			assert.Equal(t, "example.com", req.Subject.CommonName)

			pub, ok := req.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
			require.True(t, ok)
			assert.True(t, pub.Equal(k.Public()))
		})
	}
}

func TestParsePEM(t *testing.T) {
	key, err := cryptoprov.Default.GenerateECDSAKey()
	require.NoError(t, err)
	pem, err := csr.NewProvider(cryptoprov.Default).BuildECC(testNames(), key, &key.PublicKey)
	require.NoError(t, err)

	_, err = csr.ParsePEM("-----BEGIN CERTIFICATE REQUEST-----")
	assert.True(t, errors.Is(err, armor.ErrFormat))

	cert := strings.ReplaceAll(pem, "CERTIFICATE REQUEST", "CERTIFICATE")
	_, err = csr.ParsePEM(cert)
	assert.True(t, errors.Is(err, armor.ErrFormat))

	garbage := armor.FrameBlock([]byte{0x30, 0x03, 0x02, 0x01, 0x00}, armor.TypeCertificateRequest, armor.CSROptions)
	_, err = csr.ParsePEM(garbage)
	assert.True(t, errors.Is(err, asn1util.ErrParse))

	// request signed by another key
	der, err := armor.Unframe(pem)
	require.NoError(t, err)
	outer, err := asn1util.ReadSequence(der)
	require.NoError(t, err)

	other, err := cryptoprov.Default.GenerateECDSAKey()
	require.NoError(t, err)
	pem2, err := csr.NewProvider(cryptoprov.Default).BuildECC(testNames(), other, &other.PublicKey)
	require.NoError(t, err)
	der2, err := armor.Unframe(pem2)
	require.NoError(t, err)
	outer2, err := asn1util.ReadSequence(der2)
	require.NoError(t, err)

	mixed, err := asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddBytes(outer[0].Full)
			b.AddBytes(outer2[1].Full)
			b.AddBytes(outer2[2].Full)
		})
	})
	require.NoError(t, err)

	_, err = csr.Parse(mixed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature")
}

func TestParseAttributes(t *testing.T) {
	key, err := cryptoprov.Default.GenerateRSAKey(1024)
	require.NoError(t, err)

	name, err := dn.Encode(testNames())
	require.NoError(t, err)

	signed := func(attrs cryptobyte.BuilderContinuation) []byte {
		info, err := asn1util.Build(func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1Int64(0)
				b.AddBytes(name)
				keys.AddRSAPublicKeyInfo(b, &key.PublicKey)
				attrs(b)
			})
		})
		require.NoError(t, err)

		digest := sha256.Sum256(info)
		sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
		require.NoError(t, err)

		der, err := asn1util.Build(func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddBytes(info)
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(oid.SignatureSHA256WithRSA)
					b.AddASN1NULL()
				})
				b.AddASN1BitString(sig)
			})
		})
		require.NoError(t, err)
		return der
	}

	// NULL wrapped in explicit [0] is accepted by crypto/x509 alone
	der := signed(func(b *cryptobyte.Builder) {
		asn1util.AddExplicit(b, 0, func(b *cryptobyte.Builder) {
			b.AddASN1NULL()
		})
	})
	_, err = x509.ParseCertificateRequest(der)
	require.NoError(t, err)
	_, err = csr.Parse(der)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asn1util.ErrParse))
	assert.Contains(t, err.Error(), "unexpected attribute tag: 0x05")

	// attributes field is required
	der = signed(func(*cryptobyte.Builder) {})
	_, err = csr.Parse(der)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asn1util.ErrParse))

	// requests with attributes, as produced by crypto/x509
	tmpl := &x509.CertificateRequest{
		Subject:  pkix.Name{CommonName: "example.com"},
		DNSNames: []string{"example.com", "www.example.com"},
	}
	der, err = x509.CreateCertificateRequest(rand.Reader, tmpl, key)
	require.NoError(t, err)
	req, err := csr.Parse(der)
	require.NoError(t, err)
	assert.Equal(t, tmpl.DNSNames, req.DNSNames)
}

func TestLoadCertificateRequest(t *testing.T) {
	r, err := csr.LoadCertificateRequest("testdata/rsa_profile.yaml")
	require.NoError(t, err)
	assert.Equal(t, testNames(), r.Names)
	require.NotNil(t, r.KeyRequest)
	assert.Equal(t, csr.AlgoRSA, r.KeyRequest.Algorithm())
	assert.Equal(t, 2048, r.KeyRequest.Size)

	r, err = csr.LoadCertificateRequest("testdata/ec_profile.json")
	require.NoError(t, err)
	assert.Equal(t, "commonName=ec.example.com, ou=Unit", r.Names.String())
	assert.Equal(t, csr.AlgoECDSA, r.KeyRequest.Algorithm())
	assert.Equal(t, 256, r.KeyRequest.Size)

	_, err = csr.LoadCertificateRequest("testdata/missing.yaml")
	assert.Error(t, err)

	_, err = csr.ParseCertificateRequest([]byte("names: [\n"))
	assert.Error(t, err)

	_, err = csr.ParseCertificateRequest([]byte("names:\n  - name: cn\n    value: ' '\n"))
	assert.EqualError(t, err, `empty name: "cn"`)

	_, err = csr.ParseCertificateRequest([]byte("names:\n  - name: cn\n    value: x\nkey:\n  algo: ecdsa\n  size: 224\n"))
	assert.True(t, errors.Is(err, keys.ErrUnsupportedCurve))
}
