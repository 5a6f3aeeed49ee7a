package certinfo

import (
	"encoding/asn1"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/armor"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/certutil"
	"github.com/effective-security/pkicodec/metricskey"
	"github.com/effective-security/pkicodec/oid"
	"github.com/effective-security/xlog"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/pkicodec", "certinfo")

// Validity of the certificate
type Validity struct {
	NotBefore time.Time `json:"not_before" yaml:"not_before"`
	NotAfter  time.Time `json:"not_after" yaml:"not_after"`
}

// PublicKeyInfo describes the subject public key
type PublicKeyInfo struct {
	// Algorithm is the dotted OID of the key algorithm
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	// Raw is RSAPublicKey DER for RSA keys,
	// or the BIT STRING value for other keys
	Raw []byte `json:"-" yaml:"-"`
	// BitLength is the modulus size for RSA keys,
	// or the size of Raw in bits for other keys
	BitLength int `json:"bit_length" yaml:"bit_length"`
	// SHA1 and SHA256 are thumbprints of SubjectPublicKeyInfo DER
	SHA1   string `json:"sha1" yaml:"sha1"`
	SHA256 string `json:"sha256" yaml:"sha256"`
}

// IsRSA returns true if the key is RSA
func (k *PublicKeyInfo) IsRSA() bool {
	return k.Algorithm == oid.PublicKeyRSA.String()
}

// Certificate is a decoded X.509 certificate
type Certificate struct {
	// Version is 1 for certificates without the version field,
	// or the encoded version plus one
	Version            int               `json:"version" yaml:"version"`
	SerialNumber       *big.Int          `json:"serial_number" yaml:"serial_number"`
	SignatureAlgorithm string            `json:"signature_algorithm" yaml:"signature_algorithm"`
	Issuer             map[string]string `json:"issuer" yaml:"issuer"`
	Validity           Validity          `json:"validity" yaml:"validity"`
	Subject            map[string]string `json:"subject" yaml:"subject"`
	PublicKey          PublicKeyInfo     `json:"public_key" yaml:"public_key"`

	// MD5, SHA1 and SHA256 are thumbprints of the certificate DER
	MD5    string `json:"md5" yaml:"md5"`
	SHA1   string `json:"sha1" yaml:"sha1"`
	SHA256 string `json:"sha256" yaml:"sha256"`

	// SubjectAltNames is nil, unless the certificate is v3
	SubjectAltNames []string             `json:"san,omitempty" yaml:"san,omitempty"`
	Extensions      []certutil.Extension `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Raw is the certificate DER
	Raw []byte `json:"-" yaml:"-"`

	issuerOrder  []string
	subjectOrder []string
}

// IsV3 returns true if extensions were examined
func (c *Certificate) IsV3() bool {
	return c.Version > 2
}

// IssuerName returns Issuer as comma separated list
func (c *Certificate) IssuerName() string {
	return nameString(c.Issuer, c.issuerOrder)
}

// SubjectName returns Subject as comma separated list
func (c *Certificate) SubjectName() string {
	return nameString(c.Subject, c.subjectOrder)
}

// layout is the position of TBSCertificate fields
type layout struct {
	versioned bool
	serial    int
	signature int
	issuer    int
	validity  int
	subject   int
	spki      int
}

var (
	layoutV1 = layout{
		serial:    0,
		signature: 1,
		issuer:    2,
		validity:  3,
		subject:   4,
		spki:      5,
	}
	layoutVersioned = layout{
		versioned: true,
		serial:    1,
		signature: 2,
		issuer:    3,
		validity:  4,
		subject:   5,
		spki:      6,
	}
)

var (
	tagVersion    = cbasn1.Tag(0).Constructed().ContextSpecific()
	tagExtensions = cbasn1.Tag(3).Constructed().ContextSpecific()
)

// Parse decodes PEM encoded certificate
func Parse(text string) (*Certificate, error) {
	der, err := armor.UnframeBlock(text, armor.TypeCertificate)
	if err != nil {
		return nil, err
	}
	return ParseDER(der)
}

// ParseDER decodes DER encoded certificate
func ParseDER(der []byte) (*Certificate, error) {
	defer metricskey.PerfCodecOperation.MeasureSince(time.Now(), "certificate", "parse")

	outer, err := asn1util.ReadSequence(der)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid certificate")
	}
	tbsEl, err := asn1util.Expect(outer, 0, cbasn1.SEQUENCE, "TBSCertificate")
	if err != nil {
		return nil, err
	}
	tbs, err := asn1util.ReadElements(tbsEl.Content)
	if err != nil {
		return nil, err
	}
	if len(tbs) == 0 {
		return nil, errors.Wrap(asn1util.ErrParse, "empty TBSCertificate")
	}

	c := &Certificate{
		Raw:     der,
		MD5:     certutil.MD5(der),
		SHA1:    certutil.SHA1(der),
		SHA256:  certutil.SHA256(der),
		Version: 1,
	}

	l, rawVersion, err := selectLayout(tbs[0])
	if err != nil {
		return nil, err
	}
	if l.versioned {
		c.Version = rawVersion + 1
	}

	el, err := asn1util.Expect(tbs, l.serial, cbasn1.INTEGER, "serial number")
	if err != nil {
		return nil, err
	}
	if c.SerialNumber, err = asn1util.BigInt(el, "serial number"); err != nil {
		return nil, err
	}

	if el, err = asn1util.Expect(tbs, l.signature, cbasn1.SEQUENCE, "signature"); err != nil {
		return nil, err
	}
	if c.SignatureAlgorithm, err = algorithmID(el, "signature"); err != nil {
		return nil, err
	}

	if el, err = asn1util.Expect(tbs, l.issuer, cbasn1.SEQUENCE, "issuer"); err != nil {
		return nil, err
	}
	if c.Issuer, c.issuerOrder, err = parseName(el, issuerStrings); err != nil {
		return nil, errors.WithMessage(err, "issuer")
	}

	if el, err = asn1util.Expect(tbs, l.validity, cbasn1.SEQUENCE, "validity"); err != nil {
		return nil, err
	}
	if c.Validity, err = parseValidity(el); err != nil {
		return nil, err
	}

	if el, err = asn1util.Expect(tbs, l.subject, cbasn1.SEQUENCE, "subject"); err != nil {
		return nil, err
	}
	if c.Subject, c.subjectOrder, err = parseName(el, subjectStrings); err != nil {
		return nil, errors.WithMessage(err, "subject")
	}

	if el, err = asn1util.Expect(tbs, l.spki, cbasn1.SEQUENCE, "subject public key info"); err != nil {
		return nil, err
	}
	if c.PublicKey, err = parsePublicKey(el); err != nil {
		return nil, err
	}

	if l.versioned && rawVersion > 1 {
		for _, f := range tbs[l.spki+1:] {
			if !f.Is(tagExtensions) {
				continue
			}
			if c.Extensions, err = parseExtensions(f); err != nil {
				return nil, err
			}
		}
		if c.SubjectAltNames, err = subjectAltNames(c.Extensions); err != nil {
			return nil, err
		}
	}

	logger.KV(xlog.DEBUG,
		"version", c.Version,
		"serial", c.SerialNumber.String(),
		"extensions", len(c.Extensions),
	)
	return c, nil
}

// selectLayout returns the field layout,
// and the encoded version for versioned certificates
func selectLayout(first asn1util.Element) (layout, int, error) {
	if first.Is(cbasn1.INTEGER) {
		return layoutV1, 0, nil
	}
	if !first.Is(tagVersion) {
		return layout{}, 0, errors.Wrapf(asn1util.ErrParse, "unexpected version tag: 0x%02x", uint8(first.Tag))
	}

	inner, err := asn1util.ReadElements(first.Content)
	if err != nil {
		return layout{}, 0, err
	}
	el, err := asn1util.Expect(inner, 0, cbasn1.INTEGER, "version")
	if err != nil {
		return layout{}, 0, err
	}
	v, err := asn1util.BigInt(el, "version")
	if err != nil {
		return layout{}, 0, err
	}
	if !v.IsInt64() || v.Int64() < 0 || v.Int64() > 255 {
		return layout{}, 0, errors.Wrapf(asn1util.ErrParse, "invalid version: %s", v.String())
	}
	return layoutVersioned, int(v.Int64()), nil
}

// algorithmID returns the dotted OID of AlgorithmIdentifier
func algorithmID(el asn1util.Element, field string) (string, error) {
	list, err := asn1util.ReadElements(el.Content)
	if err != nil {
		return "", err
	}
	idEl, err := asn1util.Expect(list, 0, cbasn1.OBJECT_IDENTIFIER, field+" algorithm")
	if err != nil {
		return "", err
	}
	return asn1util.ObjectIdentifier(idEl, field+" algorithm")
}

func parseValidity(el asn1util.Element) (Validity, error) {
	var v Validity
	list, err := asn1util.ReadElements(el.Content)
	if err != nil {
		return v, err
	}
	if len(list) != 2 {
		return v, errors.Wrapf(asn1util.ErrParse, "expected 2 validity fields, found %d", len(list))
	}
	if v.NotBefore, err = parseTime(list[0], "notBefore"); err != nil {
		return v, err
	}
	if v.NotAfter, err = parseTime(list[1], "notAfter"); err != nil {
		return v, err
	}
	return v, nil
}

// parseTime decodes UTCTime or GeneralizedTime, depending on the tag
func parseTime(el asn1util.Element, field string) (time.Time, error) {
	var t time.Time
	s := cryptobyte.String(el.Full)
	switch el.Tag {
	case cbasn1.UTCTime:
		if !s.ReadASN1UTCTime(&t) {
			return t, errors.Wrapf(asn1util.ErrParse, "invalid %s UTCTime", field)
		}
	case cbasn1.GeneralizedTime:
		if !s.ReadASN1GeneralizedTime(&t) {
			return t, errors.Wrapf(asn1util.ErrParse, "invalid %s GeneralizedTime", field)
		}
	default:
		return t, errors.Wrapf(asn1util.ErrParse, "unexpected %s tag: 0x%02x", field, uint8(el.Tag))
	}
	return t.UTC(), nil
}

func parsePublicKey(el asn1util.Element) (PublicKeyInfo, error) {
	pk := PublicKeyInfo{
		SHA1:   certutil.SHA1(el.Full),
		SHA256: certutil.SHA256(el.Full),
	}

	list, err := asn1util.ReadElements(el.Content)
	if err != nil {
		return pk, err
	}
	algEl, err := asn1util.Expect(list, 0, cbasn1.SEQUENCE, "public key algorithm")
	if err != nil {
		return pk, err
	}
	if pk.Algorithm, err = algorithmID(algEl, "public key"); err != nil {
		return pk, err
	}

	bsEl, err := asn1util.Expect(list, 1, cbasn1.BIT_STRING, "public key")
	if err != nil {
		return pk, err
	}
	var bs asn1.BitString
	s := cryptobyte.String(bsEl.Full)
	if !s.ReadASN1BitString(&bs) {
		return pk, errors.Wrap(asn1util.ErrParse, "invalid public key BIT STRING")
	}
	key := bs.RightAlign()

	if raw, bits, ok := tryParseRSA(key); ok {
		pk.Raw = raw
		pk.BitLength = bits
	} else {
		pk.Raw = key
		pk.BitLength = len(key) * 8
	}
	return pk, nil
}

// tryParseRSA returns RSAPublicKey DER and the modulus size,
// if key is a SEQUENCE starting with INTEGER
func tryParseRSA(key []byte) ([]byte, int, bool) {
	s := cryptobyte.String(key)
	seq, ok := asn1util.ReadElement(&s)
	if !ok || !s.Empty() || !seq.Is(cbasn1.SEQUENCE) {
		return nil, 0, false
	}
	list, err := asn1util.ReadElements(seq.Content)
	if err != nil || len(list) == 0 || !list[0].Is(cbasn1.INTEGER) {
		return nil, 0, false
	}
	n, err := asn1util.BigInt(list[0], "modulus")
	if err != nil {
		return nil, 0, false
	}
	return seq.Full, n.BitLen(), true
}
