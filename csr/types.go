package csr

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/dn"
	"github.com/effective-security/pkicodec/keys"
	"gopkg.in/yaml.v3"
)

// Key algorithms
const (
	AlgoRSA   = "RSA"
	AlgoECDSA = "ECDSA"
)

// KeyRequest describes the key to generate
type KeyRequest struct {
	// Algo is RSA or ECDSA
	Algo string `json:"algo" yaml:"algo"`
	// Size is RSA modulus size, or EC curve size in bits
	Size int `json:"size" yaml:"size"`
}

// Algorithm returns normalized algorithm name
func (kr *KeyRequest) Algorithm() string {
	a := strings.ToUpper(strings.TrimSpace(kr.Algo))
	switch a {
	case "EC", "ECC":
		return AlgoECDSA
	}
	return a
}

// Validate returns error if the key request is not supported
func (kr *KeyRequest) Validate() error {
	switch kr.Algorithm() {
	case AlgoRSA:
		if !keys.IsSupportedRSAKeySize(kr.Size) {
			return errors.Wrapf(keys.ErrUnsupportedKeySize, "%d", kr.Size)
		}
	case AlgoECDSA:
		if _, err := keys.CurveBySize(kr.Size); err != nil {
			return err
		}
	default:
		return errors.Errorf("invalid key algorithm: %q", kr.Algo)
	}
	return nil
}

// A CertificateRequest is the profile of the request to build
type CertificateRequest struct {
	// Names of the Subject, in order
	Names dn.Names `json:"names" yaml:"names"`
	// KeyRequest for generated key
	KeyRequest *KeyRequest `json:"key,omitempty" yaml:"key,omitempty"`
}

// Validate returns error if the request has no subject,
// or an empty value, or invalid key request
func (r *CertificateRequest) Validate() error {
	if len(r.Names) == 0 {
		return errors.New("missing subject information")
	}
	for _, n := range r.Names {
		if strings.TrimSpace(n.Value) == "" {
			return errors.Errorf("empty name: %q", n.Name)
		}
	}
	if r.KeyRequest != nil {
		return r.KeyRequest.Validate()
	}
	return nil
}

// LoadCertificateRequest loads request profile from YAML or JSON file
func LoadCertificateRequest(file string) (*CertificateRequest, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to load profile")
	}
	return ParseCertificateRequest(b)
}

// ParseCertificateRequest parses request profile from YAML or JSON
func ParseCertificateRequest(b []byte) (*CertificateRequest, error) {
	r := new(CertificateRequest)
	if err := yaml.Unmarshal(b, r); err != nil {
		return nil, errors.WithMessage(err, "unable to parse profile")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
