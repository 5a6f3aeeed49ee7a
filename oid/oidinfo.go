package oid

import (
	"encoding/asn1"
)

// well-known OIDs
var (
	ExtensionSubjectKeyID          = asn1.ObjectIdentifier{2, 5, 29, 14}
	ExtensionKeyUsage              = asn1.ObjectIdentifier{2, 5, 29, 15}
	ExtensionSubjectAltName        = asn1.ObjectIdentifier{2, 5, 29, 17}
	ExtensionBasicConstraints      = asn1.ObjectIdentifier{2, 5, 29, 19}
	ExtensionCRLNumber             = asn1.ObjectIdentifier{2, 5, 29, 20}
	ExtensionNameConstraints       = asn1.ObjectIdentifier{2, 5, 29, 30}
	ExtensionCRLDistributionPoints = asn1.ObjectIdentifier{2, 5, 29, 31}
	ExtensionCertificatePolicies   = asn1.ObjectIdentifier{2, 5, 29, 32}
	ExtensionAuthorityKeyID        = asn1.ObjectIdentifier{2, 5, 29, 35}
	ExtensionExtendedKeyUsage      = asn1.ObjectIdentifier{2, 5, 29, 37}
	ExtensionAuthorityInfoAccess   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}

	NameEmailAddress = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}
	NameCN           = asn1.ObjectIdentifier{2, 5, 4, 3}
	NameSerial       = asn1.ObjectIdentifier{2, 5, 4, 5}
	NameC            = asn1.ObjectIdentifier{2, 5, 4, 6}
	NameL            = asn1.ObjectIdentifier{2, 5, 4, 7}
	NameST           = asn1.ObjectIdentifier{2, 5, 4, 8}
	NameStreet       = asn1.ObjectIdentifier{2, 5, 4, 9}
	NameO            = asn1.ObjectIdentifier{2, 5, 4, 10}
	NameOU           = asn1.ObjectIdentifier{2, 5, 4, 11}
	NamePostal       = asn1.ObjectIdentifier{2, 5, 4, 17}
)

// key and signature algorithms
var (
	PublicKeyRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	PublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

	SignatureSHA1WithRSA     = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 5}
	SignatureSHA256WithRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	SignatureSHA384WithRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 12}
	SignatureSHA512WithRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}
	SignatureECDSAWithSHA256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	SignatureECDSAWithSHA384 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 3}
	SignatureECDSAWithSHA512 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 4}

	CurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	CurveP384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	CurveP521 = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
)

// DisplayName provides OID name
var DisplayName = map[string]string{
	"2.5.29.14":             "Subject KeyID",
	"2.5.29.15":             "Key Usage",
	"2.5.29.17":             "Subject Alt Name",
	"2.5.29.19":             "Basic Constraints",
	"2.5.29.20":             "CRL Number",
	"2.5.29.30":             "Name Constraints",
	"2.5.29.31":             "CRL Distribution Point",
	"2.5.29.32":             "Certificate Policies",
	"2.5.29.35":             "Authority KeyID",
	"2.5.29.37":             "Extended KeyUsage",
	"1.3.6.1.5.5.7.1.1":     "Authority Info Access",
	"1.2.840.113549.1.1.1":  "RSA",
	"1.2.840.10045.2.1":     "ECDSA",
	"1.2.840.113549.1.1.5":  "SHA1-RSA",
	"1.2.840.113549.1.1.11": "SHA256-RSA",
	"1.2.840.113549.1.1.12": "SHA384-RSA",
	"1.2.840.113549.1.1.13": "SHA512-RSA",
	"1.2.840.10045.4.3.2":   "ECDSA-SHA256",
	"1.2.840.10045.4.3.3":   "ECDSA-SHA384",
	"1.2.840.10045.4.3.4":   "ECDSA-SHA512",
	"1.2.840.10045.3.1.7":   "P-256",
	"1.3.132.0.34":          "P-384",
	"1.3.132.0.35":          "P-521",
}

// Name returns the display name of the OID,
// or the dotted string if the name is not known
func Name(dotted string) string {
	if n, ok := DisplayName[dotted]; ok {
		return n
	}
	return dotted
}

// Strings returns list of OID string values
func Strings(ids ...asn1.ObjectIdentifier) []string {
	list := make([]string, 0, len(ids))

	for _, k := range ids {
		list = append(list, k.String())
	}

	return list
}
