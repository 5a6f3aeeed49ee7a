// Package certinfo decodes X.509 certificates into a flat record.
//
// The decoder walks the TBSCertificate by position. A certificate
// without the explicit [0] version is treated as v1, and all the
// following fields are read one position earlier.
//
// Issuer and Subject are keyed by dotted OID. Only the first
// attribute of each RDN is decoded, and only UTF8String and
// PrintableString values are recognized, plus TeletexString in the
// issuer; other string types decode as empty string.
//
// Extensions are examined only when the encoded version is greater
// than 1, so v2 certificates never report extensions.
package certinfo
