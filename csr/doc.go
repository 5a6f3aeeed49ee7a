// Package csr builds PKCS#10 Certificate Signing Requests
// for RSA and ECDSA keys, and loads request profiles.
//
// The request carries no attributes: the field is encoded as an
// empty [0] SET, A0 00.
//
// The signature is produced by a cryptoprov.Provider:
// RSA requests use sha256WithRSAEncryption, EC requests use
// ecdsa-with-SHA256 with the (r, s) pair encoded as ECDSA-Sig-Value.
// The result is framed as CERTIFICATE REQUEST with CRLF line endings.
package csr
