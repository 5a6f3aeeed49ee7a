// Package keys encodes and decodes RSA and EC key material.
//
// Encodings:
//   - RSA public key: SubjectPublicKeyInfo with rsaEncryption and NULL parameters
//   - RSA private key: PKCS#8 wrapping a PKCS#1 RSAPrivateKey
//   - EC public key: SubjectPublicKeyInfo with id-ecPublicKey and named curve
//   - EC private key: SEC1 ECPrivateKey, where the [1] field wraps
//     a SEQUENCE holding the public point BIT STRING
//
// The EC private key layout differs from RFC 5915, which places the BIT STRING
// directly under [1]. Keys produced here are read back by this package,
// third-party parsers may reject them.
package keys
