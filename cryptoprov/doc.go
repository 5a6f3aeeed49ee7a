// Package cryptoprov provides the cryptographic primitives used by the
// codecs: RSA and ECDSA key generation, and SHA-256 based signing.
//
// The Provider interface allows to replace the default in-memory
// implementation, for example with a deterministic one in tests,
// or with a hardware backed one.
//
// The source of randomness is supplied by the caller. Providers are safe
// for concurrent use exactly to the extent their random source is.
package cryptoprov
