// Package certutil provides thumbprints, key information and
// helpers shared by the certificate and request codecs.
package certutil
