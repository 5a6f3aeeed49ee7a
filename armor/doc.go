// Package armor frames DER encoded structures as textual PEM blocks
// and unframes them back.
//
// Unlike encoding/pem, the line width and the line ending are
// configurable: certificate requests are produced with CRLF line
// endings, while keys use LF, and both forms must be reproduced
// exactly for interoperability.
package armor
