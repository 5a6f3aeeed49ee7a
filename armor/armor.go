package armor

import (
	"encoding/base64"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFormat is returned when PEM framing is malformed
var ErrFormat = errors.New("invalid PEM format")

// Block types
const (
	TypeCertificate        = "CERTIFICATE"
	TypeCertificateRequest = "CERTIFICATE REQUEST"
	TypePrivateKey         = "PRIVATE KEY"
	TypePublicKey          = "PUBLIC KEY"
	TypeECPrivateKey       = "EC PRIVATE KEY"
	TypeECPublicKey        = "EC PUBLIC KEY"
)

const (
	beginPrefix = "-----BEGIN"
	endPrefix   = "-----END"

	// DefaultLineWidth is the number of base64 characters per line
	DefaultLineWidth = 64

	// LF is the line ending used for keys
	LF = "\n"
	// CRLF is the line ending used for certificate requests
	CRLF = "\r\n"
)

// Options controls the text layout of a framed block
type Options struct {
	// LineWidth is the number of base64 characters per line,
	// if not positive, DefaultLineWidth is used
	LineWidth int
	// LineEnding joins the marker and content lines
	LineEnding string
}

var (
	// CSROptions is the layout of certificate requests
	CSROptions = Options{LineWidth: DefaultLineWidth, LineEnding: CRLF}
	// KeyOptions is the layout of public and private keys
	KeyOptions = Options{LineWidth: DefaultLineWidth, LineEnding: LF}
)

// BeginMarker returns the begin line for the block type
func BeginMarker(typ string) string {
	return beginPrefix + " " + typ + "-----"
}

// EndMarker returns the end line for the block type
func EndMarker(typ string) string {
	return endPrefix + " " + typ + "-----"
}

// Frame base64 encodes der, splits it into lines of opts.LineWidth
// characters and joins begin, the lines and end with opts.LineEnding.
// The returned text has no trailing line ending.
func Frame(der []byte, begin, end string, opts Options) string {
	width := opts.LineWidth
	if width <= 0 {
		width = DefaultLineWidth
	}

	encoded := base64.StdEncoding.EncodeToString(der)

	lines := make([]string, 0, len(encoded)/width+3)
	lines = append(lines, begin)
	for len(encoded) > width {
		lines = append(lines, encoded[:width])
		encoded = encoded[width:]
	}
	if len(encoded) > 0 {
		lines = append(lines, encoded)
	}
	lines = append(lines, end)

	return strings.Join(lines, opts.LineEnding)
}

// FrameBlock frames der with the markers of the block type
func FrameBlock(der []byte, typ string, opts Options) string {
	return Frame(der, BeginMarker(typ), EndMarker(typ), opts)
}

// Unframe returns DER bytes from the PEM text.
// The text must have at least two non-empty lines,
// the first one must start with the BEGIN marker,
// and the last one with the END marker.
func Unframe(text string) ([]byte, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, errors.Wrapf(ErrFormat, "expected at least 2 lines, found %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], beginPrefix) {
		return nil, errors.Wrap(ErrFormat, "missing BEGIN marker")
	}
	last := len(lines) - 1
	if !strings.HasPrefix(lines[last], endPrefix) {
		return nil, errors.Wrap(ErrFormat, "missing END marker")
	}

	der, err := base64.StdEncoding.DecodeString(strings.Join(lines[1:last], ""))
	if err != nil {
		return nil, errors.Wrapf(ErrFormat, "invalid base64 content: %s", err.Error())
	}
	return der, nil
}

// UnframeBlock is like Unframe, and also requires the markers
// to be of the specified block type
func UnframeBlock(text, typ string) ([]byte, error) {
	lines := splitLines(text)
	if len(lines) > 0 && lines[0] != BeginMarker(typ) {
		return nil, errors.Wrapf(ErrFormat, "expected %s", typ)
	}
	if len(lines) > 1 && lines[len(lines)-1] != EndMarker(typ) {
		return nil, errors.Wrapf(ErrFormat, "expected %s", typ)
	}
	return Unframe(text)
}

// BlockType returns the type from the BEGIN marker, or empty string
func BlockType(text string) string {
	lines := splitLines(text)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], beginPrefix) {
		return ""
	}
	typ := strings.TrimPrefix(lines[0], beginPrefix)
	typ = strings.TrimSuffix(typ, "-----")
	return strings.TrimSpace(typ)
}

// splitLines returns trimmed, non-empty lines
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
