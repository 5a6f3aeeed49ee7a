package certutil

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/armor"
)

// LoadPEMFiles loads and concatenates PEM files into one slice
func LoadPEMFiles(files ...string) ([]byte, error) {
	var pem []byte
	for _, f := range files {
		if f == "" {
			continue
		}
		b, err := os.ReadFile(f)
		if err != nil {
			return pem, errors.WithMessage(err, "failed to load PEM")
		}
		pem = JoinPEM(pem, b)
	}
	return pem, nil
}

// JoinPEM returns concatenated PEM
func JoinPEM(p1, p2 []byte) []byte {
	p1 = bytes.TrimSpace(p1)
	p2 = bytes.TrimSpace(p2)
	if len(p2) > 0 {
		if len(p1) > 0 {
			p1 = append(p1, '\n')
		}
		p1 = append(p1, p2...)
	}
	return p1
}

// SplitPEM returns PEM blocks found in text, in order.
// Text outside of the blocks is ignored.
func SplitPEM(text string) []string {
	var list []string
	var block []string
	var end string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if end == "" {
			if typ := armor.BlockType(line); typ != "" {
				end = armor.EndMarker(typ)
				block = []string{line}
			}
			continue
		}
		block = append(block, line)
		if line == end {
			list = append(list, strings.Join(block, "\n"))
			block, end = nil, ""
		}
	}
	return list
}
