// Package asn1util provides DER helpers on top of cryptobyte
// shared by the key, request and certificate codecs.
package asn1util

import (
	stdasn1 "encoding/asn1"
	"math/big"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ErrParse is returned when an ASN.1 element is missing,
// or has unexpected type
var ErrParse = errors.New("invalid ASN.1 structure")

// Element is a parsed top-level tagged object
type Element struct {
	Tag asn1.Tag
	// Full is the DER encoding of the element, including tag and length
	Full []byte
	// Content is the element value, excluding tag and length
	Content []byte
}

// Is returns true if the element has the tag
func (e Element) Is(tag asn1.Tag) bool {
	return e.Tag == tag
}

// Reader returns the content for further parsing
func (e Element) Reader() cryptobyte.String {
	return cryptobyte.String(e.Content)
}

// ReadElement reads the next element from s
func ReadElement(s *cryptobyte.String) (Element, bool) {
	var full, content cryptobyte.String
	var tag asn1.Tag
	if !s.ReadAnyASN1Element(&full, &tag) {
		return Element{}, false
	}
	hdr := full
	if !hdr.ReadAnyASN1(&content, &tag) {
		return Element{}, false
	}
	return Element{
		Tag:     tag,
		Full:    full,
		Content: content,
	}, true
}

// ReadElements reads all elements from der
func ReadElements(der []byte) ([]Element, error) {
	s := cryptobyte.String(der)
	var list []Element
	for !s.Empty() {
		el, ok := ReadElement(&s)
		if !ok {
			return nil, errors.Wrapf(ErrParse, "malformed element at offset %d", len(der)-len(s))
		}
		list = append(list, el)
	}
	return list, nil
}

// ReadSequence parses der as a single SEQUENCE and returns its elements
func ReadSequence(der []byte) ([]Element, error) {
	s := cryptobyte.String(der)
	var inner cryptobyte.String
	if !s.ReadASN1(&inner, asn1.SEQUENCE) || !s.Empty() {
		return nil, errors.Wrap(ErrParse, "expected SEQUENCE")
	}
	return ReadElements(inner)
}

// Expect returns an error if the element at idx is missing,
// or has a different tag
func Expect(list []Element, idx int, tag asn1.Tag, field string) (Element, error) {
	if idx < 0 || idx >= len(list) {
		return Element{}, errors.Wrapf(ErrParse, "missing %s", field)
	}
	if !list[idx].Is(tag) {
		return Element{}, errors.Wrapf(ErrParse, "unexpected %s tag: 0x%02x", field, uint8(list[idx].Tag))
	}
	return list[idx], nil
}

// BigInt parses an INTEGER element
func BigInt(el Element, field string) (*big.Int, error) {
	n := new(big.Int)
	s := cryptobyte.String(el.Full)
	if !s.ReadASN1Integer(n) || !s.Empty() {
		return nil, errors.Wrapf(ErrParse, "invalid %s", field)
	}
	return n, nil
}

// ObjectIdentifier parses an OBJECT IDENTIFIER element into dotted string
func ObjectIdentifier(el Element, field string) (string, error) {
	var id stdasn1.ObjectIdentifier
	s := cryptobyte.String(el.Full)
	if !s.ReadASN1ObjectIdentifier(&id) || !s.Empty() {
		return "", errors.Wrapf(ErrParse, "invalid %s", field)
	}
	return id.String(), nil
}

// UnsignedBytes returns the minimal unsigned big-endian representation of n
func UnsignedBytes(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

// AddExplicit adds a constructed context-specific [tag] wrapper
func AddExplicit(b *cryptobyte.Builder, tag uint8, f cryptobyte.BuilderContinuation) {
	b.AddASN1(asn1.Tag(tag).Constructed().ContextSpecific(), f)
}

// Build returns DER produced by f
func Build(f cryptobyte.BuilderContinuation) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	f(b)
	der, err := b.Bytes()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return der, nil
}
