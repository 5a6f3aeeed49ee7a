package certinfo

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/certutil"
	"github.com/effective-security/pkicodec/oid"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// tagIPAddress is iPAddress GeneralName
var tagIPAddress = cbasn1.Tag(7).ContextSpecific()

// parseExtensions decodes [3] Extensions
func parseExtensions(el asn1util.Element) ([]certutil.Extension, error) {
	inner, err := asn1util.ReadElements(el.Content)
	if err != nil {
		return nil, err
	}
	seq, err := asn1util.Expect(inner, 0, cbasn1.SEQUENCE, "extensions")
	if err != nil {
		return nil, err
	}

	var list []certutil.Extension
	s := seq.Reader()
	for !s.Empty() {
		var ext certutil.Extension
		var body cryptobyte.String
		if !s.ReadASN1(&body, cbasn1.SEQUENCE) {
			return nil, errors.Wrap(asn1util.ErrParse, "invalid extension")
		}

		idEl, ok := asn1util.ReadElement(&body)
		if !ok {
			return nil, errors.Wrap(asn1util.ErrParse, "invalid extension")
		}
		if ext.ID, err = asn1util.ObjectIdentifier(idEl, "extension id"); err != nil {
			return nil, err
		}
		if body.PeekASN1Tag(cbasn1.BOOLEAN) && !body.ReadASN1Boolean(&ext.Critical) {
			return nil, errors.Wrapf(asn1util.ErrParse, "invalid critical flag: %s", ext.ID)
		}
		var value cryptobyte.String
		if !body.ReadASN1(&value, cbasn1.OCTET_STRING) || !body.Empty() {
			return nil, errors.Wrapf(asn1util.ErrParse, "invalid extension value: %s", ext.ID)
		}
		ext.Value = value

		list = append(list, ext)
	}
	return list, nil
}

// subjectAltNames returns the names from subjectAltName extension,
// or nil if the extension is not present
func subjectAltNames(list []certutil.Extension) ([]string, error) {
	val := certutil.FindExtensionValue(list, oid.ExtensionSubjectAltName.String())
	if val == nil {
		return nil, nil
	}

	names, err := asn1util.ReadSequence(val)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid subjectAltName")
	}
	san := make([]string, 0, len(names))
	for _, gn := range names {
		san = append(san, generalName(gn))
	}
	return san, nil
}

// generalName renders iPAddress as dotted decimal bytes,
// and any other name as the raw text
func generalName(el asn1util.Element) string {
	if el.Is(tagIPAddress) {
		parts := make([]string, len(el.Content))
		for i, b := range el.Content {
			parts[i] = strconv.Itoa(int(b))
		}
		return strings.Join(parts, ".")
	}
	return string(el.Content)
}
