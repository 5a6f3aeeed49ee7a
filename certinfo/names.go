package certinfo

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/oid"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// stringTypes is the set of recognized value tags of a Name
type stringTypes map[cbasn1.Tag]bool

var (
	subjectStrings = stringTypes{
		cbasn1.UTF8String:      true,
		cbasn1.PrintableString: true,
	}
	issuerStrings = stringTypes{
		cbasn1.UTF8String:      true,
		cbasn1.PrintableString: true,
		cbasn1.T61String:       true,
	}
)

// decode returns the value as string,
// or empty string for unrecognized types
func (t stringTypes) decode(el asn1util.Element) string {
	if t[el.Tag] {
		return string(el.Content)
	}
	return ""
}

// parseName returns dotted OID to value map of the Name,
// and the OIDs in the order of appearance.
// Only the first attribute of each RDN is decoded.
func parseName(el asn1util.Element, types stringTypes) (map[string]string, []string, error) {
	rdns, err := asn1util.ReadElements(el.Content)
	if err != nil {
		return nil, nil, err
	}

	values := make(map[string]string, len(rdns))
	var order []string
	for i := range rdns {
		rdn, err := asn1util.Expect(rdns, i, cbasn1.SET, "RDN")
		if err != nil {
			return nil, nil, err
		}
		attrs, err := asn1util.ReadElements(rdn.Content)
		if err != nil {
			return nil, nil, err
		}
		atv, err := asn1util.Expect(attrs, 0, cbasn1.SEQUENCE, "attribute")
		if err != nil {
			return nil, nil, err
		}
		pair, err := asn1util.ReadElements(atv.Content)
		if err != nil {
			return nil, nil, err
		}
		idEl, err := asn1util.Expect(pair, 0, cbasn1.OBJECT_IDENTIFIER, "attribute type")
		if err != nil {
			return nil, nil, err
		}
		id, err := asn1util.ObjectIdentifier(idEl, "attribute type")
		if err != nil {
			return nil, nil, err
		}
		if len(pair) < 2 {
			return nil, nil, errors.Wrap(asn1util.ErrParse, "missing attribute value")
		}

		if _, ok := values[id]; !ok {
			order = append(order, id)
		}
		values[id] = types.decode(pair[1])
	}
	return values, order, nil
}

// nameString returns SHORT=value list in the order of appearance
func nameString(values map[string]string, order []string) string {
	parts := make([]string, 0, len(order))
	for _, id := range order {
		parts = append(parts, oid.NameAttributes.ShortName(id)+"="+values[id])
	}
	return strings.Join(parts, ", ")
}
