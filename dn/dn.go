package dn

import (
	"encoding/asn1"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/pkicodec/asn1util"
	"github.com/effective-security/pkicodec/oid"
	"github.com/effective-security/xlog"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/pkicodec", "dn")

// ErrUnknownAttribute is returned when a name attribute is not recognized
var ErrUnknownAttribute = errors.New("unknown name attribute")

// Attribute is a single name component
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Names is an ordered list of name attributes
type Names []Attribute

// Add appends the attribute and returns the list
func (n Names) Add(name, value string) Names {
	return append(n, Attribute{Name: name, Value: value})
}

// String returns name=value list, separated by comma
func (n Names) String() string {
	parts := make([]string, 0, len(n))
	for _, a := range n {
		parts = append(parts, a.Name+"="+a.Value)
	}
	return strings.Join(parts, ", ")
}

// Codec encodes names with the attribute table
type Codec struct {
	table *oid.AttributeTable
}

// New returns Codec for the table
func New(table *oid.AttributeTable) *Codec {
	return &Codec{table: table}
}

// Default is the codec over oid.NameAttributes
var Default = New(oid.NameAttributes)

// Encode returns DER encoded Name
func Encode(names Names) ([]byte, error) {
	return Default.Encode(names)
}

// Encode returns DER encoded Name, where each attribute
// is placed into a single-element RDN SET in the provided order.
func (c *Codec) Encode(names Names) ([]byte, error) {
	ids, err := c.resolve(names)
	if err != nil {
		return nil, err
	}

	return asn1util.Build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for i, a := range names {
				addRDN(b, ids[i], a.Value)
			}
		})
	})
}

// resolve maps every attribute to its OID, before anything is encoded
func (c *Codec) resolve(names Names) ([]asn1.ObjectIdentifier, error) {
	ids := make([]asn1.ObjectIdentifier, len(names))
	for i, a := range names {
		id, ok := c.table.Lookup(a.Name)
		if !ok {
			logger.KV(xlog.DEBUG, "reason", "unknown_attribute", "name", a.Name)
			return nil, errors.Wrapf(ErrUnknownAttribute, "%q", a.Name)
		}
		ids[i] = id
	}
	return ids, nil
}

func addRDN(b *cryptobyte.Builder, id asn1.ObjectIdentifier, value string) {
	b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(id)
			b.AddASN1(valueTag(id), func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(value))
			})
		})
	})
}

// valueTag returns PrintableString for country, and UTF8String otherwise
func valueTag(id asn1.ObjectIdentifier) cbasn1.Tag {
	if id.Equal(oid.NameC) {
		return cbasn1.PrintableString
	}
	return cbasn1.UTF8String
}

// ParseNames parses comma separated name=value list,
// for example: "cn=example.com, o=Test, c=US".
// The attribute names are not validated.
func ParseNames(s string) (Names, error) {
	var names Names
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("invalid name component: %q", part)
		}
		names = names.Add(name, strings.TrimSpace(value))
	}
	return names, nil
}
