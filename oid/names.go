package oid

import (
	"encoding/asn1"
	"strings"
)

// Attribute describes a Distinguished Name attribute type
type Attribute struct {
	// ShortName is the abbreviated name, e.g. cn
	ShortName string
	// LongName is the full name, e.g. commonName
	LongName string
	// ID of the attribute type
	ID asn1.ObjectIdentifier
}

// AttributeTable is an immutable lookup table of Distinguished Name
// attribute types, indexed by both short and long names.
// Lookups are case-sensitive.
type AttributeTable struct {
	byName map[string]asn1.ObjectIdentifier
	byOID  map[string]string
}

// NewAttributeTable returns a table with the provided attributes
func NewAttributeTable(attrs ...Attribute) *AttributeTable {
	t := &AttributeTable{
		byName: make(map[string]asn1.ObjectIdentifier, len(attrs)*2),
		byOID:  make(map[string]string, len(attrs)),
	}
	for _, a := range attrs {
		if a.ShortName != "" {
			t.byName[a.ShortName] = a.ID
		}
		if a.LongName != "" {
			t.byName[a.LongName] = a.ID
		}

		id := a.ID.String()
		if _, ok := t.byOID[id]; !ok {
			t.byOID[id] = strings.ToUpper(a.ShortName)
		}
	}
	return t
}

// Lookup returns the OID of the attribute name
func (t *AttributeTable) Lookup(name string) (asn1.ObjectIdentifier, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// ShortName returns the upper cased short name for the dotted OID,
// or the dotted OID if it is not in the table
func (t *AttributeTable) ShortName(dotted string) string {
	if n, ok := t.byOID[dotted]; ok && n != "" {
		return n
	}
	return dotted
}

// Len returns the number of recognized names
func (t *AttributeTable) Len() int {
	return len(t.byName)
}

// NameAttributes is the table of the recognized Distinguished Name attributes
var NameAttributes = NewAttributeTable(
	Attribute{"cn", "commonName", NameCN},
	Attribute{"sn", "surname", asn1.ObjectIdentifier{2, 5, 4, 4}},
	Attribute{"serialNumber", "", NameSerial},
	Attribute{"c", "countryName", NameC},
	Attribute{"l", "localityName", NameL},
	Attribute{"st", "stateOrProvinceName", NameST},
	Attribute{"street", "streetAddress", NameStreet},
	Attribute{"o", "organizationName", NameO},
	Attribute{"ou", "organizationalUnitName", NameOU},
	Attribute{"title", "", asn1.ObjectIdentifier{2, 5, 4, 12}},
	Attribute{"description", "", asn1.ObjectIdentifier{2, 5, 4, 13}},
	Attribute{"businessCategory", "", asn1.ObjectIdentifier{2, 5, 4, 15}},
	Attribute{"postalCode", "", NamePostal},
	Attribute{"postOfficeBox", "", asn1.ObjectIdentifier{2, 5, 4, 18}},
	Attribute{"telephoneNumber", "", asn1.ObjectIdentifier{2, 5, 4, 20}},
	Attribute{"name", "", asn1.ObjectIdentifier{2, 5, 4, 41}},
	Attribute{"gn", "givenName", asn1.ObjectIdentifier{2, 5, 4, 42}},
	Attribute{"initials", "", asn1.ObjectIdentifier{2, 5, 4, 43}},
	Attribute{"generationQualifier", "", asn1.ObjectIdentifier{2, 5, 4, 44}},
	Attribute{"dnQualifier", "", asn1.ObjectIdentifier{2, 5, 4, 46}},
	Attribute{"pseudonym", "", asn1.ObjectIdentifier{2, 5, 4, 65}},
	Attribute{"organizationIdentifier", "", asn1.ObjectIdentifier{2, 5, 4, 97}},
	Attribute{"e", "emailAddress", NameEmailAddress},
	Attribute{"email", "", NameEmailAddress},
	Attribute{"unstructuredName", "", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 2}},
	Attribute{"unstructuredAddress", "", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 8}},
	Attribute{"dc", "domainComponent", asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}},
	Attribute{"uid", "userId", asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}},
	Attribute{"jurisdictionL", "jurisdictionLocalityName", asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 60, 2, 1, 1}},
	Attribute{"jurisdictionST", "jurisdictionStateOrProvinceName", asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 60, 2, 1, 2}},
	Attribute{"jurisdictionC", "jurisdictionCountryName", asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 60, 2, 1, 3}},
)
