// Package dn encodes Distinguished Names for certificate requests.
//
// Attribute names are resolved through an immutable oid.AttributeTable,
// and the insertion order of the attributes is preserved in the encoding.
// Each attribute is placed into its own single-valued RDN SET.
// Country is selected for PrintableString by its OID, so both c and
// countryName are encoded as PrintableString; other values are UTF8String.
//
// There is no decoder here: certificate names are decoded by certinfo,
// which keys the result by the dotted OID rather than by short name.
package dn
