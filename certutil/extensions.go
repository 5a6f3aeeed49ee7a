package certutil

// Extension is a certificate extension as found in the encoding
type Extension struct {
	// ID is the dotted OID of the extension
	ID       string `json:"id" yaml:"id"`
	Critical bool   `json:"critical,omitempty" yaml:"critical,omitempty"`
	// Value is the content of the extension OCTET STRING
	Value []byte `json:"value" yaml:"value"`
}

// FindExtensionValue returns extension value, or nil
func FindExtensionValue(list []Extension, id string) []byte {
	if e := FindExtension(list, id); e != nil {
		return e.Value
	}
	return nil
}

// FindExtension returns extension, or nil
func FindExtension(list []Extension, id string) *Extension {
	for idx, e := range list {
		if e.ID == id {
			return &list[idx]
		}
	}
	return nil
}
