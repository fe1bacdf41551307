// Package listing provides catalog listing value types and pure functions.
package listing

import "fmt"

// Field identifies an optional metadata field that a catalog may require.
type Field string

const (
	FieldExp   Field = "exp"
	FieldLogo  Field = "logo"
	FieldChain Field = "chain"
)

// ParseField converts a string into a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldExp, FieldLogo, FieldChain:
		return Field(s), nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Metadata describes a listed denom (immutable value type).
type Metadata struct {
	Denom  string  `json:"denom"`
	Symbol string  `json:"symbol"`
	Exp    *uint32 `json:"exp,omitempty"`
	Logo   *string `json:"logo,omitempty"`
	Chain  *string `json:"chain,omitempty"`
}

// Listing is a stored catalog entry. Author is empty for admin-created
// listings, which only admins may edit or remove thereafter.
type Listing struct {
	Author   string   `json:"author,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// CheckRequired verifies that every required field is present in the metadata.
// This is a PURE function.
func CheckRequired(required []Field, m Metadata) error {
	for _, f := range required {
		switch f {
		case FieldExp:
			if m.Exp == nil {
				return MissingFieldError{Field: f}
			}
		case FieldLogo:
			if m.Logo == nil {
				return MissingFieldError{Field: f}
			}
		case FieldChain:
			if m.Chain == nil {
				return MissingFieldError{Field: f}
			}
		}
	}
	return nil
}

// CanModify reports whether sender may edit or remove an existing listing.
// Admin-created listings have no author and are admin-only.
// This is a PURE function.
func CanModify(l Listing, sender string, admin bool) bool {
	if admin {
		return true
	}
	return l.Author != "" && l.Author == sender
}
