package table

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLen caps table names. Long names are almost always a sign of a
// structured value being smuggled through the name parameter.
const MaxNameLen = 255

// NormalizeName returns the NFC-normalized form of a table name. All
// registry keys are normalized so that visually identical names cannot
// coexist as distinct byte sequences.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// CheckName normalizes and validates a table name against the identifier
// grammar: a letter or underscore followed by letters, digits, underscores
// or hyphens. Returns the normalized name, or ErrInvalidName.
func CheckName(name string) (string, error) {
	name = NormalizeName(name)

	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if len(name) > MaxNameLen {
		return "", fmt.Errorf("%w: name exceeds %d bytes", ErrInvalidName, MaxNameLen)
	}

	for i, r := range name {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return "", fmt.Errorf("%w: %q must start with a letter or underscore", ErrInvalidName, name)
			}
			continue
		}
		if r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: %q contains invalid rune %q", ErrInvalidName, name, r)
		}
	}

	return name, nil
}
