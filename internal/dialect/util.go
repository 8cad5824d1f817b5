package dialect

import (
	"strings"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// integerTypes are the normalized types accepted as a pre-existing
// surrogate id column. Anything else triggers the guarded skip with a
// warning instead of the add-column statement.
var integerTypes = map[string]bool{
	"int":       true,
	"integer":   true,
	"bigint":    true,
	"smallint":  true,
	"serial":    true,
	"bigserial": true,
	"number":    true,
	"numeric":   true,
	"decimal":   true,
}

// CompatibleIDType reports whether an existing column of the given
// (already normalized) type can serve as the surrogate id.
func CompatibleIDType(normalized string) bool {
	return integerTypes[normalized]
}

// escapeLiteral doubles single quotes for embedding a delimiter inside
// generated statement text. Delimiters are data, not identifiers, so
// they are quoted as string literals.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
