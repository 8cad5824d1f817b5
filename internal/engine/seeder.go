package engine

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

// GenerateValue generates a fake value shaped for the column's type.
// Only the verify command uses this; values just have to be insertable,
// not realistic.
func GenerateValue(d dialect.Dialect, col *schema.Column) interface{} {
	dataType := d.NormalizeType(col.DataType)
	switch dataType {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "number", "serial", "bigserial":
		return gofakeit.Number(1, 5000)
	case "float", "double", "real", "decimal", "numeric":
		return gofakeit.Float64Range(0, 1000)
	case "date", "datetime", "timestamp", "time":
		return gofakeit.Date()
	case "bit", "bool", "boolean":
		return gofakeit.Bool()
	default:
		return gofakeit.LetterN(8)
	}
}

// DelimitedList builds a fake list value of n tokens joined by the
// delimiter, the shape the normalization triggers fan out.
func DelimitedList(delim string, n int) string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = strings.ToUpper(gofakeit.LetterN(3))
	}
	return strings.Join(tokens, delim)
}
