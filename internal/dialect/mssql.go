package dialect

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"db-fanout/internal/schema"
)

// MSSQLDialect: the engine allows adding an IDENTITY primary key column
// in place, so no sequence or shadow table is needed. Triggers are
// statement-level; normalization reads the inserted pseudo-table and
// fans out with STRING_SPLIT. The ordinal form of STRING_SPLIT (needed
// to preserve token order) requires SQL Server 2022 compatibility level.
type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) Quote(ident string) string {
	return "[" + ident + "]"
}

func (d *MSSQLDialect) IDPlan() schema.IDPlan { return schema.DirectAutoIncrement }

func (d *MSSQLDialect) SplitStrategy() schema.SplitStrategy { return schema.SetBased }

// ValidateList rejects multi-character delimiters: STRING_SPLIT only
// accepts a single-character separator.
func (d *MSSQLDialect) ValidateList(lc schema.ListColumnSpec) error {
	if utf8.RuneCountInString(lc.Delimiter) != 1 {
		return fmt.Errorf("sqlserver: delimiter %q: STRING_SPLIT requires a single character separator", lc.Delimiter)
	}
	return nil
}

func (d *MSSQLDialect) getSchema(s string) string {
	if s == "" {
		return "dbo"
	}
	return s
}

func (d *MSSQLDialect) CreateSequence(t schema.TableSpec) []string { return nil }

func (d *MSSQLDialect) CreateShadowTable(t schema.TableSpec) []string { return nil }

func (d *MSSQLDialect) AddIDColumn(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"IF COL_LENGTH('%s.%s', '%s') IS NULL ALTER TABLE %s ADD %s INT IDENTITY(1,1) NOT NULL PRIMARY KEY",
		d.getSchema(t.Schema), t.Name, schema.IDColumn, t.Name, schema.IDColumn,
	)}
}

func (d *MSSQLDialect) CreateIDTriggers(t schema.TableSpec) []string { return nil }

func (d *MSSQLDialect) CreateChildTable(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	child := schema.ChildTable(lc.Kind, t.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "IF OBJECT_ID('%s', 'U') IS NULL\nCREATE TABLE %s (\n", child, child)
	b.WriteString("    id INT IDENTITY(1,1) NOT NULL PRIMARY KEY,\n")
	fmt.Fprintf(&b, "    %s INT NOT NULL,\n", schema.ParentIDColumn)
	if lc.Correlation != "" {
		fmt.Fprintf(&b, "    %s NVARCHAR(255),\n", d.Quote(lc.Correlation))
	}
	fmt.Fprintf(&b, "    %s NVARCHAR(255) NOT NULL\n)", d.Quote(schema.ValueColumn))
	return []string{b.String()}
}

func (d *MSSQLDialect) CreateSplitHelpers(t schema.TableSpec) []string { return nil }

func (d *MSSQLDialect) CreateInsertProcedure(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	return nil
}

func (d *MSSQLDialect) CreateNormalizationTrigger(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	trigger := schema.NormalizationTrigger(lc.Kind, t.Name)
	child := schema.ChildTable(lc.Kind, t.Name)
	srcCol := d.Quote(lc.Column)

	cols := schema.ParentIDColumn
	sel := "i." + schema.IDColumn
	if lc.Correlation != "" {
		cols += ", " + d.Quote(lc.Correlation)
		sel += ", i." + d.Quote(lc.Correlation)
	}
	cols += ", " + d.Quote(schema.ValueColumn)
	sel += ", s." + d.Quote(schema.ValueColumn)

	// The WHERE guard excludes NULL and empty sources: STRING_SPLIT('')
	// would otherwise emit one empty-token row. The ORDER BY keeps the
	// child identity assignment in token order.
	return []string{fmt.Sprintf(`CREATE OR ALTER TRIGGER %s
ON %s
AFTER INSERT
AS
BEGIN
    SET NOCOUNT ON;
    INSERT INTO %s (%s)
    SELECT %s
    FROM inserted i
    CROSS APPLY STRING_SPLIT(i.%s, '%s', 1) s
    WHERE i.%s IS NOT NULL AND i.%s <> ''
    ORDER BY i.%s, s.ordinal;
END`, trigger, t.Name, child, cols, sel,
		srcCol, escapeLiteral(lc.Delimiter), srcCol, srcCol, schema.IDColumn)}
}

func (d *MSSQLDialect) ColumnLookup(t schema.TableSpec, column string) (string, []interface{}) {
	return `SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 AND COLUMN_NAME = @p3`,
		[]interface{}{d.getSchema(t.Schema), t.Name, column}
}

func (d *MSSQLDialect) ColumnsLookup(t schema.TableSpec) (string, []interface{}) {
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`,
		[]interface{}{d.getSchema(t.Schema), t.Name}
}

func (d *MSSQLDialect) SequenceLookup(t schema.TableSpec) (string, []interface{}) {
	return "", nil
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(quoted, ", "), vals)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}
