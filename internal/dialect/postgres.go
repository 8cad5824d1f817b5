package dialect

import (
	"fmt"
	"strings"

	"db-fanout/internal/schema"
)

// PostgresDialect: native sequences plus row-level plpgsql triggers that
// may contain set-returning expressions, so normalization is a single
// UNNEST(STRING_TO_ARRAY(...)) insert with no helper objects.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Quote(ident string) string {
	return `"` + ident + `"`
}

func (d *PostgresDialect) IDPlan() schema.IDPlan { return schema.NativeSequence }

func (d *PostgresDialect) SplitStrategy() schema.SplitStrategy { return schema.SetBased }

func (d *PostgresDialect) ValidateList(lc schema.ListColumnSpec) error { return nil }

// Helper to fix schema name if needed (usually public)
func (d *PostgresDialect) getSchema(s string) string {
	if s == "" {
		return "public"
	}
	return s
}

func (d *PostgresDialect) CreateSequence(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"CREATE SEQUENCE IF NOT EXISTS %s START 1 INCREMENT 1",
		schema.SequenceName(t.Name),
	)}
}

func (d *PostgresDialect) CreateShadowTable(t schema.TableSpec) []string { return nil }

func (d *PostgresDialect) AddIDColumn(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s INT NOT NULL PRIMARY KEY DEFAULT nextval('%s')",
		t.Name, schema.IDColumn, schema.SequenceName(t.Name),
	)}
}

func (d *PostgresDialect) CreateIDTriggers(t schema.TableSpec) []string { return nil }

func (d *PostgresDialect) CreateChildTable(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	child := schema.ChildTable(lc.Kind, t.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", child)
	b.WriteString("    id BIGSERIAL PRIMARY KEY NOT NULL,\n")
	fmt.Fprintf(&b, "    %s INT NOT NULL,\n", schema.ParentIDColumn)
	if lc.Correlation != "" {
		fmt.Fprintf(&b, "    %s VARCHAR(255),\n", d.Quote(lc.Correlation))
	}
	fmt.Fprintf(&b, "    %s VARCHAR(255) NOT NULL\n)", d.Quote(schema.ValueColumn))
	return []string{b.String()}
}

func (d *PostgresDialect) CreateSplitHelpers(t schema.TableSpec) []string { return nil }

func (d *PostgresDialect) CreateInsertProcedure(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	return nil
}

func (d *PostgresDialect) CreateNormalizationTrigger(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	child := schema.ChildTable(lc.Kind, t.Name)
	fn := schema.InsertProcedure(lc.Kind, t.Name)
	trigger := schema.NormalizationTrigger(lc.Kind, t.Name)

	cols := schema.ParentIDColumn
	sel := "NEW." + schema.IDColumn
	if lc.Correlation != "" {
		cols += ", " + d.Quote(lc.Correlation)
		sel += ", NEW." + d.Quote(lc.Correlation)
	}
	cols += ", " + d.Quote(schema.ValueColumn)
	// STRING_TO_ARRAY maps '' to an empty array and NULL to NULL, so an
	// empty or missing source value inserts zero child rows on its own.
	sel += fmt.Sprintf(", UNNEST(STRING_TO_ARRAY(NEW.%s, '%s'))",
		d.Quote(lc.Column), escapeLiteral(lc.Delimiter))

	function := fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s()
RETURNS TRIGGER
AS
$$
BEGIN
    INSERT INTO %s (%s) SELECT %s;
    RETURN NEW;
END
$$ LANGUAGE 'plpgsql'`, fn, child, cols, sel)

	drop := fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", trigger, t.Name)

	create := fmt.Sprintf(`CREATE TRIGGER %s
    AFTER INSERT
    ON %s
    FOR EACH ROW
    EXECUTE PROCEDURE %s()`, trigger, t.Name, fn)

	return []string{function, drop, create}
}

func (d *PostgresDialect) ColumnLookup(t schema.TableSpec, column string) (string, []interface{}) {
	return `SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 AND column_name = $3`,
		[]interface{}{d.getSchema(t.Schema), t.Name, column}
}

func (d *PostgresDialect) ColumnsLookup(t schema.TableSpec) (string, []interface{}) {
	return `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`,
		[]interface{}{d.getSchema(t.Schema), t.Name}
}

func (d *PostgresDialect) SequenceLookup(t schema.TableSpec) (string, []interface{}) {
	return `SELECT sequence_name FROM information_schema.sequences WHERE sequence_schema = $1 AND sequence_name = $2`,
		[]interface{}{d.getSchema(t.Schema), schema.SequenceName(t.Name)}
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(quoted, ", "), vals)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2":
		return "int"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8", "double precision":
		return "double"
	case "bpchar":
		return "char"
	case "character varying":
		return "varchar"
	default:
		return t
	}
}
