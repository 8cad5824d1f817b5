package dialect

import (
	"fmt"
	"strings"

	"db-fanout/internal/schema"
)

// OracleDialect: native sequences with a DEFAULT NEXTVAL id column, but
// list normalization runs as a counted loop in PL/SQL helper functions
// and a procedure, the same shape as mysql. Oracle has no DDL IF NOT
// EXISTS forms; the sequence, id column and child table creation are all
// guarded by the applier through USER_* catalog lookups.
//
// Oracle does not distinguish the empty string from NULL, so empty
// tokens surface as NULL child values and the child value column stays
// nullable here.
type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

// Quote uppercases before quoting: unquoted Oracle identifiers are
// stored uppercase, so this matches columns regardless of config case
// while still protecting keywords like VALUE.
func (d *OracleDialect) Quote(ident string) string {
	return `"` + strings.ToUpper(ident) + `"`
}

func (d *OracleDialect) IDPlan() schema.IDPlan { return schema.NativeSequence }

func (d *OracleDialect) SplitStrategy() schema.SplitStrategy { return schema.CountedLoop }

func (d *OracleDialect) ValidateList(lc schema.ListColumnSpec) error { return nil }

func (d *OracleDialect) CreateSequence(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"CREATE SEQUENCE %s START WITH 1 INCREMENT BY 1",
		schema.SequenceName(t.Name),
	)}
}

func (d *OracleDialect) CreateShadowTable(t schema.TableSpec) []string { return nil }

func (d *OracleDialect) AddIDColumn(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"ALTER TABLE %s ADD (%s NUMBER(10) DEFAULT %s.NEXTVAL NOT NULL PRIMARY KEY)",
		t.Name, schema.IDColumn, schema.SequenceName(t.Name),
	)}
}

func (d *OracleDialect) CreateIDTriggers(t schema.TableSpec) []string { return nil }

func (d *OracleDialect) CreateChildTable(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	child := schema.ChildTable(lc.Kind, t.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", child)
	b.WriteString("    id NUMBER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,\n")
	fmt.Fprintf(&b, "    %s NUMBER(10) NOT NULL,\n", schema.ParentIDColumn)
	if lc.Correlation != "" {
		fmt.Fprintf(&b, "    %s VARCHAR2(255),\n", d.Quote(lc.Correlation))
	}
	fmt.Fprintf(&b, "    %s VARCHAR2(255)\n)", d.Quote(schema.ValueColumn))
	return []string{b.String()}
}

func (d *OracleDialect) CreateSplitHelpers(t schema.TableSpec) []string {
	count := schema.CountHelper(t.Name)
	split := schema.SplitHelper(t.Name)

	return []string{
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(p_value IN VARCHAR2, p_delim IN VARCHAR2)
RETURN NUMBER
DETERMINISTIC
IS
BEGIN
    IF p_value IS NULL THEN
        RETURN 0;
    END IF;
    RETURN 1 + (LENGTH(p_value) - NVL(LENGTH(REPLACE(p_value, p_delim)), 0)) / LENGTH(p_delim);
END;`, count),
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(p_value IN VARCHAR2, p_delim IN VARCHAR2, p_pos IN NUMBER)
RETURN VARCHAR2
DETERMINISTIC
IS
    v_start NUMBER;
    v_end NUMBER;
BEGIN
    IF p_pos = 1 THEN
        v_start := 1;
    ELSE
        v_start := INSTR(p_value, p_delim, 1, p_pos - 1);
        IF v_start = 0 THEN
            RETURN NULL;
        END IF;
        v_start := v_start + LENGTH(p_delim);
    END IF;
    v_end := INSTR(p_value, p_delim, v_start);
    IF v_end = 0 THEN
        RETURN SUBSTR(p_value, v_start);
    END IF;
    RETURN SUBSTR(p_value, v_start, v_end - v_start);
END;`, split),
	}
}

func (d *OracleDialect) CreateInsertProcedure(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	proc := schema.InsertProcedure(lc.Kind, t.Name)
	child := schema.ChildTable(lc.Kind, t.Name)
	delim := escapeLiteral(lc.Delimiter)

	params := "p_parent_id IN NUMBER, p_value IN VARCHAR2"
	cols := schema.ParentIDColumn
	vals := "p_parent_id"
	if lc.Correlation != "" {
		params = "p_parent_id IN NUMBER, p_correlation IN VARCHAR2, p_value IN VARCHAR2"
		cols += ", " + d.Quote(lc.Correlation)
		vals += ", p_correlation"
	}
	cols += ", " + d.Quote(schema.ValueColumn)
	vals += fmt.Sprintf(", %s(p_value, '%s', i)", schema.SplitHelper(t.Name), delim)

	return []string{fmt.Sprintf(`CREATE OR REPLACE PROCEDURE %s(%s)
IS
    v_count NUMBER;
BEGIN
    IF p_value IS NULL THEN
        RETURN;
    END IF;
    v_count := %s(p_value, '%s');
    FOR i IN 1 .. v_count LOOP
        INSERT INTO %s (%s) VALUES (%s);
    END LOOP;
END;`, proc, params, schema.CountHelper(t.Name), delim, child, cols, vals)}
}

func (d *OracleDialect) CreateNormalizationTrigger(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	trigger := schema.NormalizationTrigger(lc.Kind, t.Name)
	proc := schema.InsertProcedure(lc.Kind, t.Name)

	args := ":NEW." + schema.IDColumn
	if lc.Correlation != "" {
		args += ", :NEW." + d.Quote(lc.Correlation)
	}
	args += ", :NEW." + d.Quote(lc.Column)

	return []string{fmt.Sprintf(`CREATE OR REPLACE TRIGGER %s
AFTER INSERT
ON %s
FOR EACH ROW
BEGIN
    %s(%s);
END;`, trigger, t.Name, proc, args)}
}

func (d *OracleDialect) ColumnLookup(t schema.TableSpec, column string) (string, []interface{}) {
	return `SELECT COLUMN_NAME, DATA_TYPE FROM USER_TAB_COLUMNS WHERE TABLE_NAME = UPPER(:1) AND COLUMN_NAME = UPPER(:2)`,
		[]interface{}{t.Name, column}
}

func (d *OracleDialect) ColumnsLookup(t schema.TableSpec) (string, []interface{}) {
	return `SELECT COLUMN_NAME, DATA_TYPE, NULLABLE FROM USER_TAB_COLUMNS WHERE TABLE_NAME = UPPER(:1) ORDER BY COLUMN_ID`,
		[]interface{}{t.Name}
}

func (d *OracleDialect) SequenceLookup(t schema.TableSpec) (string, []interface{}) {
	return `SELECT SEQUENCE_NAME FROM USER_SEQUENCES WHERE SEQUENCE_NAME = UPPER(:1)`,
		[]interface{}{schema.SequenceName(t.Name)}
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(quoted, ", "), vals)
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch {
	case t == "number":
		return "number"
	case strings.HasPrefix(t, "varchar2"), strings.HasPrefix(t, "nvarchar2"):
		return "varchar"
	case strings.HasPrefix(t, "timestamp"):
		return "timestamp"
	default:
		return t
	}
}
