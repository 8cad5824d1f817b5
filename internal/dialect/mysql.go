package dialect

import (
	"fmt"
	"strings"

	"db-fanout/internal/schema"
)

// MysqlDialect: no sequence objects, and trigger bodies cannot contain
// set-returning statements. The surrogate id is emulated with a one
// column AUTO_INCREMENT shadow table harvested by a BEFORE INSERT
// trigger, and list normalization runs as a counted loop in a stored
// procedure driven by two helper functions.
type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) Quote(ident string) string {
	return "`" + ident + "`"
}

func (d *MysqlDialect) IDPlan() schema.IDPlan { return schema.EmulatedSequence }

func (d *MysqlDialect) SplitStrategy() schema.SplitStrategy { return schema.CountedLoop }

func (d *MysqlDialect) ValidateList(lc schema.ListColumnSpec) error { return nil }

func (d *MysqlDialect) CreateSequence(t schema.TableSpec) []string { return nil }

func (d *MysqlDialect) CreateShadowTable(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id INT NOT NULL AUTO_INCREMENT PRIMARY KEY)",
		schema.ShadowTable(t.Name),
	)}
}

// AddIDColumn has no IF NOT EXISTS form here; the applier guards it
// with a catalog lookup instead.
func (d *MysqlDialect) AddIDColumn(t schema.TableSpec) []string {
	return []string{fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN %s INT NOT NULL PRIMARY KEY",
		t.Name, schema.IDColumn,
	)}
}

// CreateIDTriggers installs the insert-then-harvest pair. The AFTER
// trigger deletes the oldest shadow row to bound the shadow table at the
// number of in-flight inserts; the smallest-id delete assumes shadow
// inserts and deletes interleave in insertion order, which the engine's
// per-statement row trigger serialization provides under normal load.
func (d *MysqlDialect) CreateIDTriggers(t schema.TableSpec) []string {
	shadow := schema.ShadowTable(t.Name)
	getID := schema.GetIDTrigger(t.Name)
	removeID := schema.RemoveIDTrigger(t.Name)

	return []string{
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s", getID),
		fmt.Sprintf(`CREATE TRIGGER %s
BEFORE INSERT
ON %s
FOR EACH ROW
BEGIN
    INSERT INTO %s VALUES (NULL);
    SET NEW.%s = LAST_INSERT_ID();
END`, getID, t.Name, shadow, schema.IDColumn),
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s", removeID),
		fmt.Sprintf(`CREATE TRIGGER %s
AFTER INSERT
ON %s
FOR EACH ROW
BEGIN
    DELETE FROM %s ORDER BY id ASC LIMIT 1;
END`, removeID, t.Name, shadow),
	}
}

func (d *MysqlDialect) CreateChildTable(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	child := schema.ChildTable(lc.Kind, t.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", child)
	b.WriteString("    id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,\n")
	fmt.Fprintf(&b, "    %s INT NOT NULL,\n", schema.ParentIDColumn)
	if lc.Correlation != "" {
		fmt.Fprintf(&b, "    %s VARCHAR(255),\n", d.Quote(lc.Correlation))
	}
	fmt.Fprintf(&b, "    %s VARCHAR(255) NOT NULL\n)", d.Quote(schema.ValueColumn))
	return []string{b.String()}
}

// CreateSplitHelpers emits the two pure functions the counted loop
// needs: token count = 1 + delimiter occurrences, and the n-th token as
// the tail of the first n delimiter-bounded segments.
func (d *MysqlDialect) CreateSplitHelpers(t schema.TableSpec) []string {
	count := schema.CountHelper(t.Name)
	split := schema.SplitHelper(t.Name)

	return []string{
		fmt.Sprintf("DROP FUNCTION IF EXISTS %s", count),
		fmt.Sprintf(`CREATE FUNCTION %s(source_value TEXT, delim VARCHAR(16))
RETURNS INT
DETERMINISTIC
RETURN 1 + (CHAR_LENGTH(source_value) - CHAR_LENGTH(REPLACE(source_value, delim, ''))) / CHAR_LENGTH(delim)`, count),
		fmt.Sprintf("DROP FUNCTION IF EXISTS %s", split),
		fmt.Sprintf(`CREATE FUNCTION %s(source_value TEXT, delim VARCHAR(16), pos INT)
RETURNS VARCHAR(255)
DETERMINISTIC
RETURN REPLACE(SUBSTRING(SUBSTRING_INDEX(source_value, delim, pos), CHAR_LENGTH(SUBSTRING_INDEX(source_value, delim, pos - 1)) + 1), delim, '')`, split),
	}
}

func (d *MysqlDialect) CreateInsertProcedure(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	proc := schema.InsertProcedure(lc.Kind, t.Name)
	child := schema.ChildTable(lc.Kind, t.Name)
	delim := escapeLiteral(lc.Delimiter)

	params := fmt.Sprintf("IN p_parent_id INT, IN p_%s TEXT", schema.ValueColumn)
	cols := schema.ParentIDColumn
	vals := "p_parent_id"
	if lc.Correlation != "" {
		params = "IN p_parent_id INT, IN p_correlation VARCHAR(255), IN p_" + schema.ValueColumn + " TEXT"
		cols += ", " + d.Quote(lc.Correlation)
		vals += ", p_correlation"
	}
	cols += ", " + d.Quote(schema.ValueColumn)
	vals += fmt.Sprintf(", %s(p_%s, '%s', i)", schema.SplitHelper(t.Name), schema.ValueColumn, delim)

	return []string{
		fmt.Sprintf("DROP PROCEDURE IF EXISTS %s", proc),
		fmt.Sprintf(`CREATE PROCEDURE %s(%s)
BEGIN
    DECLARE i INT DEFAULT 1;
    DECLARE n INT;
    IF p_%s IS NOT NULL AND p_%s <> '' THEN
        SET n = %s(p_%s, '%s');
        WHILE i <= n DO
            INSERT INTO %s (%s) VALUES (%s);
            SET i = i + 1;
        END WHILE;
    END IF;
END`, proc, params,
			schema.ValueColumn, schema.ValueColumn,
			schema.CountHelper(t.Name), schema.ValueColumn, delim,
			child, cols, vals),
	}
}

func (d *MysqlDialect) CreateNormalizationTrigger(t schema.TableSpec, lc schema.ListColumnSpec) []string {
	trigger := schema.NormalizationTrigger(lc.Kind, t.Name)
	proc := schema.InsertProcedure(lc.Kind, t.Name)

	args := "NEW." + schema.IDColumn
	if lc.Correlation != "" {
		args += ", NEW." + d.Quote(lc.Correlation)
	}
	args += ", NEW." + d.Quote(lc.Column)

	return []string{
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s", trigger),
		fmt.Sprintf(`CREATE TRIGGER %s
AFTER INSERT
ON %s
FOR EACH ROW
CALL %s(%s)`, trigger, t.Name, proc, args),
	}
}

func (d *MysqlDialect) ColumnLookup(t schema.TableSpec, column string) (string, []interface{}) {
	return `SELECT COLUMN_NAME, DATA_TYPE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
		[]interface{}{t.Schema, t.Name, column}
}

func (d *MysqlDialect) ColumnsLookup(t schema.TableSpec) (string, []interface{}) {
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`,
		[]interface{}{t.Schema, t.Name}
}

func (d *MysqlDialect) SequenceLookup(t schema.TableSpec) (string, []interface{}) {
	return "", nil
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(quoted, ", "), vals)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}
