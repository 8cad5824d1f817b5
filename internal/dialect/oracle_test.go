package dialect_test

import (
	"strings"
	"testing"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

var oraSpec = schema.TableSpec{
	Name: "claims",
	Lists: []schema.ListColumnSpec{
		{Column: "DIAGLIST", Delimiter: ";", Kind: "diaglist", Correlation: "SEP"},
	},
}

func TestOracleStrategies(t *testing.T) {
	d := &dialect.OracleDialect{}
	if d.IDPlan() != schema.NativeSequence {
		t.Errorf("expected native-sequence plan, got %s", d.IDPlan())
	}
	if d.SplitStrategy() != schema.CountedLoop {
		t.Errorf("expected counted-loop strategy, got %s", d.SplitStrategy())
	}
	if len(d.CreateShadowTable(oraSpec)) != 0 || len(d.CreateIDTriggers(oraSpec)) != 0 {
		t.Error("oracle must not emit shadow table or id triggers")
	}
}

func TestOracleQuote(t *testing.T) {
	d := &dialect.OracleDialect{}
	if got := d.Quote("value"); got != `"VALUE"` {
		t.Errorf("got %q, want %q", got, `"VALUE"`)
	}
}

func TestOracleSequenceAndIDColumn(t *testing.T) {
	d := &dialect.OracleDialect{}

	seq := d.CreateSequence(oraSpec)
	wantSeq := "CREATE SEQUENCE sequence_id_claims START WITH 1 INCREMENT BY 1"
	if len(seq) != 1 || seq[0] != wantSeq {
		t.Errorf("got %q, want %q", seq, wantSeq)
	}

	add := d.AddIDColumn(oraSpec)
	wantAdd := "ALTER TABLE claims ADD (id NUMBER(10) DEFAULT sequence_id_claims.NEXTVAL NOT NULL PRIMARY KEY)"
	if len(add) != 1 || add[0] != wantAdd {
		t.Errorf("got %q, want %q", add, wantAdd)
	}
}

func TestOracleChildTable(t *testing.T) {
	d := &dialect.OracleDialect{}
	got := d.CreateChildTable(oraSpec, oraSpec.Lists[0])
	want := `CREATE TABLE diaglist_claims (
    id NUMBER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    parent_id NUMBER(10) NOT NULL,
    "SEP" VARCHAR2(255),
    "VALUE" VARCHAR2(255)
)`
	if len(got) != 1 || got[0] != want {
		t.Errorf("got:\n%s\nwant:\n%s", got[0], want)
	}
}

func TestOracleSplitHelpers(t *testing.T) {
	d := &dialect.OracleDialect{}
	got := d.CreateSplitHelpers(oraSpec)
	if len(got) != 2 {
		t.Fatalf("expected 2 helper statements, got %d", len(got))
	}
	if !strings.HasPrefix(got[0], "CREATE OR REPLACE FUNCTION func_claims_get_delimiter_count(") {
		t.Errorf("unexpected count helper:\n%s", got[0])
	}
	if !strings.Contains(got[0], "RETURN 0;") {
		t.Errorf("count helper must return 0 for NULL input:\n%s", got[0])
	}
	if !strings.Contains(got[0], "1 + (LENGTH(p_value) - NVL(LENGTH(REPLACE(p_value, p_delim)), 0)) / LENGTH(p_delim)") {
		t.Errorf("unexpected count expression:\n%s", got[0])
	}
	if !strings.HasPrefix(got[1], "CREATE OR REPLACE FUNCTION func_claims_split_by_delimiter(") {
		t.Errorf("unexpected split helper:\n%s", got[1])
	}
	if !strings.Contains(got[1], "INSTR(p_value, p_delim, 1, p_pos - 1)") {
		t.Errorf("split helper must seek by occurrence:\n%s", got[1])
	}
}

func TestOracleInsertProcedure(t *testing.T) {
	d := &dialect.OracleDialect{}
	got := d.CreateInsertProcedure(oraSpec, oraSpec.Lists[0])
	want := `CREATE OR REPLACE PROCEDURE insert_split_result_diaglist_claims(p_parent_id IN NUMBER, p_correlation IN VARCHAR2, p_value IN VARCHAR2)
IS
    v_count NUMBER;
BEGIN
    IF p_value IS NULL THEN
        RETURN;
    END IF;
    v_count := func_claims_get_delimiter_count(p_value, ';');
    FOR i IN 1 .. v_count LOOP
        INSERT INTO diaglist_claims (parent_id, "SEP", "VALUE") VALUES (p_parent_id, p_correlation, func_claims_split_by_delimiter(p_value, ';', i));
    END LOOP;
END;`
	if len(got) != 1 || got[0] != want {
		t.Errorf("got:\n%s\nwant:\n%s", got[0], want)
	}
}

func TestOracleNormalizationTrigger(t *testing.T) {
	d := &dialect.OracleDialect{}
	got := d.CreateNormalizationTrigger(oraSpec, oraSpec.Lists[0])
	want := `CREATE OR REPLACE TRIGGER after_insert_diaglist_claims
AFTER INSERT
ON claims
FOR EACH ROW
BEGIN
    insert_split_result_diaglist_claims(:NEW.id, :NEW."SEP", :NEW."DIAGLIST");
END;`
	if len(got) != 1 || got[0] != want {
		t.Errorf("got:\n%s\nwant:\n%s", got[0], want)
	}
}

func TestOracleDelimiterEscaping(t *testing.T) {
	d := &dialect.OracleDialect{}
	spec := schema.TableSpec{
		Name:  "claims",
		Lists: []schema.ListColumnSpec{{Column: "X", Delimiter: "'", Kind: "xlist"}},
	}
	got := d.CreateInsertProcedure(spec, spec.Lists[0])
	if len(got) != 1 || !strings.Contains(got[0], "''''") {
		t.Errorf("quote delimiter not escaped:\n%s", got)
	}
}
