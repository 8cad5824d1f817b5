package dialect_test

import (
	"strings"
	"testing"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

var pgSpec = schema.TableSpec{
	Name:   "claims",
	Schema: "public",
	Lists: []schema.ListColumnSpec{
		{Column: "DIAGLIST", Delimiter: ";", Kind: "diaglist", Correlation: "SEP"},
	},
}

func TestPostgresStrategies(t *testing.T) {
	d := &dialect.PostgresDialect{}
	if d.IDPlan() != schema.NativeSequence {
		t.Errorf("expected native-sequence plan, got %s", d.IDPlan())
	}
	if d.SplitStrategy() != schema.SetBased {
		t.Errorf("expected set-based strategy, got %s", d.SplitStrategy())
	}
	if len(d.CreateShadowTable(pgSpec)) != 0 || len(d.CreateIDTriggers(pgSpec)) != 0 {
		t.Error("postgres must not emit shadow table or id triggers")
	}
	if len(d.CreateSplitHelpers(pgSpec)) != 0 || len(d.CreateInsertProcedure(pgSpec, pgSpec.Lists[0])) != 0 {
		t.Error("postgres must not emit split helpers or procedures")
	}
}

func TestPostgresCreateSequence(t *testing.T) {
	d := &dialect.PostgresDialect{}
	got := d.CreateSequence(pgSpec)
	want := "CREATE SEQUENCE IF NOT EXISTS sequence_id_claims START 1 INCREMENT 1"
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPostgresAddIDColumn(t *testing.T) {
	d := &dialect.PostgresDialect{}
	got := d.AddIDColumn(pgSpec)
	want := "ALTER TABLE claims ADD COLUMN IF NOT EXISTS id INT NOT NULL PRIMARY KEY DEFAULT nextval('sequence_id_claims')"
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPostgresCreateChildTable(t *testing.T) {
	d := &dialect.PostgresDialect{}
	got := d.CreateChildTable(pgSpec, pgSpec.Lists[0])
	want := `CREATE TABLE IF NOT EXISTS diaglist_claims (
    id BIGSERIAL PRIMARY KEY NOT NULL,
    parent_id INT NOT NULL,
    "SEP" VARCHAR(255),
    "value" VARCHAR(255) NOT NULL
)`
	if len(got) != 1 || got[0] != want {
		t.Errorf("got:\n%s\nwant:\n%s", got[0], want)
	}
}

func TestPostgresNormalizationTrigger(t *testing.T) {
	d := &dialect.PostgresDialect{}
	got := d.CreateNormalizationTrigger(pgSpec, pgSpec.Lists[0])
	if len(got) != 3 {
		t.Fatalf("expected function + drop + create, got %d statements", len(got))
	}

	wantFn := `CREATE OR REPLACE FUNCTION insert_split_result_diaglist_claims()
RETURNS TRIGGER
AS
$$
BEGIN
    INSERT INTO diaglist_claims (parent_id, "SEP", "value") SELECT NEW.id, NEW."SEP", UNNEST(STRING_TO_ARRAY(NEW."DIAGLIST", ';'));
    RETURN NEW;
END
$$ LANGUAGE 'plpgsql'`
	if got[0] != wantFn {
		t.Errorf("function:\n%s\nwant:\n%s", got[0], wantFn)
	}

	wantDrop := "DROP TRIGGER IF EXISTS after_insert_diaglist_claims ON claims"
	if got[1] != wantDrop {
		t.Errorf("drop: got %q, want %q", got[1], wantDrop)
	}

	wantCreate := `CREATE TRIGGER after_insert_diaglist_claims
    AFTER INSERT
    ON claims
    FOR EACH ROW
    EXECUTE PROCEDURE insert_split_result_diaglist_claims()`
	if got[2] != wantCreate {
		t.Errorf("create:\n%s\nwant:\n%s", got[2], wantCreate)
	}
}

func TestPostgresNormalizationTrigger_NoCorrelation(t *testing.T) {
	d := &dialect.PostgresDialect{}
	spec := pgSpec
	spec.Lists = []schema.ListColumnSpec{{Column: "PROCLIST", Delimiter: ";", Kind: "proclist"}}
	got := d.CreateNormalizationTrigger(spec, spec.Lists[0])

	wantFn := `CREATE OR REPLACE FUNCTION insert_split_result_proclist_claims()
RETURNS TRIGGER
AS
$$
BEGIN
    INSERT INTO proclist_claims (parent_id, "value") SELECT NEW.id, UNNEST(STRING_TO_ARRAY(NEW."PROCLIST", ';'));
    RETURN NEW;
END
$$ LANGUAGE 'plpgsql'`
	if got[0] != wantFn {
		t.Errorf("function:\n%s\nwant:\n%s", got[0], wantFn)
	}
}

func TestPostgresDelimiterEscaping(t *testing.T) {
	d := &dialect.PostgresDialect{}
	spec := pgSpec
	spec.Lists = []schema.ListColumnSpec{{Column: "NOTES", Delimiter: "'", Kind: "notelist"}}
	got := d.CreateNormalizationTrigger(spec, spec.Lists[0])
	for _, stmt := range got {
		if strings.Contains(stmt, "STRING_TO_ARRAY") && !strings.Contains(stmt, "''") {
			t.Errorf("single quote delimiter not escaped in:\n%s", stmt)
		}
	}
}
