package dialect_test

import (
	"testing"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

var msSpec = schema.TableSpec{
	Name: "claims",
	Lists: []schema.ListColumnSpec{
		{Column: "DIAGLIST", Delimiter: ";", Kind: "diaglist", Correlation: "SEP"},
	},
}

func TestMSSQLStrategies(t *testing.T) {
	d := &dialect.MSSQLDialect{}
	if d.IDPlan() != schema.DirectAutoIncrement {
		t.Errorf("expected direct-autoincrement plan, got %s", d.IDPlan())
	}
	if d.SplitStrategy() != schema.SetBased {
		t.Errorf("expected set-based strategy, got %s", d.SplitStrategy())
	}
	if len(d.CreateSequence(msSpec)) != 0 || len(d.CreateShadowTable(msSpec)) != 0 {
		t.Error("sqlserver must not emit sequence or shadow table")
	}
	if len(d.CreateSplitHelpers(msSpec)) != 0 || len(d.CreateInsertProcedure(msSpec, msSpec.Lists[0])) != 0 {
		t.Error("sqlserver must not emit split helpers or procedures")
	}
}

func TestMSSQLAddIDColumn(t *testing.T) {
	d := &dialect.MSSQLDialect{}
	got := d.AddIDColumn(msSpec)
	want := "IF COL_LENGTH('dbo.claims', 'id') IS NULL ALTER TABLE claims ADD id INT IDENTITY(1,1) NOT NULL PRIMARY KEY"
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMSSQLNormalizationTrigger(t *testing.T) {
	d := &dialect.MSSQLDialect{}
	got := d.CreateNormalizationTrigger(msSpec, msSpec.Lists[0])
	want := `CREATE OR ALTER TRIGGER after_insert_diaglist_claims
ON claims
AFTER INSERT
AS
BEGIN
    SET NOCOUNT ON;
    INSERT INTO diaglist_claims (parent_id, [SEP], [value])
    SELECT i.id, i.[SEP], s.[value]
    FROM inserted i
    CROSS APPLY STRING_SPLIT(i.[DIAGLIST], ';', 1) s
    WHERE i.[DIAGLIST] IS NOT NULL AND i.[DIAGLIST] <> ''
    ORDER BY i.id, s.ordinal;
END`
	if len(got) != 1 || got[0] != want {
		t.Errorf("got:\n%s\nwant:\n%s", got[0], want)
	}
}

func TestMSSQLChildTable(t *testing.T) {
	d := &dialect.MSSQLDialect{}
	got := d.CreateChildTable(msSpec, msSpec.Lists[0])
	want := `IF OBJECT_ID('diaglist_claims', 'U') IS NULL
CREATE TABLE diaglist_claims (
    id INT IDENTITY(1,1) NOT NULL PRIMARY KEY,
    parent_id INT NOT NULL,
    [SEP] NVARCHAR(255),
    [value] NVARCHAR(255) NOT NULL
)`
	if len(got) != 1 || got[0] != want {
		t.Errorf("got:\n%s\nwant:\n%s", got[0], want)
	}
}

func TestMSSQLValidateList(t *testing.T) {
	d := &dialect.MSSQLDialect{}
	if err := d.ValidateList(schema.ListColumnSpec{Column: "X", Delimiter: ";", Kind: "xlist"}); err != nil {
		t.Errorf("single-character delimiter rejected: %v", err)
	}
	if err := d.ValidateList(schema.ListColumnSpec{Column: "X", Delimiter: "||", Kind: "xlist"}); err == nil {
		t.Error("expected multi-character delimiter to be rejected")
	}
}
