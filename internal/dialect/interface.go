package dialect

import "db-fanout/internal/schema"

// Dialect abstracts engine-specific schema object generation and catalog
// introspection. Statement methods are pure: they return the ordered
// literal statements for one schema object and never touch a connection.
// Every returned statement is safe to re-run (IF NOT EXISTS / drop-then-
// create / catalog-guarded forms); statements that cannot be made
// self-guarding in the engine are guarded by the applier through the
// catalog lookup queries instead.
//
// Generated DDL references the parent table by its bare (validated)
// name and resolves through the session's default schema/search path;
// TableSpec.Schema only participates in catalog lookups.
type Dialect interface {
	Name() string

	// Quote wraps a column name in the engine's identifier quoting so
	// case-sensitive source columns (e.g. "DIAGLIST") survive.
	Quote(ident string) string

	// Strategy selection. Fixed per dialect, never revisited.
	IDPlan() schema.IDPlan
	SplitStrategy() schema.SplitStrategy

	// ValidateList rejects list specs the engine cannot express.
	ValidateList(lc schema.ListColumnSpec) error

	// Surrogate id objects.
	CreateSequence(t schema.TableSpec) []string    // native-sequence dialects, else nil
	CreateShadowTable(t schema.TableSpec) []string // emulated-sequence dialects, else nil
	AddIDColumn(t schema.TableSpec) []string
	CreateIDTriggers(t schema.TableSpec) []string // emulated-sequence dialects, else nil

	// List normalization objects.
	CreateChildTable(t schema.TableSpec, lc schema.ListColumnSpec) []string
	CreateSplitHelpers(t schema.TableSpec) []string                                  // counted-loop dialects, else nil
	CreateInsertProcedure(t schema.TableSpec, lc schema.ListColumnSpec) []string     // counted-loop dialects, else nil
	CreateNormalizationTrigger(t schema.TableSpec, lc schema.ListColumnSpec) []string

	// Catalog lookups, executed by engine.Inspector. ColumnLookup yields
	// (column_name, data_type) rows; ColumnsLookup yields
	// (column_name, data_type, is_nullable) for the whole table.
	// SequenceLookup returns "" on dialects without sequence objects.
	ColumnLookup(t schema.TableSpec, column string) (string, []interface{})
	ColumnsLookup(t schema.TableSpec) (string, []interface{})
	SequenceLookup(t schema.TableSpec) (string, []interface{})

	// Row plumbing used by the verifier.
	InsertQuery(table string, cols []string) string
	Placeholder(index int) string
	NormalizeType(sqlType string) string
}
