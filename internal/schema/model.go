package schema

import "fmt"

// TableSpec identifies the parent table and the delimited list columns
// that need to be fanned out into child tables.
type TableSpec struct {
	Name   string
	Schema string // only used by schema-qualified dialects (postgres, mssql)
	Lists  []ListColumnSpec
}

// ListColumnSpec describes one delimiter-separated column on the parent
// table. Kind is the caller-supplied child table prefix (e.g. "diaglist").
// Correlation, when set, names a parent column copied verbatim into every
// child row so children stay joinable on more than the surrogate id.
type ListColumnSpec struct {
	Column      string `mapstructure:"column"`
	Delimiter   string `mapstructure:"delimiter"`
	Kind        string `mapstructure:"kind"`
	Correlation string `mapstructure:"correlation"`
}

// IDPlan is the surrogate id strategy. Exactly one plan is valid per
// dialect, so re-running an apply can never switch plans.
type IDPlan int

const (
	NativeSequence IDPlan = iota
	EmulatedSequence
	DirectAutoIncrement
)

func (p IDPlan) String() string {
	switch p {
	case NativeSequence:
		return "native-sequence"
	case EmulatedSequence:
		return "emulated-sequence"
	case DirectAutoIncrement:
		return "direct-autoincrement"
	}
	return "unknown"
}

// SplitStrategy is the list-normalization mechanism.
type SplitStrategy int

const (
	// SetBased: one trigger statement splits the value with a
	// set-returning expression, no helper objects.
	SetBased SplitStrategy = iota
	// CountedLoop: helper functions count and extract tokens, a stored
	// procedure loops over them, the trigger only invokes the procedure.
	CountedLoop
)

func (s SplitStrategy) String() string {
	if s == CountedLoop {
		return "counted-loop"
	}
	return "set-based"
}

// IDColumn is the surrogate id column name on the parent table.
const IDColumn = "id"

// ParentIDColumn is the child table column referencing the parent's id.
const ParentIDColumn = "parent_id"

// ValueColumn is the child table column holding one split token.
const ValueColumn = "value"

// Object naming conventions. Every generated object is named from the
// parent table (and list kind) so plans for different tables never collide.

func ShadowTable(table string) string { return "sequence_id_" + table }

// SequenceName doubles as the sequence name on native-sequence dialects.
func SequenceName(table string) string { return "sequence_id_" + table }

func ChildTable(kind, table string) string { return kind + "_" + table }

func CountHelper(table string) string { return "func_" + table + "_get_delimiter_count" }

func SplitHelper(table string) string { return "func_" + table + "_split_by_delimiter" }

func InsertProcedure(kind, table string) string {
	return "insert_split_result_" + kind + "_" + table
}

func GetIDTrigger(table string) string { return "get_id_" + table }

func RemoveIDTrigger(table string) string { return "remove_id_" + table }

func NormalizationTrigger(kind, table string) string {
	return "after_insert_" + kind + "_" + table
}

// Column is one introspected column of an existing table.
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
}

// ApplyResult reports one table's apply outcome. A PARTIAL status plus
// FailedStep is the resumable-retry signal: already-executed steps stay
// in place and re-running is safe.
type ApplyResult struct {
	TableName  string
	Executed   []string
	Skipped    []string
	FailedStep string
	Status     string
	ErrorMsg   string
}

// VerifyResult reports one list column's live smoke check.
type VerifyResult struct {
	TableName  string
	ChildTable string
	Seeded     int
	Expected   int
	Actual     int
	Status     string
	ErrorMsg   string
}

// Validate checks every identifier in the spec against the safe
// identifier grammar and rejects empty delimiters. This is the only
// defense against SQL injection through caller-supplied names, so it
// runs before any statement is generated.
func (t TableSpec) Validate() error {
	if err := ValidateIdentifier(t.Name); err != nil {
		return err
	}
	if t.Schema != "" {
		if err := ValidateIdentifier(t.Schema); err != nil {
			return err
		}
	}
	if len(t.Lists) == 0 {
		return fmt.Errorf("table %s: no list columns configured", t.Name)
	}
	for _, lc := range t.Lists {
		if err := ValidateIdentifier(lc.Column); err != nil {
			return err
		}
		if err := ValidateIdentifier(lc.Kind); err != nil {
			return err
		}
		if lc.Correlation != "" {
			if err := ValidateIdentifier(lc.Correlation); err != nil {
				return err
			}
		}
		if lc.Delimiter == "" {
			return fmt.Errorf("table %s column %s: delimiter must not be empty", t.Name, lc.Column)
		}
	}
	return nil
}
