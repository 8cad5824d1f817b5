package engine

import (
	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

// Guard tells the applier which catalog check decides whether a step
// may be skipped. Trigger/function/procedure steps carry no guard: they
// are emitted in drop-then-create or create-or-replace form and always
// re-applied, which is what keeps exactly one binding per (table,
// timing, purpose).
type Guard int

const (
	GuardNone Guard = iota
	GuardSequence
	GuardIDColumn
	GuardChildTable
)

// Step is one independently idempotent unit of the plan: a name for
// reporting, the ordered statements to run, and the guard deciding skips.
type Step struct {
	Name       string
	Statements []string
	Guard      Guard
	Child      string // child table name, set for GuardChildTable
}

// BuildPlan validates the spec and produces the ordered execution plan
// for one table. The order is fixed: id objects first (sequence or
// shadow table, the id column, the harvest triggers), then per list
// column in configuration order: child table, split helpers, insert
// procedure, normalization trigger. Later steps reference objects from
// earlier ones, so the applier must never reorder.
func BuildPlan(d dialect.Dialect, t schema.TableSpec) ([]Step, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	for _, lc := range t.Lists {
		if err := d.ValidateList(lc); err != nil {
			return nil, err
		}
	}

	var plan []Step
	add := func(name string, stmts []string, g Guard, child string) {
		if len(stmts) == 0 {
			return
		}
		plan = append(plan, Step{Name: name, Statements: stmts, Guard: g, Child: child})
	}

	add("create_sequence", d.CreateSequence(t), GuardSequence, "")
	add("create_shadow_table", d.CreateShadowTable(t), GuardNone, "")
	add("add_id_column", d.AddIDColumn(t), GuardIDColumn, "")
	add("install_id_triggers", d.CreateIDTriggers(t), GuardNone, "")

	for i, lc := range t.Lists {
		child := schema.ChildTable(lc.Kind, t.Name)
		add("create_child_table_"+child, d.CreateChildTable(t, lc), GuardChildTable, child)
		if i == 0 {
			// Helpers are per-table objects; one installation serves
			// every list column.
			add("create_split_helpers", d.CreateSplitHelpers(t), GuardNone, "")
		}
		add("create_insert_procedure_"+child, d.CreateInsertProcedure(t, lc), GuardNone, "")
		add("install_trigger_"+child, d.CreateNormalizationTrigger(t, lc), GuardNone, "")
	}

	return plan, nil
}
