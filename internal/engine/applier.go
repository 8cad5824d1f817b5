package engine

import (
	"database/sql"
	"log"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

// Execer is the statement execution surface the applier needs;
// satisfied by *sql.DB.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Catalog answers the existence questions the step guards depend on;
// satisfied by *Inspector.
type Catalog interface {
	Column(t schema.TableSpec, column string) (bool, string, error)
	HasSequence(t schema.TableSpec) (bool, error)
}

// Apply builds and executes the plan for one table. DDL cannot be
// rolled back on most engines, so there is no transaction: on failure
// the already-applied steps stay in place and the returned ApplyResult
// carries the failed step so the caller can retry (every step is
// individually idempotent).
func Apply(db *sql.DB, d dialect.Dialect, t schema.TableSpec, onProgress func()) (*schema.ApplyResult, error) {
	return Run(db, &Inspector{DB: db, D: d}, d, t, onProgress)
}

// Run is Apply over explicit execution and catalog surfaces.
func Run(ex Execer, cat Catalog, d dialect.Dialect, t schema.TableSpec, onProgress func()) (*schema.ApplyResult, error) {
	plan, err := BuildPlan(d, t)
	if err != nil {
		return nil, err
	}

	res := &schema.ApplyResult{TableName: t.Name, Status: "OK"}

	for _, step := range plan {
		skip, err := shouldSkip(cat, d, t, step)
		if err != nil {
			serr := &schema.SchemaError{Dialect: d.Name(), Table: t.Name, Step: step.Name, Err: err}
			res.Status = "PARTIAL"
			res.FailedStep = step.Name
			res.ErrorMsg = serr.Error()
			return res, serr
		}
		if skip {
			res.Skipped = append(res.Skipped, step.Name)
			if onProgress != nil {
				onProgress()
			}
			continue
		}

		for _, stmt := range step.Statements {
			if _, err := ex.Exec(stmt); err != nil {
				serr := &schema.SchemaError{Dialect: d.Name(), Table: t.Name, Step: step.Name, Err: err}
				res.Status = "PARTIAL"
				res.FailedStep = step.Name
				res.ErrorMsg = serr.Error()
				return res, serr
			}
		}
		res.Executed = append(res.Executed, step.Name)
		if onProgress != nil {
			onProgress()
		}
	}

	return res, nil
}

// shouldSkip runs the step's guard against the catalog. The id column
// guard is the one place a problem is swallowed deliberately: an
// existing id column of a non-integer type logs a warning and skips the
// add, because failing the whole plan over it would block the
// normalization objects that only reference the column by name.
func shouldSkip(cat Catalog, d dialect.Dialect, t schema.TableSpec, step Step) (bool, error) {
	switch step.Guard {
	case GuardSequence:
		return cat.HasSequence(t)
	case GuardIDColumn:
		found, dataType, err := cat.Column(t, schema.IDColumn)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
		if !dialect.CompatibleIDType(d.NormalizeType(dataType)) {
			log.Printf("Warning: table %s already has an id column of type %s; leaving it in place", t.Name, dataType)
		}
		return true, nil
	case GuardChildTable:
		found, _, err := cat.Column(schema.TableSpec{Name: step.Child, Schema: t.Schema}, schema.IDColumn)
		return found, err
	}
	return false, nil
}
