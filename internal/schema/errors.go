package schema

import "fmt"

// IdentifierError reports a table/column name that fails the safe
// identifier grammar. Fatal and never retried.
type IdentifierError struct {
	Name string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("unsafe identifier %q: must match %s", e.Name, identPattern)
}

// SchemaError wraps an engine failure with the dialect, table and step
// it happened in. The plan is resumable: already-applied steps are left
// in place and a retry picks up from the failed step.
type SchemaError struct {
	Dialect string
	Table   string
	Step    string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: table %s: step %s: %v", e.Dialect, e.Table, e.Step, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
