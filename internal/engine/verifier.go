package engine

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

// Verify smoke-checks an applied table against a live engine: it seeds
// fake parent rows through the installed triggers, then confirms the
// child tables grew by exactly the token counts the reference semantics
// predict, and that no surrogate id was handed out twice. Only row
// deltas are compared, so rows that predate trigger installation never
// count (they are intentionally not normalized).
func Verify(db *sql.DB, d dialect.Dialect, t schema.TableSpec, count int, onProgress func()) ([]schema.VerifyResult, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	insp := &Inspector{DB: db, D: d}
	cols, err := insp.Columns(t)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found or has no columns", t.Name)
	}

	listFor := make(map[string]schema.ListColumnSpec)
	for _, lc := range t.Lists {
		listFor[strings.ToLower(lc.Column)] = lc
	}

	before := make(map[string]int)
	for _, lc := range t.Lists {
		child := schema.ChildTable(lc.Kind, t.Name)
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + child).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", child, err)
		}
		before[child] = n
	}

	expected := make(map[string]int)
	for i := 0; i < count; i++ {
		var names []string
		var values []interface{}
		for _, c := range cols {
			lower := strings.ToLower(c.Name)
			if lower == schema.IDColumn {
				continue
			}
			names = append(names, c.Name)
			if lc, ok := listFor[lower]; ok {
				v := DelimitedList(lc.Delimiter, gofakeit.Number(1, 4))
				expected[schema.ChildTable(lc.Kind, t.Name)] += schema.TokenCount(v, lc.Delimiter)
				values = append(values, v)
			} else {
				values = append(values, GenerateValue(d, c))
			}
		}
		query := d.InsertQuery(t.Name, names)
		if _, err := db.Exec(query, values...); err != nil {
			return nil, fmt.Errorf("seed insert %d into %s failed: %w", i+1, t.Name, err)
		}
		if onProgress != nil {
			onProgress()
		}
	}

	// The id plan must never hand out the same surrogate twice, in
	// particular under the emulated sequence's insert-then-harvest.
	var dupes int
	dupQuery := fmt.Sprintf("SELECT COUNT(*) - COUNT(DISTINCT %s) FROM %s", schema.IDColumn, t.Name)
	if err := db.QueryRow(dupQuery).Scan(&dupes); err != nil {
		return nil, fmt.Errorf("failed to check surrogate ids on %s: %w", t.Name, err)
	}
	if dupes > 0 {
		return nil, fmt.Errorf("table %s: %d duplicate surrogate ids", t.Name, dupes)
	}

	var results []schema.VerifyResult
	for _, lc := range t.Lists {
		child := schema.ChildTable(lc.Kind, t.Name)
		var after int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + child).Scan(&after); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", child, err)
		}
		actual := after - before[child]

		status := "OK"
		var errMsg string
		if actual != expected[child] {
			status = "MISMATCH"
			errMsg = fmt.Sprintf("expected %d new child rows, found %d", expected[child], actual)
		}
		results = append(results, schema.VerifyResult{
			TableName:  t.Name,
			ChildTable: child,
			Seeded:     count,
			Expected:   expected[child],
			Actual:     actual,
			Status:     status,
			ErrorMsg:   errMsg,
		})
	}
	return results, nil
}
