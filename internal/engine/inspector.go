package engine

import (
	"database/sql"
	"fmt"

	"db-fanout/internal/dialect"
	"db-fanout/internal/schema"
)

// Inspector answers catalog questions by running the dialect's lookup
// queries against a live connection. It is the only way re-application
// is detected: there is no migration ledger, the database catalog is
// the source of truth.
type Inspector struct {
	DB *sql.DB
	D  dialect.Dialect
}

// Column reports whether the column exists on the table, and its raw
// catalog data type when it does.
func (in *Inspector) Column(t schema.TableSpec, column string) (bool, string, error) {
	query, args := in.D.ColumnLookup(t, column)
	rows, err := in.DB.Query(query, args...)
	if err != nil {
		return false, "", fmt.Errorf("failed to query column %s.%s: %w", t.Name, column, err)
	}
	defer rows.Close()

	if rows.Next() {
		var name, dataType sql.NullString
		if err := rows.Scan(&name, &dataType); err != nil {
			return false, "", fmt.Errorf("failed to scan column %s.%s: %w", t.Name, column, err)
		}
		return true, dataType.String, rows.Err()
	}
	return false, "", rows.Err()
}

// HasSequence reports whether the table's sequence already exists.
// Dialects without sequence objects always answer false.
func (in *Inspector) HasSequence(t schema.TableSpec) (bool, error) {
	query, args := in.D.SequenceLookup(t)
	if query == "" {
		return false, nil
	}
	rows, err := in.DB.Query(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to query sequence for %s: %w", t.Name, err)
	}
	defer rows.Close()

	found := rows.Next()
	return found, rows.Err()
}

// Columns lists every column of the table, used by the verifier to
// build seed rows.
func (in *Inspector) Columns(t schema.TableSpec) ([]*schema.Column, error) {
	query, args := in.D.ColumnsLookup(t)
	rows, err := in.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", t.Name, err)
	}
	defer rows.Close()

	var cols []*schema.Column
	for rows.Next() {
		var name, dataType, isNull sql.NullString
		if err := rows.Scan(&name, &dataType, &isNull); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", t.Name, err)
		}
		if !name.Valid {
			continue
		}
		cols = append(cols, &schema.Column{
			Name:       name.String,
			DataType:   dataType.String,
			IsNullable: isNull.String == "YES" || isNull.String == "Y",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", t.Name, err)
	}
	return cols, nil
}
