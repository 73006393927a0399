package store

import (
	"fmt"
	"regexp"
)

// Column describes one column of a business table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// identRe matches a safe SQLite identifier. PRAGMA statements cannot take
// bound parameters, so table names are validated before interpolation.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Tables returns the names of all user tables in the database.
func (s *Store) Tables() ([]string, error) {
	rows, err := s.reader.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("store: list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list tables: %w", err)
	}
	return tables, nil
}

// TableColumns returns the column definitions of the given table in
// declaration order. An unknown table yields an empty slice, not an error;
// PRAGMA table_info simply returns no rows.
func (s *Store) TableColumns(table string) ([]Column, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("store: invalid table name %q", table)
	}

	rows, err := s.reader.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("store: table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("store: scan table_info %s: %w", table, err)
		}
		cols = append(cols, Column{
			Name:       name,
			Type:       ctype,
			NotNull:    notNull != 0,
			PrimaryKey: pk != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: table_info %s: %w", table, err)
	}
	return cols, nil
}

// RowCount returns the number of rows in the given table.
func (s *Store) RowCount(table string) (int64, error) {
	if !identRe.MatchString(table) {
		return 0, fmt.Errorf("store: invalid table name %q", table)
	}
	var n int64
	if err := s.reader.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count %s: %w", table, err)
	}
	return n, nil
}

// SampleRow returns the column names and stringified values of the first
// row of the given table. ok is false when the table is empty.
func (s *Store) SampleRow(table string) (cols []string, values []string, ok bool, err error) {
	if !identRe.MatchString(table) {
		return nil, nil, false, fmt.Errorf("store: invalid table name %q", table)
	}

	rows, err := s.reader.Query(fmt.Sprintf("SELECT * FROM %s LIMIT 1", table))
	if err != nil {
		return nil, nil, false, fmt.Errorf("store: sample %s: %w", table, err)
	}
	defer rows.Close()

	cols, err = rows.Columns()
	if err != nil {
		return nil, nil, false, fmt.Errorf("store: sample columns %s: %w", table, err)
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, nil, false, fmt.Errorf("store: sample %s: %w", table, err)
		}
		return cols, nil, false, nil
	}

	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, nil, false, fmt.Errorf("store: scan sample %s: %w", table, err)
	}

	values = make([]string, len(cols))
	for i, v := range raw {
		values[i] = stringifyValue(v)
	}
	return cols, values, true, nil
}

// stringifyValue renders a scanned database value for display.
func stringifyValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatFloat renders a float without a trailing ".0" for whole numbers.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
