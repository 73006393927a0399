package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Result holds the materialized output of an executed query. All values
// are stringified; the assistant only ever renders them as text.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the result has no rows.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// FailureKind categorizes an execution failure for user guidance.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailureSyntax
	FailureMissingTable
	FailureMissingColumn
)

// intervalRe matches PostgreSQL-style relative date arithmetic, e.g.
// CURRENT_DATE - INTERVAL '30 days', which LLMs produce habitually even
// when told the target dialect is SQLite.
var intervalRe = regexp.MustCompile(`(?i)CURRENT_DATE\s*-\s*INTERVAL\s*['"](\d+)\s*days?['"]`)

// RewriteDialect converts non-SQLite idioms in the query to their SQLite
// equivalents. Currently it rewrites CURRENT_DATE - INTERVAL 'N days'
// to date('now', '-N days').
func RewriteDialect(query string) string {
	return intervalRe.ReplaceAllStringFunc(query, func(m string) string {
		sub := intervalRe.FindStringSubmatch(m)
		return fmt.Sprintf("date('now', '-%s days')", sub[1])
	})
}

// ClassifyError maps a failure message to a FailureKind by substring.
func ClassifyError(msg string) FailureKind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "syntax error"):
		return FailureSyntax
	case strings.Contains(lower, "no such table"):
		return FailureMissingTable
	case strings.Contains(lower, "no such column"):
		return FailureMissingColumn
	default:
		return FailureOther
	}
}

// Hint returns a short user-facing suggestion for a failure kind.
func Hint(kind FailureKind) string {
	switch kind {
	case FailureSyntax:
		return "check the SQL syntax"
	case FailureMissingTable:
		return "check the table names against the schema"
	case FailureMissingColumn:
		return "check the column names against the schema"
	default:
		return "review the query and try again"
	}
}

// ExecuteOptions tunes query execution.
type ExecuteOptions struct {
	// MaxRows caps how many rows are materialized. Zero means no cap.
	MaxRows int
	// PreviewRows is how many rows the text synopsis shows. Zero means 5.
	PreviewRows int
}

// Execute rewrites the query for SQLite, runs it on the read-only
// connection, and returns the materialized result with a human-readable
// message. On failure the result is nil and the message carries the
// error; Execute itself never panics and never returns an error to the
// caller, mirroring the run-it-and-report contract of the pipeline.
func (s *Store) Execute(ctx context.Context, query string) (*Result, string) {
	return s.ExecuteWith(ctx, query, ExecuteOptions{})
}

// ExecuteWith is Execute with explicit options.
func (s *Store) ExecuteWith(ctx context.Context, query string, opts ExecuteOptions) (result *Result, message string) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			message = fmt.Sprintf("Query failed: %v", r)
		}
	}()

	preview := opts.PreviewRows
	if preview <= 0 {
		preview = 5
	}

	query = RewriteDialect(query)

	rows, err := s.reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Sprintf("Query failed: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Sprintf("Query failed: %v", err)
	}

	res := &Result{Columns: cols}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Sprintf("Query failed: %v", err)
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			rec[i] = stringifyValue(v)
		}
		res.Rows = append(res.Rows, rec)
		if opts.MaxRows > 0 && len(res.Rows) >= opts.MaxRows {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Sprintf("Query failed: %v", err)
	}

	if res.Empty() {
		return res, "Query executed successfully, no rows returned."
	}
	return res, renderHead(res, preview)
}

// renderHead produces an aligned text table of the first n rows, the
// synopsis stored on completed records.
func renderHead(res *Result, n int) string {
	rows := res.Rows
	if len(rows) > n {
		rows = rows[:n]
	}

	widths := make([]int, len(res.Columns))
	for i, c := range res.Columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, c := range res.Columns {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad(&b, c, widths[i])
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			pad(&b, cell, widths[i])
		}
	}
	return b.String()
}

func pad(b *strings.Builder, s string, width int) {
	for i := len(s); i < width; i++ {
		b.WriteByte(' ')
	}
	b.WriteString(s)
}
