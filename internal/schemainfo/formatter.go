// Package schemainfo renders database metadata as prompt-ready text.
// The output is consumed by LLM collaborators, so wording and layout are
// part of the generation contract: dialect note first, then per-table
// columns with key flags, row counts, sample values for the central
// tables, and join paths when more than one table is in scope.
package schemainfo

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/sqlcrew/internal/store"
)

// Introspector is the metadata surface the formatter needs. *store.Store
// satisfies it.
type Introspector interface {
	Tables() ([]string, error)
	TableColumns(table string) ([]store.Column, error)
	RowCount(table string) (int64, error)
	SampleRow(table string) (cols []string, values []string, ok bool, err error)
}

// sampledTables are the tables important enough to include a sample row.
var sampledTables = map[string]bool{
	"orders":    true,
	"products":  true,
	"customers": true,
}

// relationship describes a join path between two tables.
type relationship struct {
	a, b string
	text string
}

// knownRelationships lists the static join paths of the business schema.
// A line is emitted only when both endpoints are in the requested scope.
var knownRelationships = []relationship{
	{"orders", "customers", "orders.customer_id -> customers.customer_id"},
	{"orders", "order_items", "orders.order_id -> order_items.order_id"},
	{"order_items", "products", "order_items.product_id -> products.product_id"},
	{"products", "product_categories", "products.category_id -> product_categories.category_id"},
	{"products", "suppliers", "products.supplier_id -> suppliers.supplier_id"},
	{"product_reviews", "products", "product_reviews.product_id -> products.product_id"},
	{"product_reviews", "customers", "product_reviews.customer_id -> customers.customer_id"},
	{"customer_support_tickets", "customers", "customer_support_tickets.customer_id -> customers.customer_id"},
	{"website_sessions", "customers", "website_sessions.customer_id -> customers.customer_id"},
	{"employees", "departments", "employees.department_id -> departments.department_id"},
}

// Formatter builds scoped metadata text from an Introspector.
type Formatter struct {
	db Introspector
}

// NewFormatter creates a Formatter over the given metadata source.
func NewFormatter(db Introspector) *Formatter {
	return &Formatter{db: db}
}

// Format renders focused metadata for the given tables. Tables whose
// metadata cannot be read are skipped; a best-effort description is
// always returned.
func (f *Formatter) Format(tables []string) string {
	var b strings.Builder
	b.WriteString("Database type: SQLite\n")
	b.WriteString("Use SQLite syntax. For relative dates use date('now', '-N days').\n")

	described := make(map[string]bool)
	for _, table := range tables {
		cols, err := f.db.TableColumns(table)
		if err != nil || len(cols) == 0 {
			if err != nil {
				log.Debug().Err(err).Str("table", table).Msg("schemainfo: skipping table")
			}
			continue
		}
		described[table] = true

		b.WriteString("\nTable ")
		b.WriteString(table)
		b.WriteString(":\n")
		for _, c := range cols {
			b.WriteString("  - ")
			b.WriteString(c.Name)
			b.WriteString(" (")
			b.WriteString(c.Type)
			b.WriteString(")")
			if c.PrimaryKey {
				b.WriteString(" [primary key]")
			}
			if c.NotNull {
				b.WriteString(" [not null]")
			}
			b.WriteByte('\n')
		}

		if n, err := f.db.RowCount(table); err == nil {
			fmt.Fprintf(&b, "  rows: %d\n", n)
		}

		if sampledTables[table] {
			f.writeSample(&b, table)
		}
	}

	f.writeRelationships(&b, described)
	return b.String()
}

// writeSample appends one sample row, first three columns as name=value.
func (f *Formatter) writeSample(b *strings.Builder, table string) {
	cols, values, ok, err := f.db.SampleRow(table)
	if err != nil || !ok {
		return
	}
	n := len(cols)
	if n > 3 {
		n = 3
	}
	pairs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, cols[i]+"="+values[i])
	}
	b.WriteString("  sample: ")
	b.WriteString(strings.Join(pairs, ", "))
	b.WriteString(" ...\n")
}

// writeRelationships appends join paths for the described tables. A path
// needs both endpoints present and at least two tables in scope.
func (f *Formatter) writeRelationships(b *strings.Builder, described map[string]bool) {
	if len(described) < 2 {
		return
	}
	var lines []string
	for _, rel := range knownRelationships {
		if described[rel.a] && described[rel.b] {
			lines = append(lines, "  "+rel.text)
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("\nRelationships:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteByte('\n')
}

// FullSummary renders a compact listing of every table with its columns
// and row count.
func (f *Formatter) FullSummary() (string, error) {
	tables, err := f.db.Tables()
	if err != nil {
		return "", fmt.Errorf("schemainfo: full summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("Database type: SQLite\n")
	for _, table := range tables {
		cols, err := f.db.TableColumns(table)
		if err != nil {
			log.Debug().Err(err).Str("table", table).Msg("schemainfo: skipping table")
			continue
		}
		names := make([]string, 0, len(cols))
		for _, c := range cols {
			names = append(names, c.Name)
		}

		b.WriteString("\n")
		b.WriteString(table)
		if n, err := f.db.RowCount(table); err == nil {
			fmt.Fprintf(&b, " (%d rows)", n)
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
