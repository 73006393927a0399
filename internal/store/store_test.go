package store

import (
	"path/filepath"
	"testing"
)

// openTestStore creates a Store backed by a temp-dir SQLite file with the
// full business schema and no data.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "business.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertFixtureRows loads a small deterministic slice of the business
// domain: two customers, two products, two orders with line items.
func insertFixtureRows(t *testing.T, s *Store) {
	t.Helper()
	stmts := []string{
		`INSERT INTO customer_segments VALUES (1, 'Regular', 'Regular customers', 100.0, 2, '2020-01-01')`,
		`INSERT INTO customers (customer_id, name, email, segment_id) VALUES
			(1, 'Ada Lovelace', 'ada@email.com', 1),
			(2, 'Alan Turing', 'alan@email.com', 1)`,
		`INSERT INTO product_categories VALUES (1, 'Electronics', NULL, 'Devices', '2020-01-01')`,
		`INSERT INTO products (product_id, product_name, sku, category_id, price, cost) VALUES
			(1, 'Widget', 'SKU0001', 1, 19.99, 8.0),
			(2, 'Gadget', 'SKU0002', 1, 49.99, 20.0)`,
		`INSERT INTO orders (order_id, customer_id, order_date, order_status, total_amount) VALUES
			(1, 1, '2024-01-15', 'delivered', 89.97),
			(2, 2, '2024-02-20', 'delivered', 19.99)`,
		`INSERT INTO order_items VALUES
			(1, 1, 1, 2, 19.99, 0, 39.98),
			(2, 1, 2, 1, 49.99, 0, 49.99),
			(3, 2, 1, 1, 19.99, 0, 19.99)`,
	}
	for _, q := range stmts {
		if _, err := s.Writer().Exec(q); err != nil {
			t.Fatalf("fixture insert: %v", err)
		}
	}
}

func TestOpen_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "business.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if s.Path() != path {
		t.Errorf("Path: got %q, want %q", s.Path(), path)
	}
	if s.Writer() == nil {
		t.Error("Writer is nil")
	}
	if s.Reader() == nil {
		t.Error("Reader is nil")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close again must be a no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "business.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open with nested dir: %v", err)
	}
	s.Close()
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	tables, err := s.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 18 {
		t.Errorf("table count: got %d, want 18", len(tables))
	}

	want := map[string]bool{
		"departments": false, "employees": false, "product_categories": false,
		"suppliers": false, "products": false, "inventory_logs": false,
		"customer_segments": false, "customers": false, "website_sessions": false,
		"orders": false, "order_items": false, "product_reviews": false,
		"customer_support_tickets": false, "marketing_campaigns": false,
		"campaign_interactions": false, "sales_targets": false,
		"employee_performance": false, "regional_performance": false,
	}
	for _, tbl := range tables {
		if _, ok := want[tbl]; !ok {
			t.Errorf("unexpected table %q", tbl)
		}
		want[tbl] = true
	}
	for tbl, seen := range want {
		if !seen {
			t.Errorf("missing table %q", tbl)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "business.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	insertFixtureRows(t, s1)
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	n, err := s2.RowCount("orders")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 2 {
		t.Errorf("orders after reopen: got %d, want 2", n)
	}
}

func TestReader_RejectsWrites(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Reader().Exec("INSERT INTO departments VALUES (1, 'Sales', NULL, 0, 'NY', '2020-01-01')")
	if err == nil {
		t.Fatal("expected write on reader connection to fail")
	}
}

func TestSeeded_EmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	seeded, err := s.Seeded()
	if err != nil {
		t.Fatalf("Seeded: %v", err)
	}
	if seeded {
		t.Error("empty database reported as seeded")
	}
}

func TestSeed_PopulatesTables(t *testing.T) {
	if testing.Short() {
		t.Skip("seeding the full dataset is slow")
	}
	s := openTestStore(t)

	if err := s.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	seeded, err := s.Seeded()
	if err != nil {
		t.Fatalf("Seeded: %v", err)
	}
	if !seeded {
		t.Error("database not reported as seeded after Seed")
	}

	counts := map[string]int64{
		"departments":        8,
		"employees":          50,
		"product_categories": 12,
		"suppliers":          6,
		"products":           200,
		"customer_segments":  4,
		"customers":          1000,
		"orders":             5000,
	}
	for table, want := range counts {
		got, err := s.RowCount(table)
		if err != nil {
			t.Fatalf("RowCount(%s): %v", table, err)
		}
		if got != want {
			t.Errorf("RowCount(%s): got %d, want %d", table, got, want)
		}
	}

	// Variable-size tables only need to be non-empty.
	for _, table := range []string{"order_items", "product_reviews", "website_sessions", "customer_support_tickets"} {
		got, err := s.RowCount(table)
		if err != nil {
			t.Fatalf("RowCount(%s): %v", table, err)
		}
		if got == 0 {
			t.Errorf("RowCount(%s): got 0, want > 0", table)
		}
	}
}
