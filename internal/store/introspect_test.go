package store

import "testing"

func TestTableColumns(t *testing.T) {
	s := openTestStore(t)

	cols, err := s.TableColumns("orders")
	if err != nil {
		t.Fatalf("TableColumns: %v", err)
	}
	if len(cols) != 14 {
		t.Fatalf("orders column count: got %d, want 14", len(cols))
	}

	first := cols[0]
	if first.Name != "order_id" {
		t.Errorf("first column: got %q, want %q", first.Name, "order_id")
	}
	if !first.PrimaryKey {
		t.Error("order_id not flagged as primary key")
	}

	var foundName bool
	for _, c := range cols {
		if c.Name == "order_status" {
			foundName = true
			if c.Type != "TEXT" {
				t.Errorf("order_status type: got %q, want TEXT", c.Type)
			}
		}
	}
	if !foundName {
		t.Error("order_status column missing")
	}
}

func TestTableColumns_NotNullFlag(t *testing.T) {
	s := openTestStore(t)

	cols, err := s.TableColumns("customers")
	if err != nil {
		t.Fatalf("TableColumns: %v", err)
	}
	for _, c := range cols {
		if c.Name == "name" && !c.NotNull {
			t.Error("customers.name not flagged NOT NULL")
		}
	}
}

func TestTableColumns_UnknownTable(t *testing.T) {
	s := openTestStore(t)

	cols, err := s.TableColumns("nonexistent")
	if err != nil {
		t.Fatalf("TableColumns on unknown table: %v", err)
	}
	if len(cols) != 0 {
		t.Errorf("unknown table columns: got %d, want 0", len(cols))
	}
}

func TestTableColumns_InvalidIdentifier(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.TableColumns("orders; DROP TABLE orders"); err == nil {
		t.Fatal("expected error for invalid identifier")
	}
	if _, err := s.RowCount("x' OR '1'='1"); err == nil {
		t.Fatal("expected error for invalid identifier")
	}
}

func TestSampleRow(t *testing.T) {
	s := openTestStore(t)
	insertFixtureRows(t, s)

	cols, values, ok, err := s.SampleRow("customers")
	if err != nil {
		t.Fatalf("SampleRow: %v", err)
	}
	if !ok {
		t.Fatal("expected a sample row")
	}
	if len(cols) != len(values) {
		t.Fatalf("column/value mismatch: %d vs %d", len(cols), len(values))
	}
	if cols[0] != "customer_id" || values[0] != "1" {
		t.Errorf("first cell: got %s=%s, want customer_id=1", cols[0], values[0])
	}
	if cols[1] != "name" || values[1] != "Ada Lovelace" {
		t.Errorf("second cell: got %s=%s, want name=Ada Lovelace", cols[1], values[1])
	}
}

func TestSampleRow_EmptyTable(t *testing.T) {
	s := openTestStore(t)

	cols, values, ok, err := s.SampleRow("orders")
	if err != nil {
		t.Fatalf("SampleRow: %v", err)
	}
	if ok {
		t.Error("expected no sample row for empty table")
	}
	if len(cols) == 0 {
		t.Error("expected column names even for empty table")
	}
	if values != nil {
		t.Errorf("values: got %v, want nil", values)
	}
}
