package schemainfo

import (
	"errors"
	"strings"
	"testing"

	"github.com/allaspectsdev/sqlcrew/internal/store"
)

// fakeDB is a canned Introspector for formatter tests.
type fakeDB struct {
	tables     []string
	columns    map[string][]store.Column
	counts     map[string]int64
	samples    map[string][2][]string
	failTables map[string]bool
}

func (f *fakeDB) Tables() ([]string, error) {
	return f.tables, nil
}

func (f *fakeDB) TableColumns(table string) ([]store.Column, error) {
	if f.failTables[table] {
		return nil, errors.New("table_info failed")
	}
	return f.columns[table], nil
}

func (f *fakeDB) RowCount(table string) (int64, error) {
	return f.counts[table], nil
}

func (f *fakeDB) SampleRow(table string) ([]string, []string, bool, error) {
	s, ok := f.samples[table]
	if !ok {
		return nil, nil, false, nil
	}
	return s[0], s[1], true, nil
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tables: []string{"customers", "orders", "products"},
		columns: map[string][]store.Column{
			"orders": {
				{Name: "order_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "customer_id", Type: "INTEGER"},
				{Name: "total_amount", Type: "REAL"},
			},
			"customers": {
				{Name: "customer_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "name", Type: "TEXT", NotNull: true},
			},
			"products": {
				{Name: "product_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "product_name", Type: "TEXT", NotNull: true},
				{Name: "price", Type: "REAL"},
			},
		},
		counts: map[string]int64{"orders": 5000, "customers": 1000, "products": 200},
		samples: map[string][2][]string{
			"orders": {
				{"order_id", "customer_id", "total_amount", "region"},
				{"1", "42", "129.99", "North"},
			},
		},
		failTables: map[string]bool{},
	}
}

func TestFormat_ColumnsAndFlags(t *testing.T) {
	f := NewFormatter(newFakeDB())

	out := f.Format([]string{"orders", "customers"})

	if !strings.Contains(out, "Database type: SQLite") {
		t.Error("missing dialect header")
	}
	if !strings.Contains(out, "date('now', '-N days')") {
		t.Error("missing relative-date hint")
	}
	if !strings.Contains(out, "order_id (INTEGER) [primary key]") {
		t.Errorf("missing primary key flag:\n%s", out)
	}
	if !strings.Contains(out, "name (TEXT) [not null]") {
		t.Errorf("missing not null flag:\n%s", out)
	}
	if !strings.Contains(out, "rows: 5000") {
		t.Errorf("missing row count:\n%s", out)
	}
}

func TestFormat_SampleOnlyForImportantTables(t *testing.T) {
	db := newFakeDB()
	db.samples["customers"] = [2][]string{
		{"customer_id", "name"},
		{"1", "Ada"},
	}
	f := NewFormatter(db)

	out := f.Format([]string{"orders", "customers"})
	if !strings.Contains(out, "sample: order_id=1, customer_id=42, total_amount=129.99 ...") {
		t.Errorf("orders sample missing or wrong:\n%s", out)
	}

	// Sample rows cut off after three columns.
	if strings.Contains(out, "region") {
		t.Errorf("sample leaked a fourth column:\n%s", out)
	}
}

func TestFormat_RelationshipsRequireBothEndpoints(t *testing.T) {
	f := NewFormatter(newFakeDB())

	both := f.Format([]string{"orders", "customers"})
	if !strings.Contains(both, "orders.customer_id -> customers.customer_id") {
		t.Errorf("missing relationship line:\n%s", both)
	}

	single := f.Format([]string{"orders"})
	if strings.Contains(single, "Relationships") {
		t.Errorf("relationship section with one table:\n%s", single)
	}

	// products has no direct path to customers in the static table.
	noPath := f.Format([]string{"products", "customers"})
	if strings.Contains(noPath, "->") {
		t.Errorf("unexpected relationship line:\n%s", noPath)
	}
}

func TestFormat_SkipsFailingTable(t *testing.T) {
	db := newFakeDB()
	db.failTables["orders"] = true
	f := NewFormatter(db)

	out := f.Format([]string{"orders", "customers"})
	if strings.Contains(out, "Table orders") {
		t.Errorf("failed table not skipped:\n%s", out)
	}
	if !strings.Contains(out, "Table customers") {
		t.Errorf("healthy table missing:\n%s", out)
	}
}

func TestFormat_UnknownTableSkipped(t *testing.T) {
	f := NewFormatter(newFakeDB())

	out := f.Format([]string{"orders", "invoices"})
	if strings.Contains(out, "invoices") {
		t.Errorf("unknown table appeared:\n%s", out)
	}
}

func TestFullSummary(t *testing.T) {
	f := NewFormatter(newFakeDB())

	out, err := f.FullSummary()
	if err != nil {
		t.Fatalf("FullSummary: %v", err)
	}
	for _, want := range []string{
		"customers (1000 rows): customer_id, name",
		"orders (5000 rows): order_id, customer_id, total_amount",
		"products (200 rows): product_id, product_name, price",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormat_AgainstRealStore(t *testing.T) {
	path := t.TempDir() + "/business.db"
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	f := NewFormatter(s)
	out := f.Format([]string{"orders", "order_items", "products"})

	for _, want := range []string{
		"Table orders:",
		"Table order_items:",
		"Table products:",
		"orders.order_id -> order_items.order_id",
		"order_items.product_id -> products.product_id",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}
