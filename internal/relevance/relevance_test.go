package relevance

import (
	"reflect"
	"testing"
)

var allBusinessTables = []string{
	"campaign_interactions", "customer_segments", "customer_support_tickets",
	"customers", "departments", "employee_performance", "employees",
	"inventory_logs", "marketing_campaigns", "order_items", "orders",
	"product_categories", "product_reviews", "products",
	"regional_performance", "sales_targets", "suppliers", "website_sessions",
}

func TestSelectTables_ChineseSalesRequest(t *testing.T) {
	got := SelectTables("列出销售额最高的前10个产品", allBusinessTables)

	if len(got) == 0 || len(got) > MaxTables {
		t.Fatalf("selection size: got %d, want 1..%d", len(got), MaxTables)
	}

	want := map[string]bool{"order_items": false, "products": false}
	for _, tbl := range got {
		if _, ok := want[tbl]; ok {
			want[tbl] = true
		}
	}
	for tbl, seen := range want {
		if !seen {
			t.Errorf("selection %v missing %q", got, tbl)
		}
	}
}

func TestSelectTables_NeverExceedsCap(t *testing.T) {
	// Hits many keyword groups at once.
	got := SelectTables(
		"show sales revenue per product per customer per employee with reviews and support tickets",
		allBusinessTables)
	if len(got) > MaxTables {
		t.Errorf("selection size: got %d, want <= %d", len(got), MaxTables)
	}
}

func TestSelectTables_FallbackToCore(t *testing.T) {
	got := SelectTables("什么情况", allBusinessTables)

	want := []string{"orders", "order_items", "products", "customers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback: got %v, want %v", got, want)
	}
}

func TestSelectTables_FallbackIntersectsAvailable(t *testing.T) {
	got := SelectTables("hello", []string{"orders", "products", "departments"})

	want := []string{"orders", "products"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback intersection: got %v, want %v", got, want)
	}
}

func TestSelectTables_DirectTableNameMention(t *testing.T) {
	got := SelectTables("describe regional_performance for me", allBusinessTables)

	found := false
	for _, tbl := range got {
		if tbl == "regional_performance" {
			found = true
		}
	}
	if !found {
		t.Errorf("selection %v missing direct mention regional_performance", got)
	}
}

func TestSelectTables_Deterministic(t *testing.T) {
	const request = "customer order trends and product reviews"
	first := SelectTables(request, allBusinessTables)
	for i := 0; i < 10; i++ {
		if got := SelectTables(request, allBusinessTables); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestSelectTables_NoDuplicates(t *testing.T) {
	got := SelectTables("sales orders revenue total", allBusinessTables)
	seen := map[string]bool{}
	for _, tbl := range got {
		if seen[tbl] {
			t.Errorf("duplicate table %q in %v", tbl, got)
		}
		seen[tbl] = true
	}
}

func TestSelectTables_CaseInsensitive(t *testing.T) {
	upper := SelectTables("TOP PRODUCTS BY SALES", allBusinessTables)
	lower := SelectTables("top products by sales", allBusinessTables)
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("case sensitivity: %v vs %v", upper, lower)
	}
}

func TestSelectTables_UnavailableTablesSkipped(t *testing.T) {
	got := SelectTables("customer orders", []string{"customers"})
	want := []string{"customers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
