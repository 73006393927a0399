package llm

import (
	"strings"
	"testing"

	"github.com/allaspectsdev/sqlcrew/internal/store"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["哪个产品卖得最好?", "销售趋势如何?", "谁是最大客户?"]`,
			want: []string{"哪个产品卖得最好?", "销售趋势如何?", "谁是最大客户?"},
		},
		{
			name: "numbered list",
			raw:  "1. First question\n2. Second question\n3) Third question",
			want: []string{"First question", "Second question", "Third question"},
		},
		{
			name: "plain lines",
			raw:  "one\n\ntwo\n",
			want: []string{"one", "two"},
		},
		{
			name: "empty",
			raw:  "   ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSuggestions(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d suggestions %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("suggestion %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSuggestions_CapsAtFive(t *testing.T) {
	raw := "a\nb\nc\nd\ne\nf\ng"
	if got := parseSuggestions(raw); len(got) != 5 {
		t.Errorf("got %d suggestions, want 5", len(got))
	}
}

func TestBasicAnalysis(t *testing.T) {
	table := &store.Result{
		Columns: []string{"product_name", "revenue"},
		Rows: [][]string{
			{"Widget", "100.5"},
			{"Gadget", "200.5"},
			{"Widget", "50"},
		},
	}

	got := BasicAnalysis(table)

	if !strings.Contains(got, "Rows: 3") {
		t.Errorf("missing row count in %q", got)
	}
	if !strings.Contains(got, "revenue: min 50.00, mean 117.00, max 200.50") {
		t.Errorf("missing numeric stats in %q", got)
	}
	if !strings.Contains(got, "product_name: 2 distinct values") {
		t.Errorf("missing distinct count in %q", got)
	}
}

func TestBasicAnalysis_EmptyTable(t *testing.T) {
	if got := BasicAnalysis(nil); got != "No data to analyze." {
		t.Errorf("nil table: got %q", got)
	}
	empty := &store.Result{Columns: []string{"a"}}
	if got := BasicAnalysis(empty); !strings.Contains(got, "Rows: 0") {
		t.Errorf("empty table: got %q", got)
	}
}

func TestBasicAnalysis_NullsSkipped(t *testing.T) {
	table := &store.Result{
		Columns: []string{"amount"},
		Rows:    [][]string{{"NULL"}, {"10"}, {"20"}},
	}
	got := BasicAnalysis(table)
	if !strings.Contains(got, "amount: min 10.00, mean 15.00, max 20.00") {
		t.Errorf("NULLs must not break numeric detection, got %q", got)
	}
}

func TestTableText(t *testing.T) {
	table := &store.Result{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "x"}, {"2", "y"}, {"3", "z"}},
	}
	got := tableText(table, 2)
	if !strings.HasPrefix(got, "a, b\n1, x\n2, y") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "1 more rows") {
		t.Errorf("truncation note missing in %q", got)
	}
	if got := tableText(nil, 5); got != "(no data)" {
		t.Errorf("nil table: got %q", got)
	}
}

func TestFallbackSuggestions(t *testing.T) {
	tests := []struct {
		prompt string
		expect string
	}{
		{"列出销售额最高的产品", "销售"},
		{"show me revenue by month", "销售"},
		{"top products by rating", "产品"},
		{"哪些客户最近没下单", "客户"},
		{"anything else entirely", "趋势"},
	}
	for _, tt := range tests {
		got := FallbackSuggestions(tt.prompt)
		if len(got) != 5 {
			t.Fatalf("FallbackSuggestions(%q): got %d items, want 5", tt.prompt, len(got))
		}
		joined := strings.Join(got, " ")
		if !strings.Contains(joined, tt.expect) {
			t.Errorf("FallbackSuggestions(%q) = %v, want topic %q", tt.prompt, got, tt.expect)
		}
	}
}

func TestImagePayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"data uri", "data:image/png;base64,iVBORw0KGgo=", "iVBORw0KGgo=", true},
		{"data uri with whitespace", "  data:image/jpeg;base64,/9j/4AAQ \n", "/9j/4AAQ", true},
		{"json image field", `{"image": "iVBORw0KGgo="}`, "iVBORw0KGgo=", true},
		{"json image_base64 field", `{"image_base64": "/9j/4AAQ"}`, "/9j/4AAQ", true},
		{"empty data uri payload", "data:image/png;base64,", "", false},
		{"plain description", "A bar chart of revenue by month.", "", false},
		{"json without image", `{"report": "nothing to draw"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := imagePayload(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("payload: got %q, want %q", got, tt.want)
			}
		})
	}
}
