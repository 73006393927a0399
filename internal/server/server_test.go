package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/allaspectsdev/sqlcrew/internal/metrics"
	"github.com/allaspectsdev/sqlcrew/internal/pipeline"
	"github.com/allaspectsdev/sqlcrew/internal/schemainfo"
	"github.com/allaspectsdev/sqlcrew/internal/store"
)

type fakeDB struct{}

func (fakeDB) Tables() ([]string, error) {
	return []string{"customers", "order_items", "orders", "products"}, nil
}

func (fakeDB) TableColumns(table string) ([]store.Column, error) {
	return []store.Column{
		{Name: table + "_id", Type: "INTEGER", PrimaryKey: true},
		{Name: "name", Type: "TEXT", NotNull: true},
	}, nil
}

func (fakeDB) RowCount(table string) (int64, error) { return 3, nil }

func (fakeDB) SampleRow(table string) ([]string, []string, bool, error) {
	return []string{table + "_id", "name"}, []string{"1", "Ada"}, true, nil
}

type fakeStage struct{ text string }

func (f fakeStage) GenerateSQL(ctx context.Context, prompt, schema string) (pipeline.StageResult, error) {
	return pipeline.StageResult{Text: f.text, Cost: 0.01}, nil
}

func (f fakeStage) ReviewSQL(ctx context.Context, sqlText, schema string) (pipeline.StageResult, error) {
	return pipeline.StageResult{Text: f.text, Cost: 0.01}, nil
}

type fakeCompliance struct{ report string }

func (f fakeCompliance) CheckCompliance(ctx context.Context, sqlText string) (pipeline.StageResult, error) {
	return pipeline.StageResult{Text: f.report, Cost: 0.001}, nil
}

type fakeExec struct{}

func (fakeExec) Execute(ctx context.Context, query string) (*store.Result, string) {
	return &store.Result{Columns: []string{"n"}, Rows: [][]string{{"42"}}}, "n\n42"
}

func newTestServer(t *testing.T) (*Server, *schemainfo.Cache) {
	t.Helper()

	cache, err := schemainfo.NewCache(fakeDB{}, 8)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	collector := metrics.NewCollector()
	orch, err := pipeline.New(pipeline.Config{
		Schema:     cache,
		Generator:  fakeStage{text: `{"sqlquery": "SELECT COUNT(*) AS n FROM orders"}`},
		Reviewer:   fakeStage{text: `{"reviewed_sqlquery": "SELECT COUNT(*) AS n FROM orders"}`},
		Compliance: fakeCompliance{report: "合规通过"},
		Executor:   fakeExec{},
		History:    pipeline.NewHistory(),
		Metrics:    collector,
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	return New(orch, cache, collector, Options{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  5 * time.Second,
	}), cache
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleAsk(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/ask", `{"prompt": "how many orders"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var rec pipeline.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	if rec.Status != pipeline.StatusCompleted {
		t.Errorf("status: got %q, want %q (error: %s)", rec.Status, pipeline.StatusCompleted, rec.ErrorMessage)
	}
	if rec.QueryTable == nil || rec.QueryTable.Rows[0][0] != "42" {
		t.Errorf("query table: got %+v", rec.QueryTable)
	}
}

func TestHandleAsk_BadRequest(t *testing.T) {
	s, _ := newTestServer(t)

	if w := doRequest(t, s, http.MethodPost, "/api/ask", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty prompt: got %d, want 400", w.Code)
	}
	if w := doRequest(t, s, http.MethodPost, "/api/ask", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad json: got %d, want 400", w.Code)
	}
}

func TestHandleManual(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/manual", `{"sql": "SELECT COUNT(*) AS n FROM orders"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var rec pipeline.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	if !rec.ManualIntervention {
		t.Error("manual run must be flagged")
	}
	if rec.Status != pipeline.StatusCompleted {
		t.Errorf("status: got %q (error: %s)", rec.Status, rec.ErrorMessage)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/ask", `{"prompt": "how many orders"}`)
	var rec pipeline.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record: %v", err)
	}

	w = doRequest(t, s, http.MethodGet, "/api/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: got %d", w.Code)
	}
	var listing struct {
		Records   []pipeline.Record `json:"records"`
		TotalCost float64           `json:"total_cost"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decoding listing: %v", err)
	}
	if len(listing.Records) != 1 {
		t.Errorf("records: got %d, want 1", len(listing.Records))
	}
	if listing.TotalCost <= 0 {
		t.Errorf("total cost: got %v, want > 0", listing.TotalCost)
	}

	if w := doRequest(t, s, http.MethodGet, "/api/history/"+rec.ID, ""); w.Code != http.StatusOK {
		t.Errorf("get: got %d", w.Code)
	}
	if w := doRequest(t, s, http.MethodGet, "/api/history/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("get missing: got %d, want 404", w.Code)
	}
	if w := doRequest(t, s, http.MethodDelete, "/api/history/"+rec.ID, ""); w.Code != http.StatusOK {
		t.Errorf("delete: got %d", w.Code)
	}
	if w := doRequest(t, s, http.MethodDelete, "/api/history/"+rec.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", w.Code)
	}
}

func TestSchemaEndpoints(t *testing.T) {
	s, cache := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/schema", "")
	if w.Code != http.StatusOK {
		t.Fatalf("schema: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Database type: SQLite") {
		t.Errorf("schema body missing header: %s", w.Body.String())
	}
	if cache.Len() == 0 {
		t.Error("schema request should populate the cache")
	}

	if w := doRequest(t, s, http.MethodPost, "/api/schema/refresh", ""); w.Code != http.StatusOK {
		t.Errorf("refresh: got %d", w.Code)
	}
	if cache.Len() != 0 {
		t.Errorf("cache after refresh: got %d entries, want 0", cache.Len())
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/ask", `{"prompt": "how many orders"}`)

	w := doRequest(t, s, http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats: got %d", w.Code)
	}
	var stats metrics.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.TotalRuns != 1 || stats.Completed != 1 {
		t.Errorf("stats: got %+v, want one completed run", stats)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	if w := doRequest(t, s, http.MethodGet, "/api/health", ""); w.Code != http.StatusOK {
		t.Errorf("health: got %d", w.Code)
	}
}

func TestVisualize_NoInsightCollaborator(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/ask", `{"prompt": "how many orders"}`)
	var rec pipeline.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record: %v", err)
	}

	w = doRequest(t, s, http.MethodPost, "/api/history/"+rec.ID+"/visualize", `{"request": "bar chart"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("visualize without collaborator: got %d, want 404", w.Code)
	}
}
