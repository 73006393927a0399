package metrics

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestNewCollector_Defaults(t *testing.T) {
	c := NewCollector()

	stats := c.Stats()
	if stats.TotalRuns != 0 {
		t.Errorf("TotalRuns: got %d, want 0", stats.TotalRuns)
	}
	if stats.CostUSD != 0 {
		t.Errorf("CostUSD: got %f, want 0", stats.CostUSD)
	}
	if stats.SuccessPercent != 0 {
		t.Errorf("SuccessPercent: got %f, want 0", stats.SuccessPercent)
	}
}

func TestCollector_RecordRun(t *testing.T) {
	c := NewCollector()

	c.RecordRun("completed", 0.01)
	c.RecordRun("completed", 0.02)
	c.RecordRun("query_failed", 0.005)
	c.RecordRun("compliance_failed", 0.004)
	c.RecordRun("error", 0)

	stats := c.Stats()
	if stats.TotalRuns != 5 {
		t.Errorf("TotalRuns: got %d, want 5", stats.TotalRuns)
	}
	if stats.Completed != 2 {
		t.Errorf("Completed: got %d, want 2", stats.Completed)
	}
	if stats.QueryFailed != 1 {
		t.Errorf("QueryFailed: got %d, want 1", stats.QueryFailed)
	}
	if stats.ComplianceFailed != 1 {
		t.Errorf("ComplianceFailed: got %d, want 1", stats.ComplianceFailed)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors: got %d, want 1", stats.Errors)
	}
	if want := 0.039; math.Abs(stats.CostUSD-want) > 1e-9 {
		t.Errorf("CostUSD: got %f, want %f", stats.CostUSD, want)
	}
	if stats.SuccessPercent != 40 {
		t.Errorf("SuccessPercent: got %f, want 40", stats.SuccessPercent)
	}
}

func TestCollector_UnknownStatusCountsAsError(t *testing.T) {
	c := NewCollector()

	c.RecordRun("something_else", 0)

	stats := c.Stats()
	if stats.Errors != 1 {
		t.Errorf("Errors: got %d, want 1", stats.Errors)
	}
}

func TestCollector_Uptime(t *testing.T) {
	c := NewCollector()
	// Just check the uptime is a non-empty string.
	stats := c.Stats()
	if stats.Uptime == "" {
		t.Error("Uptime is empty")
	}
}

func TestCollector_ConcurrentRecords(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordRun("completed", 0.001)
		}()
	}
	wg.Wait()

	stats := c.Stats()
	if stats.TotalRuns != 100 {
		t.Errorf("TotalRuns after 100 concurrent: got %d, want 100", stats.TotalRuns)
	}
	if want := 0.1; math.Abs(stats.CostUSD-want) > 1e-9 {
		t.Errorf("CostUSD: got %f, want %f", stats.CostUSD, want)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{2*time.Hour + 30*time.Minute, "2h 30m"},
		{25*time.Hour + 15*time.Minute, "1d 1h 15m"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v): got %q, want %q", tt.d, got, tt.want)
		}
	}
}
