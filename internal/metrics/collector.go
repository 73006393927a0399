// Package metrics keeps live session counters for the assistant: how
// many pipeline runs finished in each terminal state and what they cost.
package metrics

import (
	"math"
	"sync/atomic"
	"time"
)

// Collector tracks live metrics using atomic counters for lock-free,
// concurrent-safe updates.
type Collector struct {
	totalRuns        int64
	completed        int64
	queryFailed      int64
	complianceFailed int64
	errored          int64

	// Float64 counter stored as uint64 via math.Float64bits/Float64frombits.
	totalCostUSD uint64

	startTime time.Time
}

// Stats is a point-in-time snapshot of the collector's counters,
// suitable for JSON serialisation.
type Stats struct {
	Uptime           string  `json:"uptime"`
	TotalRuns        int64   `json:"total_runs"`
	Completed        int64   `json:"completed"`
	QueryFailed      int64   `json:"query_failed"`
	ComplianceFailed int64   `json:"compliance_failed"`
	Errors           int64   `json:"errors"`
	CostUSD          float64 `json:"cost_usd"`
	SuccessPercent   float64 `json:"success_percent"`
}

// NewCollector creates a new Collector with all counters initialised to
// zero and the start time set to now.
func NewCollector() *Collector {
	return &Collector{
		startTime:    time.Now(),
		totalCostUSD: math.Float64bits(0),
	}
}

// RecordRun atomically updates the counters from a finished pipeline
// run. Status strings are the pipeline's terminal states; anything
// unrecognized counts as an error.
func (c *Collector) RecordRun(status string, cost float64) {
	atomic.AddInt64(&c.totalRuns, 1)
	switch status {
	case "completed":
		atomic.AddInt64(&c.completed, 1)
	case "query_failed":
		atomic.AddInt64(&c.queryFailed, 1)
	case "compliance_failed":
		atomic.AddInt64(&c.complianceFailed, 1)
	default:
		atomic.AddInt64(&c.errored, 1)
	}
	addFloat64(&c.totalCostUSD, cost)
}

// Stats returns a point-in-time snapshot of all metrics.
func (c *Collector) Stats() *Stats {
	total := atomic.LoadInt64(&c.totalRuns)
	completed := atomic.LoadInt64(&c.completed)

	var successPercent float64
	if total > 0 {
		successPercent = float64(completed) / float64(total) * 100
	}

	return &Stats{
		Uptime:           formatDuration(time.Since(c.startTime)),
		TotalRuns:        total,
		Completed:        completed,
		QueryFailed:      atomic.LoadInt64(&c.queryFailed),
		ComplianceFailed: atomic.LoadInt64(&c.complianceFailed),
		Errors:           atomic.LoadInt64(&c.errored),
		CostUSD:          loadFloat64(&c.totalCostUSD),
		SuccessPercent:   successPercent,
	}
}

// addFloat64 atomically adds delta to the float64 stored in addr using a CAS loop.
func addFloat64(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		newVal := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(addr, old, math.Float64bits(newVal)) {
			return
		}
	}
}

// loadFloat64 atomically loads a float64 stored in addr.
func loadFloat64(addr *uint64) float64 {
	return math.Float64frombits(atomic.LoadUint64(addr))
}

// formatDuration produces a human-readable duration string like "2d 5h 32m".
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return formatWithUnits(days, "d", hours, "h", minutes, "m")
	}
	if hours > 0 {
		return formatWithUnits(hours, "h", minutes, "m", 0, "")
	}
	return formatWithUnits(minutes, "m", 0, "", 0, "")
}

// formatWithUnits builds a compact duration string from up to three components.
func formatWithUnits(v1 int, u1 string, v2 int, u2 string, v3 int, u3 string) string {
	s := ""
	if v1 > 0 {
		s += intStr(v1) + u1
	}
	if v2 > 0 {
		if s != "" {
			s += " "
		}
		s += intStr(v2) + u2
	}
	if v3 > 0 && u3 != "" {
		if s != "" {
			s += " "
		}
		s += intStr(v3) + u3
	}
	if s == "" {
		return "0m"
	}
	return s
}

// intStr converts an int to its string representation without importing strconv.
func intStr(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + intStr(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	// reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
