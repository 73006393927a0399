// Package pipeline drives one natural-language request through SQL
// generation, review, compliance checking, and execution. Each request
// produces a Record that is published into the session History exactly
// once, whatever terminal state it reaches.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/allaspectsdev/sqlcrew/internal/store"
)

// Status is a record's position in the pipeline state machine.
type Status string

const (
	StatusGenerating         Status = "generating"
	StatusGenerated          Status = "generated"
	StatusReviewing          Status = "reviewing"
	StatusReviewed           Status = "reviewed"
	StatusComplianceChecking Status = "compliance_checking"
	StatusPendingExecution   Status = "pending_execution"
	StatusCompleted          Status = "completed"
	StatusQueryFailed        Status = "query_failed"
	StatusComplianceFailed   Status = "compliance_failed"
	StatusError              Status = "error"
)

// Terminal reports whether a record in this status has finished the
// pipeline and will not move again.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusQueryFailed, StatusComplianceFailed, StatusError:
		return true
	}
	return false
}

// ArtifactType tags a visualization or analysis payload.
type ArtifactType string

const (
	ArtifactImage ArtifactType = "image"
	ArtifactText  ArtifactType = "text"
	ArtifactError ArtifactType = "error"
)

// Artifact is one opaque collaborator output attached to a record. The
// payload is not validated here; image bytes arrive base64-encoded and
// pass through untouched.
type Artifact struct {
	Type      ArtifactType `json:"type"`
	Content   string       `json:"content,omitempty"`
	Base64    string       `json:"base64,omitempty"`
	Message   string       `json:"message,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Record is one tracked attempt to satisfy a user's data request. It is
// built by a single pipeline run and published into History once; only
// the append-only Visualizations and Analyses slices grow afterwards.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	UserPrompt string `json:"user_prompt"`

	// GeneratedSQL and ManualSQL are mutually exclusive provenance
	// markers: a pipeline run sets the former, a manual submission the
	// latter. Each SQL field is written once and never overwritten.
	GeneratedSQL string `json:"generated_sql,omitempty"`
	ReviewedSQL  string `json:"reviewed_sql,omitempty"`
	ManualSQL    string `json:"manual_sql,omitempty"`

	ComplianceReport string `json:"compliance_report,omitempty"`

	// QueryResult and QueryTable are set together or not at all. They
	// are present exactly when Status is StatusCompleted.
	QueryResult string        `json:"query_result,omitempty"`
	QueryTable  *store.Result `json:"query_dataframe,omitempty"`

	Cost   float64 `json:"cost"`
	Status Status  `json:"status"`

	ManualIntervention bool   `json:"manual_intervention"`
	ErrorMessage       string `json:"error_message,omitempty"`

	Visualizations []Artifact `json:"visualizations,omitempty"`
	Analyses       []Artifact `json:"analyses,omitempty"`
}

// NewRecord creates a record for a pipeline run starting at generation.
func NewRecord(prompt string) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		UserPrompt: prompt,
		Status:     StatusGenerating,
	}
}

// NewManualRecord creates a record for user-supplied SQL. It enters the
// pipeline at the reviewed stage, skipping generation and review.
func NewManualRecord(sql string) *Record {
	return &Record{
		ID:                 uuid.NewString(),
		Timestamp:          time.Now(),
		ManualSQL:          sql,
		ManualIntervention: true,
		Status:             StatusReviewed,
	}
}

// FinalSQL returns the statement that compliance and execution operate
// on: manual SQL when present, otherwise the reviewed SQL, otherwise the
// generated SQL.
func (r *Record) FinalSQL() string {
	switch {
	case r.ManualSQL != "":
		return r.ManualSQL
	case r.ReviewedSQL != "":
		return r.ReviewedSQL
	default:
		return r.GeneratedSQL
	}
}

// AddCost accumulates a collaborator charge. Cost never decreases, so
// negative amounts are ignored.
func (r *Record) AddCost(amount float64) {
	if amount > 0 {
		r.Cost += amount
	}
}

// Fail moves the record to the error state, preserving the triggering
// message.
func (r *Record) Fail(msg string) {
	r.Status = StatusError
	r.ErrorMessage = msg
}

// AddVisualization appends a collaborator visualization artifact.
func (r *Record) AddVisualization(a Artifact) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.Visualizations = append(r.Visualizations, a)
}

// AddAnalysis appends a collaborator analysis artifact.
func (r *Record) AddAnalysis(a Artifact) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.Analyses = append(r.Analyses, a)
}
