package pipeline

import (
	"context"

	"github.com/allaspectsdev/sqlcrew/internal/store"
)

// StageResult is one collaborator reply: the raw text plus what the call
// cost. The text carries no format guarantee and always goes through the
// extraction cascade before use.
type StageResult struct {
	Text string
	Cost float64
}

// Generator produces SQL for a natural-language prompt given scoped
// schema text.
type Generator interface {
	GenerateSQL(ctx context.Context, prompt, schemaText string) (StageResult, error)
}

// Reviewer repairs or confirms a generated SQL statement given schema
// text scoped by the tables that statement references.
type Reviewer interface {
	ReviewSQL(ctx context.Context, sqlText, schemaText string) (StageResult, error)
}

// ComplianceChecker audits a SQL statement for PII exposure, access
// policy, and operational safety, returning a free-form report.
type ComplianceChecker interface {
	CheckCompliance(ctx context.Context, sqlText string) (StageResult, error)
}

// Executor runs a vetted statement. A nil result means the query failed
// and the message carries the reason; the call itself never errors.
// *store.Store satisfies this.
type Executor interface {
	Execute(ctx context.Context, query string) (*store.Result, string)
}

// SchemaSource provides the table inventory and scoped metadata text.
// The schemainfo cache wrapped over the store satisfies this.
type SchemaSource interface {
	Tables() ([]string, error)
	Scoped(tables []string) string
}

// Insighter generates post-run artifacts for a completed record:
// visualizations, natural-language analyses, and follow-up suggestions.
// Implementations degrade to local statistics when the collaborator
// call fails; errors here never reach the pipeline.
type Insighter interface {
	Visualize(ctx context.Context, request string, table *store.Result) (Artifact, float64)
	Analyze(ctx context.Context, question string, table *store.Result) (Artifact, float64)
	SuggestQuestions(ctx context.Context, prompt string, table *store.Result) ([]string, float64)
}
