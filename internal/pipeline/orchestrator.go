package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/sqlcrew/internal/compliance"
	"github.com/allaspectsdev/sqlcrew/internal/extract"
	"github.com/allaspectsdev/sqlcrew/internal/relevance"
	"github.com/allaspectsdev/sqlcrew/internal/store"
)

// RunRecorder receives the outcome of every pipeline run. The metrics
// collector satisfies this.
type RunRecorder interface {
	RecordRun(status string, cost float64)
}

// Config wires an Orchestrator. Schema, Generator, Reviewer, Compliance,
// Executor, and History are required; Insight and Metrics are optional.
type Config struct {
	Schema     SchemaSource
	Generator  Generator
	Reviewer   Reviewer
	Compliance ComplianceChecker
	Executor   Executor
	Insight    Insighter
	History    *History
	Metrics    RunRecorder
}

// Orchestrator drives records through the pipeline one at a time. Runs
// are serialized: each request synchronously reaches a terminal state
// and is published into history before the next run starts.
type Orchestrator struct {
	mu  sync.Mutex
	cfg Config
}

// New creates an Orchestrator from a Config.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Schema == nil || cfg.Generator == nil || cfg.Reviewer == nil ||
		cfg.Compliance == nil || cfg.Executor == nil || cfg.History == nil {
		return nil, fmt.Errorf("pipeline: config is missing a required collaborator")
	}
	return &Orchestrator{cfg: cfg}, nil
}

// History returns the session history the orchestrator publishes into.
func (o *Orchestrator) History() *History {
	return o.cfg.History
}

// Run drives a natural-language prompt through generation, review,
// compliance, and execution. It always returns a record in a terminal
// state, already published into history; failures surface as the
// record's status and error message, never as a panic.
func (o *Orchestrator) Run(ctx context.Context, prompt string) (rec *Record) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// rec is a named result so a recovered stage panic still returns the
	// failed record instead of nil.
	rec = NewRecord(prompt)
	defer o.publish(rec)
	defer recoverToError(rec)

	tables, err := o.cfg.Schema.Tables()
	if err != nil {
		rec.Fail(fmt.Sprintf("reading schema: %v", err))
		return rec
	}

	// Generation scope comes from the natural-language prompt.
	scope := relevance.SelectTables(prompt, tables)
	schemaText := o.cfg.Schema.Scoped(scope)

	genResult, err := o.cfg.Generator.GenerateSQL(ctx, prompt, schemaText)
	rec.AddCost(genResult.Cost)
	if err != nil {
		rec.Fail(fmt.Sprintf("SQL generation failed: %v", err))
		return rec
	}
	generated := extract.Extract(genResult.Text)
	if generated == "" {
		rec.Fail("SQL extraction failed.")
		return rec
	}
	rec.GeneratedSQL = generated
	rec.Status = StatusGenerated

	// Review scope comes from the generated SQL text, not the prompt:
	// the reviewer needs the tables the statement actually touches.
	rec.Status = StatusReviewing
	reviewScope := relevance.SelectTables(generated, tables)
	reviewSchema := o.cfg.Schema.Scoped(reviewScope)

	revResult, err := o.cfg.Reviewer.ReviewSQL(ctx, generated, reviewSchema)
	rec.AddCost(revResult.Cost)
	if err != nil {
		rec.Fail(fmt.Sprintf("SQL review failed: %v", err))
		return rec
	}
	reviewed := extract.Extract(revResult.Text)
	if reviewed == "" {
		rec.Fail("SQL extraction failed.")
		return rec
	}
	rec.ReviewedSQL = reviewed
	rec.Status = StatusReviewed

	o.runFromReviewed(ctx, rec)
	return rec
}

// RunManual drives user-supplied SQL through compliance and execution,
// skipping generation and review. The record is published like any
// pipeline run.
func (o *Orchestrator) RunManual(ctx context.Context, sql string) (rec *Record) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec = NewManualRecord(extract.Clean(sql))
	defer o.publish(rec)
	defer recoverToError(rec)

	if rec.ManualSQL == "" {
		rec.Fail("SQL extraction failed.")
		return rec
	}
	o.runFromReviewed(ctx, rec)
	return rec
}

// runFromReviewed takes a record holding reviewed or manual SQL through
// the compliance gate and, if permitted, execution.
func (o *Orchestrator) runFromReviewed(ctx context.Context, rec *Record) {
	rec.Status = StatusComplianceChecking
	sqlText := rec.FinalSQL()

	compResult, err := o.cfg.Compliance.CheckCompliance(ctx, sqlText)
	rec.AddCost(compResult.Cost)
	if err != nil {
		rec.Fail(fmt.Sprintf("compliance check failed: %v", err))
		return
	}
	rec.ComplianceReport = reportText(compResult.Text)

	// A report always moves the record to pending execution; the gate
	// verdict decides what happens there.
	rec.Status = StatusPendingExecution

	if !compliance.IsCompliant(rec.ComplianceReport) {
		rec.Status = StatusComplianceFailed
		rec.ErrorMessage = "compliance check rejected the query"
		return
	}

	table, message := o.cfg.Executor.Execute(ctx, sqlText)
	if table == nil {
		rec.Status = StatusQueryFailed
		kind := store.ClassifyError(message)
		rec.ErrorMessage = fmt.Sprintf("%s (%s)", message, store.Hint(kind))
		return
	}
	rec.QueryResult = message
	rec.QueryTable = table
	rec.Status = StatusCompleted
}

// reportText unwraps a structured compliance reply. Checkers are asked
// for a JSON object with a "report" field; anything else is kept as the
// raw report text.
func reportText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Report string `json:"report"`
		}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && obj.Report != "" {
			return obj.Report
		}
	}
	return trimmed
}

// publish appends the record to history exactly once. A failed append is
// retried once; if that also fails the record's state reflects the
// persistence failure but the run does not crash.
func (o *Orchestrator) publish(rec *Record) {
	err := o.cfg.History.Append(rec)
	if err != nil {
		log.Warn().Err(err).Str("record", rec.ID).Msg("pipeline: history append failed, retrying")
		if err = o.cfg.History.Append(rec); err != nil {
			rec.Fail(fmt.Sprintf("history append failed: %v", err))
			log.Error().Err(err).Str("record", rec.ID).Msg("pipeline: history append retry failed")
		}
	}
	if o.cfg.Metrics != nil {
		o.cfg.Metrics.RecordRun(string(rec.Status), rec.Cost)
	}
	log.Info().
		Str("record", rec.ID).
		Str("status", string(rec.Status)).
		Float64("cost", rec.Cost).
		Msg("pipeline: run finished")
}

// recoverToError converts a stage panic into the record's error state.
func recoverToError(rec *Record) {
	if r := recover(); r != nil {
		rec.Fail(fmt.Sprintf("internal error: %v", r))
		log.Error().Str("record", rec.ID).Interface("panic", r).Msg("pipeline: stage panicked")
	}
}

// Visualize asks the insight collaborator for a chart of a completed
// record's result and appends the artifact to the record.
func (o *Orchestrator) Visualize(ctx context.Context, id, request string) (Artifact, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, err := o.completedRecord(id)
	if err != nil {
		return Artifact{}, err
	}
	if o.cfg.Insight == nil {
		return Artifact{}, fmt.Errorf("pipeline: no insight collaborator configured")
	}
	a, cost := o.cfg.Insight.Visualize(ctx, request, rec.QueryTable)
	rec.AddVisualization(a)
	o.cfg.History.AddCost(id, cost)
	return a, nil
}

// Analyze asks the insight collaborator a question about a completed
// record's result and appends the artifact to the record.
func (o *Orchestrator) Analyze(ctx context.Context, id, question string) (Artifact, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, err := o.completedRecord(id)
	if err != nil {
		return Artifact{}, err
	}
	if o.cfg.Insight == nil {
		return Artifact{}, fmt.Errorf("pipeline: no insight collaborator configured")
	}
	a, cost := o.cfg.Insight.Analyze(ctx, question, rec.QueryTable)
	rec.AddAnalysis(a)
	o.cfg.History.AddCost(id, cost)
	return a, nil
}

// Suggestions returns follow-up questions for a completed record.
func (o *Orchestrator) Suggestions(ctx context.Context, id string) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, err := o.completedRecord(id)
	if err != nil {
		return nil, err
	}
	if o.cfg.Insight == nil {
		return nil, fmt.Errorf("pipeline: no insight collaborator configured")
	}
	questions, cost := o.cfg.Insight.SuggestQuestions(ctx, rec.UserPrompt, rec.QueryTable)
	o.cfg.History.AddCost(id, cost)
	return questions, nil
}

func (o *Orchestrator) completedRecord(id string) (*Record, error) {
	rec, ok := o.cfg.History.Get(id)
	if !ok {
		return nil, fmt.Errorf("pipeline: no record with id %s", id)
	}
	if rec.Status != StatusCompleted || rec.QueryTable == nil {
		return nil, fmt.Errorf("pipeline: record %s has no query result", id)
	}
	return rec, nil
}
