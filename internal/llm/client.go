// Package llm implements the pipeline collaborators on top of any
// OpenAI-compatible chat completion endpoint (OpenAI itself, or
// DashScope's compatible mode for qwen models).
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/allaspectsdev/sqlcrew/internal/pipeline"
)

// Config holds what the client needs to talk to a provider.
type Config struct {
	BaseURL     string // e.g. https://api.openai.com/v1
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int // completion cap; zero means provider default
}

// Client talks to one chat completion endpoint and implements the
// pipeline's Generator, Reviewer, and ComplianceChecker contracts.
type Client struct {
	api     *openai.Client
	model   string
	temp    float32
	maxTok  int
	counter tokenCounter
}

// NewClient creates a collaborator client for the given provider.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: model is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return &Client{
		api:    openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		temp:   float32(cfg.Temperature),
		maxTok: cfg.MaxTokens,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// complete runs one system+user exchange and prices it. Token counts
// come from the response usage block when present, otherwise from a
// local tiktoken estimate.
func (c *Client) complete(ctx context.Context, system, user string) (pipeline.StageResult, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temp,
		MaxTokens:   c.maxTok,
	})
	if err != nil {
		return pipeline.StageResult{}, fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return pipeline.StageResult{}, fmt.Errorf("llm: chat completion: no choices in response")
	}
	content := resp.Choices[0].Message.Content

	tokensIn := resp.Usage.PromptTokens
	tokensOut := resp.Usage.CompletionTokens
	if tokensIn == 0 && tokensOut == 0 {
		tokensIn = c.counter.countChat(c.model, system, user)
		tokensOut = c.counter.count(c.model, content)
	}
	cost := EstimateCost(c.model, tokensIn, tokensOut)

	log.Debug().
		Str("model", c.model).
		Int("tokens_in", tokensIn).
		Int("tokens_out", tokensOut).
		Float64("cost", cost).
		Dur("elapsed", time.Since(start)).
		Msg("llm: completion finished")

	return pipeline.StageResult{Text: content, Cost: cost}, nil
}

// GenerateSQL asks for a SQL query answering the prompt against the
// scoped schema.
func (c *Client) GenerateSQL(ctx context.Context, prompt, schemaText string) (pipeline.StageResult, error) {
	user := fmt.Sprintf("Schema:\n%s\nUser request: %s", schemaText, prompt)
	return c.complete(ctx, generatorSystemPrompt, user)
}

// ReviewSQL asks for a reviewed version of the SQL against the schema of
// the tables it references.
func (c *Client) ReviewSQL(ctx context.Context, sqlText, schemaText string) (pipeline.StageResult, error) {
	user := fmt.Sprintf("Schema:\n%s\nSQL query to review:\n%s", schemaText, sqlText)
	return c.complete(ctx, reviewerSystemPrompt, user)
}

// CheckCompliance asks for a compliance report on the SQL.
func (c *Client) CheckCompliance(ctx context.Context, sqlText string) (pipeline.StageResult, error) {
	user := fmt.Sprintf("SQL query to audit:\n%s", sqlText)
	return c.complete(ctx, complianceSystemPrompt, user)
}
