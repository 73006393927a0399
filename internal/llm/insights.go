package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/sqlcrew/internal/pipeline"
	"github.com/allaspectsdev/sqlcrew/internal/store"
)

// Insights answers visualization, analysis, and follow-up requests about
// a completed record's result table. Collaborator failures degrade to
// local statistics; nothing here ever returns an error to the pipeline.
type Insights struct {
	client *Client
}

// NewInsights creates an Insights collaborator over the given client.
func NewInsights(client *Client) *Insights {
	return &Insights{client: client}
}

// Visualize answers a chart request. Collaborators that can render
// return an image payload, carried base64-opaque; text replies become a
// chart description, and a failed call becomes an error artifact.
func (in *Insights) Visualize(ctx context.Context, request string, table *store.Result) (pipeline.Artifact, float64) {
	user := fmt.Sprintf("Chart request: %s\n\nData:\n%s", request, tableText(table, 50))
	res, err := in.client.complete(ctx, visualizeSystemPrompt, user)
	if err != nil {
		log.Warn().Err(err).Msg("llm: visualization failed")
		return pipeline.Artifact{
			Type:    pipeline.ArtifactError,
			Content: fmt.Sprintf("visualization failed: %v", err),
			Message: "the visualization collaborator was unavailable",
		}, 0
	}
	if b64, ok := imagePayload(res.Text); ok {
		return pipeline.Artifact{
			Type:    pipeline.ArtifactImage,
			Base64:  b64,
			Message: "chart image generated",
		}, res.Cost
	}
	return pipeline.Artifact{
		Type:    pipeline.ArtifactText,
		Content: res.Text,
		Message: "chart description generated",
	}, res.Cost
}

// imagePayload extracts a base64 image from a collaborator reply. Two
// shapes are recognized: a data URI ("data:image/png;base64,....") and
// a JSON object with an "image" or "image_base64" field. The payload is
// never decoded here; it travels opaque to the caller.
func imagePayload(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "data:image/") {
		if i := strings.Index(trimmed, ";base64,"); i > 0 {
			if b64 := strings.TrimSpace(trimmed[i+len(";base64,"):]); b64 != "" {
				return b64, true
			}
		}
		return "", false
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Image       string `json:"image"`
			ImageBase64 string `json:"image_base64"`
		}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if obj.Image != "" {
				return obj.Image, true
			}
			if obj.ImageBase64 != "" {
				return obj.ImageBase64, true
			}
		}
	}

	return "", false
}

// Analyze answers a question about the result table. When the
// collaborator fails, a local statistical summary stands in.
func (in *Insights) Analyze(ctx context.Context, question string, table *store.Result) (pipeline.Artifact, float64) {
	user := fmt.Sprintf("Question: %s\n\nData:\n%s", question, tableText(table, 50))
	res, err := in.client.complete(ctx, analyzeSystemPrompt, user)
	if err != nil {
		log.Warn().Err(err).Msg("llm: analysis failed, using local statistics")
		return pipeline.Artifact{
			Type:    pipeline.ArtifactText,
			Content: BasicAnalysis(table),
			Message: "collaborator unavailable; basic statistics shown instead",
		}, 0
	}
	return pipeline.Artifact{
		Type:    pipeline.ArtifactText,
		Content: res.Text,
		Message: "analysis generated",
	}, res.Cost
}

// SuggestQuestions proposes follow-up questions for the original prompt
// and its result. A failed or unparseable reply falls back to canned
// suggestions keyed off the prompt.
func (in *Insights) SuggestQuestions(ctx context.Context, prompt string, table *store.Result) ([]string, float64) {
	user := fmt.Sprintf("Original question: %s\n\nResult shape:\n%s", prompt, tableText(table, 5))
	res, err := in.client.complete(ctx, suggestSystemPrompt, user)
	if err != nil {
		log.Warn().Err(err).Msg("llm: suggestion call failed, using fallback list")
		return FallbackSuggestions(prompt), 0
	}
	questions := parseSuggestions(res.Text)
	if len(questions) == 0 {
		return FallbackSuggestions(prompt), res.Cost
	}
	return questions, res.Cost
}

// parseSuggestions accepts a JSON array of strings or a numbered list.
func parseSuggestions(raw string) []string {
	trimmed := strings.TrimSpace(raw)

	var arr []string
	if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
		return nonEmpty(arr, 5)
	}

	var out []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Strip a "1." / "2)" style prefix.
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 {
			if _, err := strconv.Atoi(line[:i]); err == nil {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return nonEmpty(out, 5)
}

func nonEmpty(items []string, max int) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == max {
			break
		}
	}
	return out
}

// tableText renders up to maxRows of the result as comma-separated
// lines, compact enough to embed in a prompt.
func tableText(table *store.Result, maxRows int) string {
	if table == nil || len(table.Columns) == 0 {
		return "(no data)"
	}
	var b strings.Builder
	b.WriteString(strings.Join(table.Columns, ", "))
	rows := table.Rows
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, ", "))
	}
	if len(table.Rows) > maxRows {
		fmt.Fprintf(&b, "\n... (%d more rows)", len(table.Rows)-maxRows)
	}
	return b.String()
}

// BasicAnalysis produces a local statistical summary of a result table:
// row and column counts, min/mean/max for the first numeric columns, and
// distinct counts for the first text columns.
func BasicAnalysis(table *store.Result) string {
	if table == nil || len(table.Columns) == 0 {
		return "No data to analyze."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d\nColumns: %d (%s)\n",
		len(table.Rows), len(table.Columns), strings.Join(table.Columns, ", "))

	numericShown, textShown := 0, 0
	for i, col := range table.Columns {
		values := columnValues(table, i)
		if len(values) == 0 {
			continue
		}
		if nums, ok := numericColumn(values); ok {
			if numericShown >= 3 {
				continue
			}
			numericShown++
			min, max, sum := nums[0], nums[0], 0.0
			for _, v := range nums {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
				sum += v
			}
			fmt.Fprintf(&b, "%s: min %.2f, mean %.2f, max %.2f\n",
				col, min, sum/float64(len(nums)), max)
		} else {
			if textShown >= 3 {
				continue
			}
			textShown++
			fmt.Fprintf(&b, "%s: %d distinct values\n", col, distinctCount(values))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func columnValues(table *store.Result, col int) []string {
	var out []string
	for _, row := range table.Rows {
		if col < len(row) && row[col] != "" && row[col] != "NULL" {
			out = append(out, row[col])
		}
	}
	return out
}

// numericColumn parses every value as a float; one failure makes the
// column textual.
func numericColumn(values []string) ([]float64, bool) {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		nums = append(nums, f)
	}
	return nums, true
}

func distinctCount(values []string) int {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	n := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			n++
		}
	}
	return n
}

// suggestion fallbacks, keyed by prompt topic.
var (
	salesSuggestions = []string{
		"分析销售趋势的季节性变化",
		"计算各产品的市场份额占比",
		"识别销售增长最快的产品类别",
		"分析价格与销量的关系",
		"对比不同时间段的销售表现",
	}
	productSuggestions = []string{
		"分析产品的平均售价变化",
		"识别最受欢迎的产品特征",
		"对比不同产品类别的盈利能力",
		"分析产品评价与销量的关系",
		"找出库存数量最低的产品",
	}
	customerSuggestions = []string{
		"分析客户的购买行为模式",
		"识别高价值客户群体",
		"对比不同客户群体的消费习惯",
		"分析客户细分与订单金额的关系",
		"找出最近没有下单的老客户",
	}
	genericSuggestions = []string{
		"进行数据的趋势分析",
		"计算关键指标的变化率",
		"识别数据中的异常模式",
		"进行分组对比分析",
		"分析数据的分布特征",
	}
)

// FallbackSuggestions returns canned follow-up questions keyed off the
// original prompt's topic.
func FallbackSuggestions(prompt string) []string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "销售") || strings.Contains(lower, "收入") || strings.Contains(lower, "revenue") || strings.Contains(lower, "sales"):
		return salesSuggestions
	case strings.Contains(lower, "产品") || strings.Contains(lower, "product"):
		return productSuggestions
	case strings.Contains(lower, "客户") || strings.Contains(lower, "customer"):
		return customerSuggestions
	default:
		return genericSuggestions
	}
}
