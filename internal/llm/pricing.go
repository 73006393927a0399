package llm

import "strings"

// ModelPricing holds the per-million-token costs for a model, in USD.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Pricing maps model identifiers to their token pricing.
var Pricing = map[string]ModelPricing{
	// OpenAI models
	"gpt-4o":        {2.50, 10.00},
	"gpt-4o-mini":   {0.15, 0.60},
	"gpt-4-turbo":   {10.00, 30.00},
	"gpt-3.5-turbo": {0.50, 1.50},

	// DashScope qwen models (compatible-mode endpoint)
	"qwen-max":   {1.60, 6.40},
	"qwen-plus":  {0.40, 1.20},
	"qwen-turbo": {0.05, 0.20},
}

// GetPricing returns the pricing for the given model. It first attempts an
// exact match, then falls back to a prefix match against known model names.
// The second return value indicates whether pricing was found.
func GetPricing(model string) (ModelPricing, bool) {
	// Exact match.
	if p, ok := Pricing[model]; ok {
		return p, true
	}

	// Prefix match maps versioned model names like "gpt-4o-2024-08-06"
	// to the base model pricing. The longest prefix wins so "gpt-4o-mini"
	// variants are not swallowed by "gpt-4o".
	var (
		best    ModelPricing
		bestLen int
		found   bool
	)
	for name, p := range Pricing {
		if strings.HasPrefix(model, name) && len(name) > bestLen {
			best, bestLen, found = p, len(name), true
		}
	}
	return best, found
}

// EstimateCost calculates the estimated cost in USD for the given number of
// input and output tokens on the specified model. Returns 0.0 if the model
// is not found in the pricing table.
func EstimateCost(model string, tokensIn, tokensOut int) float64 {
	p, ok := GetPricing(model)
	if !ok {
		return 0.0
	}
	return (float64(tokensIn)*p.InputPerMillion + float64(tokensOut)*p.OutputPerMillion) / 1_000_000
}
