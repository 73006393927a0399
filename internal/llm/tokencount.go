package llm

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// tokenCounter estimates token counts with tiktoken encodings. It is the
// fallback when an API response carries no usage block (some
// OpenAI-compatible endpoints omit it). Encodings are cached via
// sync.Once to avoid repeated initialization.
type tokenCounter struct {
	cl100kOnce sync.Once
	cl100kEnc  *tiktoken.Tiktoken
	cl100kErr  error

	o200kOnce sync.Once
	o200kEnc  *tiktoken.Tiktoken
	o200kErr  error
}

// modelEncodings maps model names to their tiktoken encoding. Qwen models
// have their own vocabulary; cl100k_base is a close enough estimator.
var modelEncodings = map[string]string{
	"gpt-4":         "cl100k_base",
	"gpt-4-turbo":   "cl100k_base",
	"gpt-3.5-turbo": "cl100k_base",

	"gpt-4o":                 "o200k_base",
	"gpt-4o-2024-08-06":      "o200k_base",
	"gpt-4o-mini":            "o200k_base",
	"gpt-4o-mini-2024-07-18": "o200k_base",

	"qwen-max":   "cl100k_base",
	"qwen-plus":  "cl100k_base",
	"qwen-turbo": "cl100k_base",
}

// encodingFor returns the encoding name for the given model.
// Unknown models default to cl100k_base.
func encodingFor(model string) string {
	if enc, ok := modelEncodings[model]; ok {
		return enc
	}

	// Try prefix matching for versioned model names. The longest prefix
	// wins so "gpt-4o" variants are not swallowed by "gpt-4".
	lower := strings.ToLower(model)
	best, bestLen := "", 0
	for m, enc := range modelEncodings {
		if strings.HasPrefix(lower, m) && len(m) > bestLen {
			best, bestLen = enc, len(m)
		}
	}
	if best != "" {
		return best
	}

	return "cl100k_base"
}

// encoder returns the cached tiktoken encoder for the given model.
func (t *tokenCounter) encoder(model string) (*tiktoken.Tiktoken, error) {
	switch encodingFor(model) {
	case "o200k_base":
		t.o200kOnce.Do(func() {
			t.o200kEnc, t.o200kErr = tiktoken.GetEncoding("o200k_base")
		})
		return t.o200kEnc, t.o200kErr
	default:
		t.cl100kOnce.Do(func() {
			t.cl100kEnc, t.cl100kErr = tiktoken.GetEncoding("cl100k_base")
		})
		return t.cl100kEnc, t.cl100kErr
	}
}

// count returns the number of tokens in text for the specified model,
// or 0 if the encoder cannot be loaded.
func (t *tokenCounter) count(model, text string) int {
	enc, err := t.encoder(model)
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

// countChat estimates tokens for a system+user chat exchange: each
// message carries a 4-token role framing overhead, plus 3 tokens of
// reply priming.
func (t *tokenCounter) countChat(model, system, user string) int {
	total := 4 + t.count(model, system)
	total += 4 + t.count(model, user)
	return total + 3
}
