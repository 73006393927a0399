package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind classifies the overall shape of a collaborator response.
type Kind int

const (
	// Prose is free text with no recognizable structure.
	Prose Kind = iota
	// Structured is a bare JSON document.
	Structured
	// FencedCode is text whose payload sits in a markdown code fence.
	FencedCode
)

func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case FencedCode:
		return "fenced"
	default:
		return "prose"
	}
}

// Fence is one markdown code fence with its language tag.
type Fence struct {
	Lang string
	Body string
}

// Response is a collaborator response decomposed into its shape.
type Response struct {
	Kind   Kind
	Fields map[string]string // Structured: top-level string fields, keys lowercased
	Fences []Fence           // FencedCode: every fence, in order
	Raw    string
}

var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_-]*)[ \t]*\n(.*?)```")

// Classify decomposes raw text into a Response. Models answer in whatever
// shape they feel like, so classification is forgiving: a leading '{'
// wins even if the JSON turns out malformed, and any fence makes the
// response FencedCode.
func Classify(raw string) Response {
	r := Response{Kind: Prose, Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		r.Kind = Structured
		r.Fields = stringFields(trimmed)
		return r
	}

	if fences := FencedBlocks(raw); len(fences) > 0 {
		r.Kind = FencedCode
		r.Fences = fences
	}
	return r
}

// FencedBlocks returns every markdown code fence in raw, in order.
func FencedBlocks(raw string) []Fence {
	matches := fenceRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	fences := make([]Fence, 0, len(matches))
	for _, m := range matches {
		fences = append(fences, Fence{
			Lang: strings.ToLower(m[1]),
			Body: m[2],
		})
	}
	return fences
}

// stringFields parses a JSON object and keeps its top-level string
// fields, keys lowercased. Malformed JSON or non-string values yield an
// empty map rather than an error; the caller falls through to the next
// extraction strategy.
func stringFields(doc string) map[string]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &obj); err != nil {
		return map[string]string{}
	}
	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[strings.ToLower(k)] = s
		}
	}
	return fields
}
