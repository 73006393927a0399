// Package extract pulls a runnable SQL statement out of whatever text an
// LLM collaborator produced. Models answer with JSON documents, fenced
// code blocks, prose with an embedded statement, or any mix of these, so
// extraction is a cascade of strategies from most to least structured.
// Extract never fails: the last strategy returns the cleaned input text
// and lets the database be the judge.
package extract

import (
	"regexp"
	"strings"
)

// sqlFieldNames are the JSON fields checked for a SQL payload, in
// priority order.
var sqlFieldNames = []string{"sqlquery", "reviewed_sqlquery", "sql_query", "query"}

// selectSpanRe grabs a SELECT statement up to its terminating semicolon
// or end of text.
var selectSpanRe = regexp.MustCompile(`(?is)\bSELECT\b.*?(?:;|$)`)

// statementRes match the common statement heads, tried in order. Each
// head must be followed by its defining clause so ordinary words like
// "with" or "update" in refusal prose do not read as statements.
var statementRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\bSELECT\b.*?(?:;|$)`),
	regexp.MustCompile(`(?is)\bWITH\s+(?:RECURSIVE\s+)?\w+\s+AS\s*\(.*?(?:;|$)`),
	regexp.MustCompile(`(?is)\bINSERT\s+INTO\b.*?(?:;|$)`),
	regexp.MustCompile(`(?is)\bUPDATE\s+\S+\s+SET\b.*?(?:;|$)`),
	regexp.MustCompile(`(?is)\bDELETE\s+FROM\b.*?(?:;|$)`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extract returns the SQL statement found in raw, cleaned and terminated
// with a semicolon. It always returns something; for input with no
// recognizable SQL that something is the cleaned input itself.
func Extract(raw string) string {
	sql, _ := extractWithStrategy(raw)
	return sql
}

// extraction strategy tags, used by tests to pin cascade order.
const (
	stratStructured  = "structured"
	stratJSONFence   = "json-fence"
	stratSQLFence    = "sql-fence"
	stratSelectSpan  = "select-span"
	stratCleanSelect = "clean-select"
	stratStatement   = "statement-regex"
	stratFallback    = "fallback"
)

func extractWithStrategy(raw string) (string, string) {
	resp := Classify(raw)

	// 1. Bare JSON document with a known SQL field.
	if resp.Kind == Structured {
		if sql, ok := fieldSQL(resp.Fields); ok {
			return sql, stratStructured
		}
	}

	// 2. JSON inside a fence.
	for _, fence := range FencedBlocks(raw) {
		if fence.Lang != "json" {
			continue
		}
		if sql, ok := fieldSQL(stringFields(strings.TrimSpace(fence.Body))); ok {
			return sql, stratJSONFence
		}
	}

	// 3. SQL inside a fence.
	for _, fence := range FencedBlocks(raw) {
		if fence.Lang != "sql" {
			continue
		}
		if c := Clean(fence.Body); c != "" {
			return c, stratSQLFence
		}
	}

	// 4. A SELECT span in the raw text.
	if m := selectSpanRe.FindString(raw); m != "" {
		if c := Clean(m); c != "" {
			return c, stratSelectSpan
		}
	}

	// 5. The cleaned text itself, if it still mentions SELECT.
	whole := Clean(raw)
	if whole != "" && strings.Contains(strings.ToLower(whole), "select") {
		return whole, stratCleanSelect
	}

	// 6. Other statement heads.
	for _, re := range statementRes {
		if m := re.FindString(raw); m != "" {
			if c := Clean(m); c != "" {
				return c, stratStatement
			}
		}
	}

	// 7. Give up gracefully.
	return whole, stratFallback
}

// fieldSQL returns the first non-empty known SQL field, cleaned.
func fieldSQL(fields map[string]string) (string, bool) {
	for _, name := range sqlFieldNames {
		if v, ok := fields[name]; ok {
			if c := Clean(v); c != "" {
				return c, true
			}
		}
	}
	return "", false
}

// Clean normalizes a SQL candidate: trims whitespace and one layer of
// surrounding quotes, drops comment lines and blank lines, truncates
// inline "--" comments, collapses the rest onto one line with single
// spaces, and appends a terminating semicolon. Clean is idempotent and
// returns "" for input with no content.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = stripQuoteLayer(s)

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "--") || strings.HasPrefix(t, "#") {
			continue
		}
		if i := strings.Index(t, "--"); i >= 0 {
			t = strings.TrimSpace(t[:i])
			if t == "" {
				continue
			}
		}
		kept = append(kept, t)
	}

	out := strings.Join(kept, " ")
	out = whitespaceRe.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	if out != "" && !strings.HasSuffix(out, ";") {
		out += ";"
	}
	return out
}

// stripQuoteLayer removes one matching pair of surrounding quotes.
func stripQuoteLayer(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last {
		return s
	}
	switch first {
	case '\'', '"', '`':
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
