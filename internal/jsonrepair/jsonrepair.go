package jsonrepair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ParseError reports that no JSON value could be recovered from the raw
// model output, even after all repair stages. Snippet holds a bounded
// prefix of the original input for diagnostics.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return "jsonrepair: unable to parse model output: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

const snippetLimit = 400

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)
	gluedObjectsRe  = regexp.MustCompile(`\}\s*\{`)
	gluedArraysRe   = regexp.MustCompile(`\]\s*\[`)
	// a closing token or bare value followed by a quoted key without a comma
	missingCommaRe = regexp.MustCompile(`([}\]"0-9])\s+"([A-Za-z0-9_]+)"\s*:`)
	// a quoted key followed directly by a quoted value without a colon
	missingColonRe   = regexp.MustCompile(`"([A-Za-z0-9_]+)"\s+"`)
	nonPrintableRe   = regexp.MustCompile(`[^\x20-\x7E]+`)
	objectFragmentRe = regexp.MustCompile(`\{[^{}]+\}`)
)

// repairPass is one pure text transformation applied before decoding.
// Passes run in fixed order; each must be safe on already-valid JSON.
type repairPass struct {
	name  string
	apply func(string) string
}

var cleanupPasses = []repairPass{
	{"trailing-commas", stripTrailingCommas},
	{"flatten-whitespace", flattenWhitespace},
	{"glued-containers", separateGluedContainers},
	{"missing-comma", insertMissingCommas},
	{"missing-colon", insertMissingColons},
}

// Parse recovers a structured value from unreliable generated text. It
// extracts the first top-level JSON-like span, applies the cleanup passes,
// and decodes, escalating through more aggressive repairs on failure.
// The result is the usual encoding/json dynamic shape: map[string]any,
// []any, string, float64, bool or nil. Parse is pure: identical input
// yields identical output.
func Parse(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Snippet: snippet(raw), Err: errors.New("empty input")}
	}

	text, ok := extractSpan(raw)
	if !ok {
		return nil, &ParseError{Snippet: snippet(raw), Err: errors.New("no JSON structure found")}
	}

	for _, pass := range cleanupPasses {
		text = pass.apply(text)
	}

	v, err := decode(text)
	if err == nil {
		return v, nil
	}

	// Stage 2: drop non-printable characters.
	text = nonPrintableRe.ReplaceAllString(text, "")
	if v, err = decode(text); err == nil {
		return v, nil
	}

	// Stage 3: truncate anything after the last closing bracket.
	text = truncateAfterLastCloser(text)
	if v, err = decode(text); err == nil {
		return v, nil
	}

	// Last resort: decode the first balanced single-level object fragment.
	if frag := objectFragmentRe.FindString(text); frag != "" {
		if v, fragErr := decode(frag); fragErr == nil {
			return v, nil
		}
	}

	return nil, &ParseError{Snippet: snippet(raw), Err: err}
}

// extractSpan locates the first top-level bracketed span, preferring an
// object over an array.
func extractSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		start = strings.Index(raw, "[")
		end = strings.LastIndex(raw, "]")
	}
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func flattenWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

func separateGluedContainers(s string) string {
	s = gluedObjectsRe.ReplaceAllString(s, "}, {")
	return gluedArraysRe.ReplaceAllString(s, "], [")
}

func insertMissingCommas(s string) string {
	return missingCommaRe.ReplaceAllString(s, `${1}, "${2}":`)
}

func insertMissingColons(s string) string {
	return missingColonRe.ReplaceAllString(s, `"${1}": "`)
}

func truncateAfterLastCloser(s string) string {
	if i := strings.LastIndex(s, "}"); i != -1 {
		return s[:i+1]
	}
	if i := strings.LastIndex(s, "]"); i != -1 {
		return s[:i+1]
	}
	return s
}

func decode(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func snippet(raw string) string {
	if len(raw) > snippetLimit {
		return raw[:snippetLimit]
	}
	return raw
}
