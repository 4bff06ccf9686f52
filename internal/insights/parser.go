package insights

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrNoJSON         = errors.New("no JSON object in completion")
	ErrMalformedJSON  = errors.New("malformed JSON in completion")
	ErrSchemaMismatch = errors.New("completion JSON does not match the insight schema")
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// ParseResponse pulls the insight object out of free-form completion text.
// A fenced json block wins over a bare object.
func ParseResponse(text string) (Response, error) {
	candidate, ok := extractJSON(text)
	if !ok {
		return Response{}, ErrNoJSON
	}
	if !gjson.Valid(candidate) {
		return Response{}, ErrMalformedJSON
	}

	doc := gjson.Parse(candidate)
	if !doc.IsObject() {
		return Response{}, fmt.Errorf("%w: top level is not an object", ErrSchemaMismatch)
	}
	if v := doc.Get("insights"); !v.IsArray() {
		return Response{}, fmt.Errorf("%w: insights must be an array", ErrSchemaMismatch)
	}
	if v := doc.Get("summary"); v.Type != gjson.String {
		return Response{}, fmt.Errorf("%w: summary must be a string", ErrSchemaMismatch)
	}
	if v := doc.Get("recommendations"); v.Exists() && !v.IsArray() {
		return Response{}, fmt.Errorf("%w: recommendations must be an array", ErrSchemaMismatch)
	}

	var resp Response
	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []Recommendation{}
	}
	return resp, nil
}

func extractJSON(text string) (string, bool) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return firstObject(text)
}

// firstObject returns the first balanced {...} span, ignoring braces inside strings.
// An opening brace that is never closed yields everything after it, which fails validation.
func firstObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start < 0 {
			if c == '{' {
				start, depth = i, 1
			}
			continue
		}
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	if start >= 0 {
		return text[start:], true
	}
	return "", false
}

const (
	fallbackTitle       = "Error Generating Insights"
	fallbackDescription = "There was an error processing your data. Please try again later."
	fallbackSummary     = "Unable to analyze data at this time."
)

// Fallback is served whenever the completion cannot be obtained or understood.
func Fallback(now time.Time) Response {
	return Response{
		Insights: []Insight{{
			Title:       fallbackTitle,
			Description: fallbackDescription,
			Type:        "neutral",
		}},
		Recommendations: []Recommendation{},
		Summary:         fallbackSummary,
		AnalysisDate:    now.UTC().Format(time.RFC3339),
	}
}
