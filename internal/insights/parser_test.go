package insights

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
  "insights": [
    {
      "title": "Revenue up",
      "description": "Sales grew {fast}",
      "type": "positive",
      "metrics": [{"name": "Revenue", "value": 1200.5, "change": "+12%", "trend": "up"}],
      "tags": ["sales"]
    }
  ],
  "recommendations": [
    {
      "title": "Restock",
      "description": "Order more widgets",
      "priority": "high",
      "potentialImpact": "Avoid stock-outs",
      "implementation": "Call the supplier",
      "tags": ["inventory"]
    }
  ],
  "summary": "Healthy",
  "analysisDate": "2025-01-02T03:04:05Z"
}`

func TestParseResponseFencedBlock(t *testing.T) {
	text := "Here is the analysis:\n```json\n" + validPayload + "\n```\nLet me know {if} you need more."

	got, err := ParseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "Revenue up", got.Insights[0].Title)
	assert.Equal(t, json.Number("1200.5"), got.Insights[0].Metrics[0].Value)
	assertSameJSON(t, validPayload, got)
}

func TestParseResponseKeepsEmptyLists(t *testing.T) {
	payload := `{
  "insights": [
    {"title": "A", "description": "d", "type": "neutral", "metrics": [], "tags": []},
    {"title": "B", "description": "e", "type": "negative", "metrics": [{"name": "Stock", "value": 3, "change": null, "trend": ""}]}
  ],
  "recommendations": [
    {"title": "R", "description": "r", "priority": "low", "potentialImpact": "p", "implementation": "i", "tags": []}
  ],
  "summary": "s",
  "analysisDate": "2025-01-02T03:04:05Z"
}`

	got, err := ParseResponse("```json\n" + payload + "\n```")
	require.NoError(t, err)
	assertSameJSON(t, payload, got)
}

func TestBuiltInsightOmitsEmptyLists(t *testing.T) {
	out, err := json.Marshal(Insight{Title: "t", Description: "d", Type: "neutral"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","description":"d","type":"neutral"}`, string(out))
}

func assertSameJSON(t *testing.T, want string, got Response) {
	t.Helper()
	out, err := json.Marshal(got)
	require.NoError(t, err)

	var a, b any
	require.NoError(t, json.Unmarshal([]byte(want), &a))
	require.NoError(t, json.Unmarshal(out, &b))
	assert.Equal(t, a, b)
}

func TestParseResponseBareObject(t *testing.T) {
	got, err := ParseResponse("Sure! " + validPayload + " Hope that helps }")
	require.NoError(t, err)
	assert.Equal(t, "Healthy", got.Summary)
	assert.Equal(t, "Sales grew {fast}", got.Insights[0].Description)
}

func TestParseResponseMissingRecommendations(t *testing.T) {
	got, err := ParseResponse(`{"insights": [], "summary": "ok"}`)
	require.NoError(t, err)
	assert.NotNil(t, got.Recommendations)
	assert.Empty(t, got.Recommendations)
}

func TestParseResponseErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"no braces", "I cannot help with that.", ErrNoJSON},
		{"unterminated", `{"insights": [`, ErrMalformedJSON},
		{"trailing comma", "```json\n{\"insights\": [], \"summary\": \"x\",}\n```", ErrMalformedJSON},
		{"insights not array", `{"insights": {}, "summary": "x"}`, ErrSchemaMismatch},
		{"summary missing", `{"insights": []}`, ErrSchemaMismatch},
		{"recommendations wrong type", `{"insights": [], "summary": "x", "recommendations": "none"}`, ErrSchemaMismatch},
		{"wrong field type", `{"insights": [{"title": 5}], "summary": "x"}`, ErrSchemaMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseResponse(tc.text)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFallback(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	fb := Fallback(now)

	require.Len(t, fb.Insights, 1)
	assert.Equal(t, "Error Generating Insights", fb.Insights[0].Title)
	assert.Equal(t, "neutral", fb.Insights[0].Type)
	assert.Equal(t, []Recommendation{}, fb.Recommendations)
	assert.Equal(t, "Unable to analyze data at this time.", fb.Summary)
	assert.Equal(t, "2025-03-04T05:06:07Z", fb.AnalysisDate)

	raw, err := json.Marshal(fb)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"recommendations":[]`)
}
