package insights

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagesServer(t *testing.T, status int, reply string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestCompleter(t *testing.T, baseURL string) *AnthropicCompleter {
	t.Helper()
	c, err := NewAnthropicCompleter(AnthropicConfig{
		APIKey:      "test-key",
		Model:       "claude-test",
		MaxTokens:   3000,
		Temperature: 0.2,
		BaseURL:     baseURL + "/",
	})
	require.NoError(t, err)
	return c
}

func TestAnthropicCompleterSendsPrompt(t *testing.T) {
	srv, captured := messagesServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": "{\"insights\": [], "}, {"type": "text", "text": "\"summary\": \"ok\"}"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`)

	text, err := newTestCompleter(t, srv.URL).Complete(context.Background(), "be brief", "analyze this")
	require.NoError(t, err)
	assert.Equal(t, `{"insights": [], "summary": "ok"}`, text)

	body := *captured
	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 3000, body["max_tokens"])
	assert.InDelta(t, 0.2, body["temperature"], 1e-9)
	assert.Contains(t, mustJSON(t, body["system"]), "be brief")
	assert.Contains(t, mustJSON(t, body["messages"]), "analyze this")
}

func TestAnthropicCompleterEmptyContent(t *testing.T) {
	srv, _ := messagesServer(t, http.StatusOK, `{
		"id": "msg_2", "type": "message", "role": "assistant", "model": "claude-test",
		"content": [], "stop_reason": "end_turn",
		"usage": {"input_tokens": 1, "output_tokens": 0}
	}`)

	_, err := newTestCompleter(t, srv.URL).Complete(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAnthropicCompleterAPIError(t *testing.T) {
	srv, _ := messagesServer(t, http.StatusBadRequest,
		`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad model"}}`)

	_, err := newTestCompleter(t, srv.URL).Complete(context.Background(), "s", "p")
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
