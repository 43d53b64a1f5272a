package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(provider.Config{
		APIKey:      "sk-test",
		Model:       "google/gemini-2.0-flash-001",
		BaseURL:     server.URL,
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	})
}

func TestClient_Generate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "google/gemini-2.0-flash-001", body.Model)
		assert.Equal(t, 2048, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)

		_, _ = w.Write([]byte(`{
			"id": "gen-1",
			"choices": [{"message": {"role": "assistant", "content": "{\"receptoPavadinimas\":\"X\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
		}`))
	})

	resp, err := client.Generate(context.Background(), provider.NewPromptRequest("Sukurk receptą"))
	require.NoError(t, err)
	assert.Equal(t, `{"receptoPavadinimas":"X"}`, resp.Content)
	assert.Equal(t, 20, resp.Usage.TotalTokens)
	assert.Equal(t, Name, client.Name())
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   provider.ErrorKind
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit exceeded","code":429}}`,
			want:   provider.ErrorKindOverloaded,
		},
		{
			name:   "upstream error in 200 body",
			status: http.StatusOK,
			body:   `{"error":{"message":"Provider returned error","code":502}}`,
			want:   provider.ErrorKindInternal,
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id":"gen-2","choices":[]}`,
			want:   provider.ErrorKindInvalidResponse,
		},
		{
			name:   "empty content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"role":"assistant","content":""}}]}`,
			want:   provider.ErrorKindInvalidResponse,
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"No auth credentials found","code":401}}`,
			want:   provider.ErrorKindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), provider.NewPromptRequest("x"))
			require.Error(t, err)
			assert.Equal(t, tt.want, provider.KindOf(err))
		})
	}
}
