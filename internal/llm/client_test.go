package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig().WithAPIKey("sk-test")
	cfg.BaseURL = srv.URL
	client, err := NewAnthropicClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_WithoutKeyIsUnavailable(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultConfig())
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "prompt")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindUnavailable, perr.Kind)
	assert.Equal(t, "anthropic", client.Name())
	assert.NoError(t, client.Close())
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "openai", APIKey: "x"})
	assert.Error(t, err)
}

func TestAnthropicClient_Success(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
	}
	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "{\"salaryRange\": {\"min\": 1, \"max\": 3, \"median\": 2}}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 20}
		}`))
	})

	text, err := client.GenerateContent(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Contains(t, text, "salaryRange")
	assert.Equal(t, "claude-3-haiku-20240307", got.Model)
	assert.Equal(t, 2000, got.MaxTokens)
}

func TestAnthropicClient_StatusError(t *testing.T) {
	calls := 0
	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "boom"}}`))
	})

	_, err := client.GenerateContent(context.Background(), "prompt")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindStatus, perr.Kind)
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
	assert.Equal(t, 1, calls, "SDK retries must be disabled")
}

func TestAnthropicClient_TimeoutIsTransport(t *testing.T) {
	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.GenerateContent(ctx, "prompt")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindTransport, perr.Kind)
}

func TestProviderError_Message(t *testing.T) {
	err := statusError(ProviderGemini, 503, errors.New("overloaded"))
	assert.Equal(t, "gemini provider returned status 503: overloaded", err.Error())
	assert.Equal(t, "anthropic provider unavailable", (&ProviderError{Provider: ProviderAnthropic, Kind: KindUnavailable}).Error())
}
