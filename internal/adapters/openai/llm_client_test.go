package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return NewOpenAIClient(openai.NewClientWithConfig(cfg), "gpt-test", 200, 0.3, 1.0, zap.NewNop())
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-test",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  SUMMARY: hello\nINTENT: Spam/Low Priority  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	text, err := client.Complete(context.Background(), "classify me")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "SUMMARY: hello\nINTENT: Spam/Low Priority" {
		t.Errorf("text = %q", text)
	}

	if got.Model != "gpt-test" || got.MaxTokens != 200 {
		t.Errorf("request model/max tokens = %s/%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Content != core.SystemPrompt || got.Messages[1].Content != "classify me" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	failing := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	})
	if _, err := failing.Complete(context.Background(), "x"); err == nil {
		t.Error("expected error for 503")
	}

	empty := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
	})
	_, err := empty.Complete(context.Background(), "x")
	if !errors.Is(err, core.ErrEmptyResponse) {
		t.Errorf("expected empty response error, got %v", err)
	}
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	if _, err := NewFactory(cfg, zap.NewNop()).CreateLLMClient(); err == nil {
		t.Error("expected error without API key")
	}

	v := config.NewEmptyViper()
	v.Set("openai.api_key", "sk-test")
	v.Set("openai.model_name", "gpt-4o-mini")
	client, err := NewFactory(config.NewFromViper(v), zap.NewNop()).CreateLLMClient()
	if err != nil {
		t.Fatalf("CreateLLMClient() error = %v", err)
	}
	if client.ModelName() != "gpt-4o-mini" {
		t.Errorf("model = %s", client.ModelName())
	}
}
