package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

type fakeRuntime struct {
	body    []byte
	err     error
	payload map[string]interface{}
	modelID string
}

func (f *fakeRuntime) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.modelID = *params.ModelId
	if err := json.Unmarshal(params.Body, &f.payload); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestBedrockClient_ModelFamilies(t *testing.T) {
	tests := []struct {
		name       string
		modelID    string
		body       string
		payloadKey string
		expected   string
	}{
		{
			name:       "claude messages",
			modelID:    "anthropic.claude-3-haiku-20240307-v1:0",
			body:       `{"content":[{"type":"text","text":"SUMMARY: a"},{"type":"text","text":"\nINTENT: Spam/Low Priority"}]}`,
			payloadKey: "messages",
			expected:   "SUMMARY: a\nINTENT: Spam/Low Priority",
		},
		{
			name:       "claude text completion",
			modelID:    "anthropic.claude-v2",
			body:       `{"completion":" SUMMARY: b "}`,
			payloadKey: "max_tokens_to_sample",
			expected:   "SUMMARY: b",
		},
		{
			name:       "titan",
			modelID:    "amazon.titan-text-express-v1",
			body:       `{"results":[{"outputText":"SUMMARY: c"}]}`,
			payloadKey: "textGenerationConfig",
			expected:   "SUMMARY: c",
		},
		{
			name:       "generic",
			modelID:    "meta.llama3-8b-instruct-v1:0",
			body:       `{"text":"SUMMARY: d"}`,
			payloadKey: "max_tokens",
			expected:   "SUMMARY: d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime := &fakeRuntime{body: []byte(tt.body)}
			client := NewBedrockClient(runtime, tt.modelID, 300, 0.2, 0.9, zap.NewNop())

			text, err := client.Complete(context.Background(), "triage this")
			if err != nil {
				t.Fatalf("Complete() error = %v", err)
			}
			if text != tt.expected {
				t.Errorf("text = %q, want %q", text, tt.expected)
			}
			if _, ok := runtime.payload[tt.payloadKey]; !ok {
				t.Errorf("payload missing %q: %v", tt.payloadKey, runtime.payload)
			}
			if runtime.modelID != tt.modelID {
				t.Errorf("model id = %s", runtime.modelID)
			}
		})
	}
}

func TestBedrockClient_Errors(t *testing.T) {
	transport := &fakeRuntime{err: errors.New("throttled")}
	client := NewBedrockClient(transport, "anthropic.claude-v2", 100, 0, 1, zap.NewNop())
	if _, err := client.Complete(context.Background(), "x"); err == nil {
		t.Error("expected transport error")
	}

	empty := &fakeRuntime{body: []byte(`{"results":[]}`)}
	client = NewBedrockClient(empty, "amazon.titan-text-lite-v1", 100, 0, 1, zap.NewNop())
	if _, err := client.Complete(context.Background(), "x"); !errors.Is(err, core.ErrEmptyResponse) {
		t.Errorf("expected empty response error, got %v", err)
	}
}
