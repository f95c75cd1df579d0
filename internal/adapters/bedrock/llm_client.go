package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// InvokeModelAPI is the subset of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient is an implementation of the LLMClient interface using Amazon Bedrock
type BedrockClient struct {
	client      InvokeModelAPI
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// ModelName returns the Bedrock model ID
func (c *BedrockClient) ModelName() string {
	return c.modelID
}

// Complete invokes the model with a payload shaped for its family and
// extracts the generated text
func (c *BedrockClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := c.buildPayload(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := c.extractText(resp.Body)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Bedrock completion received",
		zap.String("model_id", c.modelID),
		zap.Int("response_bytes", len(resp.Body)))

	return strings.TrimSpace(text), nil
}

func (c *BedrockClient) buildPayload(prompt string) ([]byte, error) {
	switch {
	case c.isAnthropicMessagesModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"system":            core.SystemPrompt,
			"max_tokens":        c.maxTokens,
			"temperature":       c.temperature,
			"top_p":             c.topP,
			"messages": []map[string]interface{}{
				{"role": "user", "content": prompt},
			},
		})
	case c.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\n%s\n\nAssistant:", core.SystemPrompt, prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case c.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": core.SystemPrompt + "\n\n" + prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      core.SystemPrompt + "\n\n" + prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
}

func (c *BedrockClient) extractText(body []byte) (string, error) {
	switch {
	case c.isAnthropicMessagesModel():
		var resp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude messages response: %w", err)
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	case c.isAnthropicModel():
		var resp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return resp.Completion, nil
	case c.isAmazonTitanModel():
		var resp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", fmt.Errorf("no results in Titan response: %w", core.ErrEmptyResponse)
		}
		return resp.Results[0].OutputText, nil
	default:
		var resp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case resp.Output != "":
			return resp.Output, nil
		case resp.Text != "":
			return resp.Text, nil
		case resp.Response != "":
			return resp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAnthropicMessagesModel checks for Claude 3 and later, which only accept
// the messages API
func (c *BedrockClient) isAnthropicMessagesModel() bool {
	return c.isAnthropicModel() && !strings.HasPrefix(c.modelID, "anthropic.claude-v") &&
		!strings.HasPrefix(c.modelID, "anthropic.claude-instant")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
