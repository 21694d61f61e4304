package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// FlowerClass is the structured enrichment extracted from a free-text
// product description.
type FlowerClass struct {
	FlowerType string `json:"flower_type"`
	Variety    string `json:"variety"`
	Color      string `json:"color"`
}

// Classifier enriches product descriptions that the column mapping could not
// type. Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, description string) (FlowerClass, error)
}

const classifySystemPrompt = `You classify cut-flower product descriptions from trade spreadsheets.
Given a description, respond with a JSON object with exactly these keys:
"flower_type" (e.g. ROSE, CARNATION, HYDRANGEA, POMPON, ALSTROEMERIA),
"variety" (the cultivar name if present, else ""),
"color" (the dominant color in English uppercase, else "").
Descriptions mix English and Spanish. Respond with JSON only.`

// OpenAIClassifier asks a chat model for the flower type, variety and color
// behind a description. Temperature is pinned to zero; the same cell must
// classify the same way on every run.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier returns nil when apiKey is empty: ingestion runs fine
// without enrichment and callers treat a nil Classifier as "disabled".
func NewOpenAIClassifier(apiKey string) *OpenAIClassifier {
	if apiKey == "" {
		return nil
	}
	return &OpenAIClassifier{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, description string) (FlowerClass, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   200,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: description},
		},
	})
	if err != nil {
		return FlowerClass{}, fmt.Errorf("classify %q: %w", description, err)
	}
	if len(resp.Choices) == 0 {
		return FlowerClass{}, fmt.Errorf("classify %q: empty response", description)
	}

	var fc FlowerClass
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &fc); err != nil {
		return FlowerClass{}, fmt.Errorf("classify %q: bad response: %w", description, err)
	}
	fc.FlowerType = strings.ToUpper(strings.TrimSpace(fc.FlowerType))
	fc.Variety = strings.TrimSpace(fc.Variety)
	fc.Color = strings.ToUpper(strings.TrimSpace(fc.Color))
	return fc, nil
}
