// Package generator drafts treasure hunt questions with an LLM. Drafts are
// admin-reviewed suggestions; nothing generated here reaches players directly.
package generator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/rs/zerolog/log"

	"github.com/treasure-hunt/backend/internal/models"
)

// LLMClient is the interface both client implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient with draft-specific prompting and parsing.
type Generator struct {
	llm   LLMClient
	model string
}

// New picks the client from configuration: a mock for local development,
// otherwise the Anthropic API with the configured model.
func New(model string, mock bool) *Generator {
	if mock {
		log.Info().Msg("question drafting using mock data")
		return &Generator{llm: NewMockClient(), model: "mock"}
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	log.Info().Str("model", model).Msg("question drafting using Anthropic API")
	return &Generator{llm: NewAPIClient(model), model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// DraftQuestion produces one editable draft for the given topic.
func (g *Generator) DraftQuestion(ctx context.Context, topic string, difficulty int) (*models.QuestionDraft, error) {
	resp, err := g.llm.Generate(ctx, SystemPrompt(), BuildUserPrompt(topic, difficulty))
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	draft, err := ParseDraft(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}
	if draft.Difficulty < 1 || draft.Difficulty > 5 {
		draft.Difficulty = difficulty
	}
	return draft, nil
}

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleep := time.Duration(1<<uint(attempt)) * time.Second
			log.Warn().Dur("backoff", sleep).Int("attempt", attempt+1).Msg("retrying Anthropic API call")
			time.Sleep(sleep)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("Anthropic API call failed")
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// MockClient returns a canned draft for local development.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content: `{
  "text": "I stand in the old town square, older than the clock above me. Travelers rub my nose for luck. What am I?",
  "hint": "Look for a statue near the fountain.",
  "answer": "the bronze dog",
  "difficulty": 3
}`,
		PromptTokens: 400,
		OutputTokens: 120,
	}, nil
}
