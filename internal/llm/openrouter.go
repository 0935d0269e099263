package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterConfig configures the remote backend. SiteURL and SiteName are
// the site-identifying header pair OpenRouter expects on every request.
// A negative Temperature selects the backend default; zero means greedy
// sampling.
type OpenRouterConfig struct {
	APIKey      string
	Model       string
	SiteURL     string
	SiteName    string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int64
	Temperature float64
}

// OpenRouter generates answers through OpenRouter's OpenAI-compatible chat
// completions API.
type OpenRouter struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func NewOpenRouter(cfg OpenRouterConfig) *OpenRouter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1200
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = 0.15
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
		// Remote LLM calls are costly; failed questions are re-asked by
		// the client, not retried here.
		option.WithMaxRetries(0),
		option.WithHeader("HTTP-Referer", cfg.SiteURL),
		option.WithHeader("X-Title", cfg.SiteName),
	)

	return &OpenRouter{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (g *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(g.maxTokens),
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openrouter: %v", ErrGenerationUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openrouter returned no choices", ErrGenerationUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
