package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"

	"document-relay/internal/codec"
	"document-relay/internal/config"
	"document-relay/internal/models"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var ErrEmptyResponse = errors.New("model returned an empty response")

// Editor applies free-form instructions to extracted file content.
type Editor interface {
	Edit(ctx context.Context, family codec.Family, content, instructions string) (string, error)
}

// NewModel creates the langchaingo model for the configured provider.
func NewModel(llmConfig *config.LLMConfig) (llms.Model, error) {
	log.Debug().Str("provider", llmConfig.Provider).Str("model", llmConfig.Model).Msg("Creating model")

	switch strings.ToLower(llmConfig.Provider) {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		return openai.New(opts...)
	case "googleai", "gemini":
		baseURL := llmConfig.BaseURL
		if baseURL == "" {
			baseURL = geminiBaseURL
		}
		return openai.New(
			openai.WithBaseURL(baseURL),
			openai.WithToken(llmConfig.Key),
			openai.WithModel(llmConfig.Model),
		)
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: googleai, openai, ollama)", llmConfig.Provider)
	}
}

// Client is the Editor backed by a langchaingo model.
type Client struct {
	llm         llms.Model
	limiter     *rate.Limiter
	temperature float64
	timeout     time.Duration
}

func NewClient(llm llms.Model, llmConfig *config.LLMConfig) *Client {
	c := &Client{
		llm:         llm,
		temperature: llmConfig.Temperature,
		timeout:     llmConfig.Timeout,
	}
	if llmConfig.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(llmConfig.RequestsPerSecond), 1)
	}
	return c
}

// New builds the model from config and wraps it in a Client.
func New(llmConfig *config.LLMConfig) (*Client, error) {
	llm, err := NewModel(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return NewClient(llm, llmConfig), nil
}

func (c *Client) Edit(ctx context.Context, family codec.Family, content, instructions string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(family, content, instructions)
	msgContent := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	log.Debug().Str("family", family.String()).Int("content_len", len(content)).Msg("Sending edit request")
	res, err := c.llm.GenerateContent(ctx, msgContent, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	edited := Normalize(res.Choices[0].Content)
	if strings.TrimSpace(edited) == "" {
		return "", ErrEmptyResponse
	}
	return edited, nil
}

// BuildPrompt fills the edit template for family.
func BuildPrompt(family codec.Family, content, instructions string) string {
	rules, ok := models.LayoutRules[family.String()]
	if !ok {
		rules = models.LayoutRules[codec.Text.String()]
	}
	return fmt.Sprintf(models.EditPromptTemplate, family.String(), instructions, rules, content)
}
