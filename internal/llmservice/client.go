package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-rag/internal/config"
	"pdf-rag/internal/errs"
)

// Client calls the external language-model service with deterministic
// decoding (temperature 0).
type Client struct {
	llm llms.Model
}

func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	log.Debug().
		Str("provider", llmConfig.Provider).
		Str("base_url", llmConfig.BaseURL).
		Str("model", llmConfig.Model).
		Msg("Initializing LLM client")

	var llm llms.Model
	switch llmConfig.Provider {
	case "openai":
		m, err := openai.New(
			openai.WithBaseURL(llmConfig.BaseURL),
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: initializing openai client: %v", errs.ErrGenerationService, err)
		}
		llm = m
	case "ollama":
		m, err := ollama.New(
			ollama.WithServerURL(llmConfig.BaseURL),
			ollama.WithModel(llmConfig.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: initializing ollama client: %v", errs.ErrGenerationService, err)
		}
		llm = m
	default:
		return nil, fmt.Errorf("%w: unknown inference provider %q", errs.ErrConfiguration, llmConfig.Provider)
	}
	return &Client{llm: llm}, nil
}

// Generate sends the prompt and returns the completion text unmodified.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("%w: generating completion: %v", errs.ErrGenerationService, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", errs.ErrGenerationService)
	}
	return res.Choices[0].Content, nil
}
