package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var (
	ErrMissingAPIKey   = errors.New("anthropic api key is not configured")
	ErrEmptyCompletion = errors.New("completion has no text content")
)

// Completer sends one prompt to a language model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
	// BaseURL overrides the API endpoint. Empty means the public API.
	BaseURL    string
	MaxRetries int
}

type AnthropicCompleter struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func NewAnthropicCompleter(cfg AnthropicConfig) (*AnthropicCompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicCompleter{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return b.String(), nil
}

// failingCompleter stands in when no client could be built, so every request
// degrades to the fallback instead of the server refusing to start.
type failingCompleter struct{ err error }

func (f failingCompleter) Complete(context.Context, string, string) (string, error) {
	return "", f.err
}

// Unavailable returns a Completer whose every call fails with err.
func Unavailable(err error) Completer {
	return failingCompleter{err: err}
}
