package oracle

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultBaseURL = "http://localhost:11434/v1/"
	DefaultModel   = "mistral"

	// Unknown is what Answer returns when the oracle could not be asked.
	Unknown = "unknown"
)

var (
	ErrNoChoices    = errors.New("no choices in response")
	ErrEmptyContent = errors.New("empty message content")
)

type Config struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// Client classifies prompts with any OpenAI compatible chat completions
// endpoint. The default points at a local Ollama server.
type Client struct {
	api   openai.Client
	model string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIKey == "" {
		// Ollama ignores the key but the SDK insists on one.
		cfg.APIKey = "ollama"
	}

	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		api:   openai.NewClient(opts...),
		model: cfg.Model,
	}
}

func (c *Client) Model() string { return c.model }

// Classify sends a single user message and returns the first non-empty line
// of the reply.
func (c *Client) Classify(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := firstLine(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyContent
	}

	log.Debug("Oracle replied", "model", c.model, "content", content)
	return content, nil
}

type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Answer never fails: any error is logged and reported as Unknown.
func Answer(ctx context.Context, c Classifier, prompt string) string {
	out, err := c.Classify(ctx, prompt)
	if err != nil {
		log.Error("Error querying oracle", "err", err)
		return Unknown
	}
	return out
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
