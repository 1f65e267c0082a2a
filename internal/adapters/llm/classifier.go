// Package llm classifies review sentiment with a chat-completion model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"insightify/internal/adapters/observability"
)

const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You label the sentiment of Indonesian product reviews.
Answer with exactly one lowercase word: positive, neutral or negative.
No punctuation, no explanation.`

var ErrEmptyResponse = errors.New("llm: empty completion")

type Classifier struct {
	client *openai.Client
	model  string
}

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

func New(o Options) (*Classifier, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, errors.New("llm: api key is required")
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(o.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		option.WithMaxRetries(o.MaxRetries),
	}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(o.BaseURL, "/")+"/"))
	}
	return &Classifier{client: openai.NewClient(opts...), model: o.Model}, nil
}

func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		}),
		Model:       openai.F(openai.ChatModel(c.model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		observability.ObserveExternal("openai", "classify", statusOf(err), time.Since(start))
		return "", fmt.Errorf("llm: completion: %w", err)
	}
	observability.ObserveExternal("openai", "classify", http.StatusOK, time.Since(start))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return ParseAnswer(resp.Choices[0].Message.Content), nil
}

// Warmup sends one short completion.
func (c *Classifier) Warmup(ctx context.Context) error {
	_, err := c.Classify(ctx, "produk ini bagus")
	return err
}

// ParseAnswer reduces a free-form reply to a label word. Indonesian answers
// are accepted. Anything unrecognized is returned trimmed and lowercased.
func ParseAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, " \t\n.,!\"'`*")
	switch {
	case strings.HasPrefix(s, "positi"):
		return "positive"
	case strings.HasPrefix(s, "negati"):
		return "negative"
	case strings.HasPrefix(s, "neutral"), strings.HasPrefix(s, "netral"):
		return "neutral"
	}
	return s
}

func statusOf(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
