// Package langchain reaches the model through langchaingo's OpenAI-compatible
// LLM, as an alternative to the plain go-openai client.
package langchain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meetassist/app/config"
	"meetassist/app/service/generation"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

var _ generation.Generator = (*Client)(nil)

type Client struct {
	model llms.Model
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.Generation)
}

func New(cfg config.Generation) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	llm, err := lcopenai.New(
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithBaseURL(cfg.BaseURL),
		lcopenai.WithModel(cfg.Model),
		lcopenai.WithHTTPClient(&http.Client{Timeout: timeout}),
		lcopenai.WithCallback(LogCallbackHandler{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain model: %w", err)
	}

	return NewWithModel(llm), nil
}

func NewWithModel(model llms.Model) *Client {
	return &Client{model: model}
}

func (c *Client) GenerateContent(ctx context.Context, prompt string) (*generation.Response, error) {
	res, err := c.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", markRateLimit(err))
	}

	result := &generation.Response{
		Candidates: make([]generation.Candidate, 0, len(res.Choices)),
	}
	for _, choice := range res.Choices {
		var candidate generation.Candidate
		if choice != nil && choice.Content != "" {
			candidate.Parts = []string{choice.Content}
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	return result, nil
}

// langchaingo reports upstream failures as plain text, so the status code has
// to be read from the message.
func markRateLimit(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "status code: 429") || strings.Contains(msg, "rate limit") {
		return fmt.Errorf("%w: %w", generation.ErrResourceExhausted, err)
	}
	return err
}
