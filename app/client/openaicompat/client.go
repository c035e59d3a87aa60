// Package openaicompat talks to any OpenAI-compatible chat completions
// endpoint. The default configuration points it at Gemini's compatibility
// layer.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"meetassist/app/config"
	"meetassist/app/service/generation"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

var _ generation.Generator = (*Client)(nil)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.Generation), nil
}

func New(cfg config.Generation) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeoutOrDefault(cfg.Timeout),
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// GenerateContent makes a single chat completion request. Rate limit
// responses are marked with generation.ErrResourceExhausted.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (*generation.Response, error) {
	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", markRateLimit(err))
	}

	result := &generation.Response{
		Candidates: make([]generation.Candidate, 0, len(aiResponse.Choices)),
	}
	for _, choice := range aiResponse.Choices {
		var candidate generation.Candidate
		if choice.Message.Content != "" {
			candidate.Parts = []string{choice.Message.Content}
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	return result, nil
}

func markRateLimit(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", generation.ErrResourceExhausted, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", generation.ErrResourceExhausted, err)
	}

	return err
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
