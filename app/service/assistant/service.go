package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"meetassist/app/config"
	"meetassist/app/service/suggestion"
	"meetassist/app/service/summary"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type Summarizer interface {
	Summarize(ctx context.Context, text, language string) (summary.Result, error)
}

type Suggester interface {
	Suggest(ctx context.Context, p suggestion.Params) (string, error)
}

type Limits struct {
	MaxTextLength   int
	MaxCustomLength int
}

type Service struct {
	summarizer Summarizer
	suggester  Suggester
	limits     Limits
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		do.MustInvoke[*summary.Service](di),
		do.MustInvoke[*suggestion.Service](di),
		Limits{
			MaxTextLength:   cfg.Limits.MaxTextLength,
			MaxCustomLength: cfg.Limits.MaxCustomLength,
		},
	), nil
}

func NewService(summarizer Summarizer, suggester Suggester, limits Limits) *Service {
	return &Service{
		summarizer: summarizer,
		suggester:  suggester,
		limits:     limits,
	}
}

// Validate trims the transcript, checks its length and truncates the custom
// format. Lengths are counted in characters.
func (s *Service) Validate(req Request) (Request, error) {
	req.Text = strings.TrimSpace(req.Text)

	if req.Text == "" {
		return req, &ValidationError{Field: "text", Message: "missing parameter: text"}
	}

	if utf8.RuneCountInString(req.Text) > s.limits.MaxTextLength {
		return req, &ValidationError{Field: "text", Message: "text too long"}
	}

	req.CustomFormat = truncate(req.CustomFormat, s.limits.MaxCustomLength)

	return req, nil
}

// Run validates req and generates the summary and the suggestion
// concurrently. The first failure cancels the other call and no partial
// result is returned.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	req, err := s.Validate(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		summaryResult summary.Result
		suggestionTxt string
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		res, err := s.summarizer.Summarize(groupCtx, req.Text, "")
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		summaryResult = res
		return nil
	})

	group.Go(func() error {
		res, err := s.suggester.Suggest(groupCtx, suggestion.Params{
			Text:         req.Text,
			Role:         req.Role,
			Context:      req.Context,
			Focus:        req.Focus,
			CustomFormat: req.CustomFormat,
		})
		if err != nil {
			return fmt.Errorf("suggest: %w", err)
		}
		suggestionTxt = res
		return nil
	})

	if err = group.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Generated summary and suggestion",
		"text_length", utf8.RuneCountInString(req.Text),
		"sections", summaryResult.Len(),
		"duration", time.Since(start),
	)

	return &Result{
		Summary:    summaryResult,
		Suggestion: suggestionTxt,
	}, nil
}

func truncate(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
