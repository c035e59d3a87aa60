package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"meetassist/app/config"
	"meetassist/app/util/metrics"

	"github.com/samber/do"
)

// SleepFunc pauses between attempts. It returns early with ctx's error when
// ctx is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Service struct {
	generator   Generator
	maxAttempts int
	backoff     time.Duration
	sleep       SleepFunc
}

type Option func(*Service)

func WithSleep(sleep SleepFunc) Option {
	return func(s *Service) {
		s.sleep = sleep
	}
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	generator := do.MustInvoke[Generator](di)

	return NewService(generator, cfg.Generation.MaxAttempts, cfg.Generation.Backoff), nil
}

func NewService(generator Generator, maxAttempts int, backoff time.Duration, opts ...Option) *Service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	s := &Service{
		generator:   generator,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Generate sends prompt to the model and returns the trimmed text of the
// first candidate. Resource exhaustion is retried after a fixed backoff; any
// other failure is returned at once as *FatalError.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		text, err := s.attempt(ctx, prompt)
		if err == nil {
			metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
			return text, nil
		}

		if Classify(err) == KindFatal {
			metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeFatal).Inc()
			slog.ErrorContext(ctx, "Generation failed",
				"attempt", attempt,
				"error", err,
			)
			return "", &FatalError{Err: err}
		}

		metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeTransient).Inc()
		lastErr = err

		if attempt == s.maxAttempts {
			break
		}

		slog.WarnContext(ctx, "Generation rate limited, retrying",
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"backoff", s.backoff,
			"error", err,
		)

		if err = s.sleep(ctx, s.backoff); err != nil {
			return "", &FatalError{Err: fmt.Errorf("backoff interrupted: %w", err)}
		}
	}

	metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeExhausted).Inc()
	slog.ErrorContext(ctx, "Generation retries exhausted",
		"attempts", s.maxAttempts,
		"error", lastErr,
		"telegram", true,
	)

	return "", &RetryExhaustedError{Attempts: s.maxAttempts, Last: lastErr}
}

func (s *Service) attempt(ctx context.Context, prompt string) (string, error) {
	resp, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	return firstText(resp)
}

func firstText(resp *Response) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	parts := resp.Candidates[0].Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no text parts", ErrMalformedResponse)
	}

	return strings.TrimSpace(parts[0]), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
