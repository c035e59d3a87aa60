package summary

import (
	"context"
	"fmt"

	"meetassist/app/config"
	"meetassist/app/service/bullet"
	"meetassist/app/service/generation"

	"github.com/samber/do"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	generator Generator
	language  string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(do.MustInvoke[*generation.Service](di), cfg.Language.Summary), nil
}

func NewService(generator Generator, language string) *Service {
	return &Service{
		generator: generator,
		language:  language,
	}
}

// BuildPrompt asks for a bulleted summary of the main points of text,
// written in language, without introduction or conclusion.
func BuildPrompt(text, language string) string {
	return fmt.Sprintf(
		"任務: 依據整段逐字稿內容，列點摘要其主要重點，不需開場與結語。摘要方式: %s 列點。逐字稿內容:%s",
		language, text,
	)
}

// Summarize uses the configured language when language is empty. Generation
// errors are returned as is.
func (s *Service) Summarize(ctx context.Context, text, language string) (Result, error) {
	if language == "" {
		language = s.language
	}

	raw, err := s.generator.Generate(ctx, BuildPrompt(text, language))
	if err != nil {
		return Result{}, err
	}

	var result Result
	result.Set(OverallKey, bullet.ExtractPoints(raw))

	return result, nil
}
