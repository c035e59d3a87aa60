package suggestion

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

// Params frames the advice requested for a transcript.
type Params struct {
	Text         string
	Role         string
	Context      string
	Focus        string
	CustomFormat string
	Language     string
}

type Service struct {
	generator Generator
	language  string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(do.MustInvoke[*generation.Service](di), cfg.Language.Suggestion), nil
}

func NewService(generator Generator, language string) *Service {
	return &Service{
		generator: generator,
		language:  language,
	}
}

// BuildPrompt has the model act as Role, perform Context over the transcript
// and give advice in Language driven by Focus, formatted per CustomFormat.
func BuildPrompt(p Params) string {
	return fmt.Sprintf(
		"角色:%s ，任務: %s，逐字稿內容:%s，依據%s來生成%s建議 格式: %s",
		p.Role, p.Context, p.Text, p.Focus, p.Language, p.CustomFormat,
	)
}

func (s *Service) Suggest(ctx context.Context, p Params) (string, error) {
	if p.Language == "" {
		p.Language = s.language
	}

	raw, err := s.generator.Generate(ctx, BuildPrompt(p))
	if err != nil {
		return "", err
	}

	return bullet.StripEmphasis(raw), nil
}
