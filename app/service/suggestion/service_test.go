package suggestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Params{
		Text:         "客戶抱怨交期",
		Role:         "業務經理",
		Context:      "客戶會議",
		Focus:        "風險",
		CustomFormat: "三點以內",
		Language:     "繁體中文",
	})

	require.Equal(t,
		"角色:業務經理 ，任務: 客戶會議，逐字稿內容:客戶抱怨交期，依據風險來生成繁體中文建議 格式: 三點以內",
		prompt,
	)
}

func TestSuggest_NormalizesOutput(t *testing.T) {
	gen := &fakeGenerator{reply: "\n**建議一**：先道歉\n- 建議二：*確認*交期\n"}
	svc := NewService(gen, "繁體中文")

	out, err := svc.Suggest(context.Background(), Params{Text: "t", Role: "r"})
	require.NoError(t, err)
	require.Equal(t, "建議一：先道歉\n- 建議二：確認交期", out)

	require.Len(t, gen.prompts, 1)
	require.Contains(t, gen.prompts[0], "來生成繁體中文建議")
}

func TestSuggest_PropagatesError(t *testing.T) {
	cause := errors.New("quota")
	svc := NewService(&fakeGenerator{err: cause}, "繁體中文")

	out, err := svc.Suggest(context.Background(), Params{Text: "t"})
	require.Same(t, cause, err)
	require.Empty(t, out)
}
