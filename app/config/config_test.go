package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	cfg, err := Parse([]byte(`
generation:
  api_key: secret
`))
	require.NoError(t, err)

	require.Equal(t, ":5000", cfg.HTTP.Listen)
	require.Equal(t, ProviderOpenAI, cfg.Generation.Provider)
	require.Equal(t, 3, cfg.Generation.MaxAttempts)
	require.Equal(t, 5*time.Second, cfg.Generation.Backoff)
	require.Equal(t, 20000, cfg.Limits.MaxTextLength)
	require.Equal(t, 1000, cfg.Limits.MaxCustomLength)
	require.Equal(t, "繁體中文", cfg.Language.Summary)
	require.Equal(t, 10, cfg.History.Capacity)
	require.False(t, cfg.MCP.Enabled)
}

func TestParse_OverridesFromYAML(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	cfg, err := Parse([]byte(`
http:
  listen: 127.0.0.1:8080
generation:
  provider: langchain
  base_url: http://localhost:11434/v1
  api_key: secret
  model: llama3
  max_attempts: 5
  backoff: 250ms
limits:
  max_text_length: 100
  max_custom_length: 10
language:
  summary: English
  suggestion: English
`))
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8080", cfg.HTTP.Listen)
	require.Equal(t, ProviderLangChain, cfg.Generation.Provider)
	require.Equal(t, "llama3", cfg.Generation.Model)
	require.Equal(t, 5, cfg.Generation.MaxAttempts)
	require.Equal(t, 250*time.Millisecond, cfg.Generation.Backoff)
	require.Equal(t, 100, cfg.Limits.MaxTextLength)
	require.Equal(t, "English", cfg.Language.Suggestion)
}

func TestParse_APIKeyFromEnv(t *testing.T) {
	t.Setenv(apiKeyEnv, "from-env")

	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Generation.APIKey)
}

func TestParse_ValidationFailures(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	cases := map[string]string{
		"missing api key":  `{}`,
		"unknown provider": "generation:\n  api_key: k\n  provider: gemini\n",
		"zero attempts":    "generation:\n  api_key: k\n  max_attempts: 0\n",
		"bad yaml":         "generation: [",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
		})
	}
}
