package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config.yaml"

	apiKeyEnv = "MEETASSIST_API_KEY"

	ProviderOpenAI    = "openai"
	ProviderLangChain = "langchain"
)

type Config struct {
	Log        Log        `yaml:"log"`
	HTTP       HTTP       `yaml:"http"`
	Generation Generation `yaml:"generation"`
	Limits     Limits     `yaml:"limits"`
	Language   Language   `yaml:"language"`
	History    History    `yaml:"history"`
	MCP        MCP        `yaml:"mcp"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type HTTP struct {
	// Address to listen on
	Listen string `yaml:"listen" example:":5000" validate:"required"`
}

type Generation struct {
	// Backend used to reach the model: openai or langchain
	Provider string `yaml:"provider" example:"openai" validate:"required,oneof=openai langchain"`
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://generativelanguage.googleapis.com/v1beta/openai/" validate:"required,url"`
	// API key, may be overridden with MEETASSIST_API_KEY
	APIKey string `yaml:"api_key" example:"AIzaSyA-abc123" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"gemini-2.5-flash-lite-preview-06-17" validate:"required"`
	// Per-attempt HTTP timeout
	Timeout time.Duration `yaml:"timeout" example:"60s" validate:"gt=0"`
	// Maximum attempts when the API reports resource exhaustion
	MaxAttempts int `yaml:"max_attempts" example:"3" validate:"min=1"`
	// Fixed pause between attempts
	Backoff time.Duration `yaml:"backoff" example:"5s" validate:"gte=0"`
}

type Limits struct {
	// Maximum transcript length in characters
	MaxTextLength int `yaml:"max_text_length" example:"20000" validate:"min=1"`
	// Custom format is truncated to this many characters
	MaxCustomLength int `yaml:"max_custom_length" example:"1000" validate:"min=0"`
}

type Language struct {
	Summary    string `yaml:"summary" example:"繁體中文" validate:"required"`
	Suggestion string `yaml:"suggestion" example:"繁體中文" validate:"required"`
}

type History struct {
	// Number of saved settings kept in memory
	Capacity int `yaml:"capacity" example:"10" validate:"min=1"`
}

type MCP struct {
	// Serve MCP tools over stdio alongside the HTTP server
	Enabled bool `yaml:"enabled" example:"false"`
}

// Default returns a config with every optional field populated.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Listen: ":5000",
		},
		Generation: Generation{
			Provider:    ProviderOpenAI,
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:       "gemini-2.5-flash-lite-preview-06-17",
			Timeout:     60 * time.Second,
			MaxAttempts: 3,
			Backoff:     5 * time.Second,
		},
		Limits: Limits{
			MaxTextLength:   20000,
			MaxCustomLength: 1000,
		},
		Language: Language{
			Summary:    "繁體中文",
			Suggestion: "繁體中文",
		},
		History: History{
			Capacity: 10,
		},
	}
}

func Load() (*Config, error) {
	return LoadFile(DefaultPath)
}

func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	result := Default()

	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if key := os.Getenv(apiKeyEnv); key != "" {
		result.Generation.APIKey = key
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
