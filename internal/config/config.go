package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

// BotType selects how the Telegram bot token is acquired.
type BotType string

const (
	BotTypeToken     BotType = "token"
	BotTypeTokenFile BotType = "token_file"
)

type Config struct {
	// Credentials
	BotType           BotType `env:"BOT_TYPE" envDefault:"token"`
	TelegramBotToken  string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramTokenFile string  `env:"TELEGRAM_TOKEN_FILE"`
	ClientID          string  `env:"CLIENT_ID"`
	TenantID          string  `env:"TENANT_ID"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-5-nano"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	InstructionsPath string `env:"INSTRUCTIONS_PATH" envDefault:"instructions.txt"`

	// Storage
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`

	// HTTP (metrics, health)
	Port int `env:"PORT" envDefault:"3978"`

	// Streaming
	StreamEditInterval time.Duration `env:"STREAM_EDIT_INTERVAL" envDefault:"1s"`

	// Daily report
	ReportChatID   int64  `env:"REPORT_CHAT_ID"`
	ReportSchedule string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`
}

// Load parses the environment and checks that the selected provider and
// bot type have what they need.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.BotType {
	case BotTypeToken:
		if c.TelegramBotToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required for BOT_TYPE=%s", c.BotType)
		}
	case BotTypeTokenFile:
		if c.TelegramTokenFile == "" {
			return fmt.Errorf("TELEGRAM_TOKEN_FILE is required for BOT_TYPE=%s", c.BotType)
		}
	default:
		return fmt.Errorf("unknown BOT_TYPE: %q", c.BotType)
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return fmt.Errorf("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for LLM_PROVIDER=yandex")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER: %q", c.LLMProvider)
	}

	if c.StreamEditInterval <= 0 {
		return fmt.Errorf("STREAM_EDIT_INTERVAL must be positive, got %s", c.StreamEditInterval)
	}
	return nil
}

func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
