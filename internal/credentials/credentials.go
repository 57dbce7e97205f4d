// Package credentials resolves the Telegram bot token according to the
// configured bot type.
package credentials

import (
	"fmt"
	"os"
	"strings"

	"chat-relay/internal/config"
)

type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a token passed directly through the environment.
type StaticToken string

func (s StaticToken) Token() (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty bot token")
	}
	return string(s), nil
}

// FileToken reads the token from a mounted secret on every call, so a
// rotated secret is picked up on the next restart of the poller.
type FileToken struct {
	Path string
}

func (f FileToken) Token() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", f.Path)
	}
	return tok, nil
}

func FromConfig(cfg *config.Config) (TokenSource, error) {
	switch cfg.BotType {
	case config.BotTypeToken:
		return StaticToken(cfg.TelegramBotToken), nil
	case config.BotTypeTokenFile:
		return FileToken{Path: cfg.TelegramTokenFile}, nil
	default:
		return nil, fmt.Errorf("unknown bot type: %q", cfg.BotType)
	}
}
