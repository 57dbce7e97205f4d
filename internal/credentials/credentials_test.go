package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"chat-relay/internal/config"
)

func TestFromConfig_Static(t *testing.T) {
	src, err := FromConfig(&config.Config{BotType: config.BotTypeToken, TelegramBotToken: "123:abc"})
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	tok, err := src.Token()
	if err != nil || tok != "123:abc" {
		t.Fatalf("unexpected token %q %v", tok, err)
	}
}

func TestFromConfig_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(p, []byte("456:def\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := FromConfig(&config.Config{BotType: config.BotTypeTokenFile, TelegramTokenFile: p})
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	tok, err := src.Token()
	if err != nil || tok != "456:def" {
		t.Fatalf("unexpected token %q %v", tok, err)
	}
}

func TestTokenErrors(t *testing.T) {
	if _, err := StaticToken("").Token(); err == nil {
		t.Fatalf("empty static token accepted")
	}
	if _, err := (FileToken{Path: filepath.Join(t.TempDir(), "missing")}).Token(); err == nil {
		t.Fatalf("missing token file accepted")
	}
	blank := filepath.Join(t.TempDir(), "blank")
	_ = os.WriteFile(blank, []byte("  \n"), 0o600)
	if _, err := (FileToken{Path: blank}).Token(); err == nil {
		t.Fatalf("blank token file accepted")
	}
	if _, err := FromConfig(&config.Config{BotType: "UserAssignedMsi"}); err == nil {
		t.Fatalf("unknown bot type accepted")
	}
}
