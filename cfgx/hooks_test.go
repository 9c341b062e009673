package cfgx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-tarkash/cfgx"
	"github.com/goliatone/go-tarkash/logger"
)

func TestDurationHook(t *testing.T) {
	type Config struct {
		Timeout time.Duration `koanf:"TIMEOUT"`
	}

	cfg, err := cfgx.Build[Config](map[string]any{"TIMEOUT": "3s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", cfg.Timeout)
	}

	_, err = cfgx.Build[Config](map[string]any{"TIMEOUT": "3s"},
		cfgx.WithoutDefaultHooks[Config](),
		cfgx.WithWeakTyping[Config](false),
	)
	if err == nil {
		t.Fatal("expected decode error without duration hook")
	}
}

type upperString string

func (u *upperString) UnmarshalText(text []byte) error {
	*u = upperString(strings.ToUpper(string(text)))
	return nil
}

func TestTextUnmarshalerHook(t *testing.T) {
	type Config struct {
		Value upperString `koanf:"VALUE"`
	}

	cfg, err := cfgx.Build[Config](map[string]any{"VALUE": "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Value != upperString("HELLO") {
		t.Fatalf("expected HELLO, got %s", cfg.Value)
	}
}

func TestLogLevelDecode(t *testing.T) {
	type Config struct {
		Console logger.Level `koanf:"LOG_CONSOLE_LEVEL"`
		File    logger.Level `koanf:"LOG_FILE_LEVEL"`
	}

	cfg, err := cfgx.Build[Config](map[string]any{
		"LOG_CONSOLE_LEVEL": "warning",
		"LOG_FILE_LEVEL":    "DEBUG",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Console != logger.LevelWarn || cfg.File != logger.LevelDebug {
		t.Fatalf("unexpected levels: %v %v", cfg.Console, cfg.File)
	}

	if _, err := cfgx.Build[Config](map[string]any{"LOG_FILE_LEVEL": "LOUD"}); err == nil {
		t.Fatal("expected unknown level to fail")
	}
}
