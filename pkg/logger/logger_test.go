package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONWithService(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf, Service: "authgate"})

	authLog := Component("auth")
	authLog.Debug().Str("username", "alice").Msg("login")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "authgate" || entry["component"] != "auth" || entry["username"] != "alice" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})
	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	if parseLevel(" WARNING ") != parseLevel("warn") {
		t.Fatal("warning should alias warn")
	}
	if parseLevel("bogus") != parseLevel("info") {
		t.Fatal("unknown levels default to info")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	stored := zerolog.New(&buf).With().Str("request_id", "r-1").Logger()
	ctx := WithContext(context.Background(), stored)

	got := FromContext(ctx, zerolog.Nop())
	got.Info().Msg("hit")
	if !strings.Contains(buf.String(), `"request_id":"r-1"`) {
		t.Fatalf("expected stored logger to be used, got %q", buf.String())
	}

	buf.Reset()
	fallback := zerolog.New(&buf)
	got = FromContext(context.Background(), fallback)
	got.Info().Msg("fallback")
	if !strings.Contains(buf.String(), "fallback") {
		t.Fatalf("expected fallback logger, got %q", buf.String())
	}
}
