package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"ADDR", "AUTH_MODE", "AUTH_SESSION_TTL", "AUTH_DATABASE_DSN", "AUTH_LOCAL_DATABASE_PATH",
	"CARDS_MODE", "CARDS_DATABASE_DSN", "CARDS_LOCAL_DATABASE_PATH",
	"LEDGER_MODE", "LEDGER_LOCAL_DATABASE_PATH", "DATABASE_URL", "LOCAL_DATABASE_PATH",
	"WAR_MAX_ROUNDS", "WAR_FACE_DOWN",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.AuthMode != ModeMemory || cfg.CardsMode != ModeMemory || cfg.LedgerMode != ModeMemory {
		t.Fatalf("expected memory modes, got auth=%s cards=%s ledger=%s", cfg.AuthMode, cfg.CardsMode, cfg.LedgerMode)
	}
	if cfg.AuthSessionTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", cfg.AuthSessionTTL)
	}
	if cfg.WarMaxRounds != 10000 || cfg.WarFaceDown != 3 {
		t.Fatalf("unexpected war defaults: rounds=%d face_down=%d", cfg.WarMaxRounds, cfg.WarFaceDown)
	}
}

func TestLoadSharedFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("CARDS_MODE", "PostgreSQL")
	t.Setenv("DATABASE_URL", "postgres://example/war")
	t.Setenv("LOCAL_DATABASE_PATH", "/tmp/war.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CardsMode != ModePostgres {
		t.Fatalf("expected postgres cards mode, got %s", cfg.CardsMode)
	}
	if cfg.CardsDSN != "postgres://example/war" {
		t.Fatalf("expected DATABASE_URL fallback, got %q", cfg.CardsDSN)
	}
	if cfg.LedgerLocalDBPath != "/tmp/war.db" {
		t.Fatalf("expected LOCAL_DATABASE_PATH fallback, got %q", cfg.LedgerLocalDBPath)
	}
}

func TestNormalizeMode(t *testing.T) {
	cases := []struct {
		raw      string
		allowOff bool
		want     string
		wantErr  bool
	}{
		{"", false, ModeMemory, false},
		{"mem", false, ModeMemory, false},
		{"SQLite", false, ModeSQLite, false},
		{"db", false, ModePostgres, false},
		{"off", true, ModeOff, false},
		{"off", false, "", true},
		{"redis", false, "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeMode("TEST_MODE", tc.raw, tc.allowOff)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeMode(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("NormalizeMode(%q) = %q, %v; want %q", tc.raw, got, err, tc.want)
		}
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "ldap")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid AUTH_MODE to fail")
	}
}

func TestLoadRejectsZeroFaceDown(t *testing.T) {
	clearEnv(t)
	t.Setenv("WAR_FACE_DOWN", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected WAR_FACE_DOWN=0 to fail")
	}
}

func TestLoadRejectsPostgresLedger(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_MODE", "postgres")
	_, err := Load()
	if err == nil {
		t.Fatalf("expected LEDGER_MODE=postgres to fail")
	}
	if !strings.Contains(err.Error(), "LEDGER_MODE") {
		t.Fatalf("expected error to name LEDGER_MODE, got %v", err)
	}
}
