package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DSN", "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":4242" || cfg.Currency != "gbp" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.UsePostgres() {
		t.Fatalf("expected sqlite without DB_DSN")
	}
	if cfg.LoginDelay != 800*time.Millisecond {
		t.Fatalf("unexpected login delay %s", cfg.LoginDelay)
	}
}

func TestFromEnv_VisitorSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("VISITOR_SECRET", "")
	first, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	second, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !first.VisitorSecretGenerated || len(first.VisitorSecret) != 64 {
		t.Fatalf("expected generated 32-byte secret, got %+v", first)
	}
	if first.VisitorSecret == second.VisitorSecret {
		t.Fatalf("generated secrets must differ between loads")
	}

	t.Setenv("VISITOR_SECRET", "configured")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.VisitorSecret != "configured" || cfg.VisitorSecretGenerated {
		t.Fatalf("expected configured secret, got %+v", cfg)
	}
}

func TestFromEnv_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zizi.toml")
	body := `
http_addr = ":9000"
currency = "EUR"
allowed_origins = ["https://zizi.example"]
login_delay_ms = 5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":9100" {
		t.Fatalf("env should override file, got %s", cfg.HTTPAddr)
	}
	if cfg.Currency != "eur" {
		t.Fatalf("expected lowercased currency from file, got %s", cfg.Currency)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://zizi.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.LoginDelay != 5*time.Millisecond {
		t.Fatalf("unexpected login delay %s", cfg.LoginDelay)
	}
}

func TestFromEnv_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("http_addr = ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected parse error")
	}
}
