package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Point CONFIG_FILE at nothing so only defaults apply.
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("default port = %d", cfg.App.Port)
	}
	if cfg.Upload.MaxSizeBytes != 16<<20 {
		t.Fatalf("default upload limit = %d", cfg.Upload.MaxSizeBytes)
	}
	if cfg.RateLimit.MaxRequests != 100 || cfg.RateLimit.WindowSeconds != 3600 {
		t.Fatalf("default rate limit = %d/%ds", cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSeconds)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[app]
port = 9000

[llm]
model = "from-file"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 9000 {
		t.Fatalf("file value ignored, port = %d", cfg.App.Port)
	}
	if cfg.LLM.Model != "from-env" {
		t.Fatalf("env must win over file, model = %q", cfg.LLM.Model)
	}
	// Values absent from the file keep their defaults.
	if cfg.MySQL.Port != 3306 {
		t.Fatalf("mysql port = %d", cfg.MySQL.Port)
	}
}

func TestHTTPAddrAndDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Host = "127.0.0.1"
	cfg.App.Port = 8888

	if got := cfg.HTTPAddr(); got != "127.0.0.1:8888" {
		t.Fatalf("HTTPAddr() = %q", got)
	}

	cfg.MySQL = MySQLConfig{
		Host: "db", Port: 3306, User: "u", Password: "p", DB: "docs",
		Params: "parseTime=true",
	}
	want := "u:p@tcp(db:3306)/docs?parseTime=true"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("MySQLDSN() = %q, want %q", got, want)
	}
}
