package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Fatalf("Backend = %q, want %q", cfg.Store.Backend, BackendSQLite)
	}
	if cfg.Profile.RetirementAge != 65 {
		t.Fatalf("RetirementAge = %d, want 65", cfg.Profile.RetirementAge)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.General.Currency = "BRL"
	cfg.Profile.DisplayName = "Ana"
	cfg.Store.Backend = BackendMongo
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.Currency != "BRL" || got.Profile.DisplayName != "Ana" || got.Store.Backend != BackendMongo {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\ncurrency = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"lowercase currency", func(c *Config) { c.General.Currency = "eur" }, false},
		{"unknown currency", func(c *Config) { c.General.Currency = "XXXX" }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"retirement not after current", func(c *Config) { c.Profile.RetirementAge = 30 }, true},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		err := Validate(cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSecretsPreferEnvironment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.JWTSecret = "from-file"
	cfg.Store.MongoURI = "mongodb://file"

	t.Setenv(EnvJWTSecret, "")
	if got := GetJWTSecret(cfg); got != "from-file" {
		t.Fatalf("GetJWTSecret = %q, want from-file", got)
	}

	t.Setenv(EnvJWTSecret, "from-env")
	t.Setenv(EnvMongoURI, "mongodb://env")
	if got := GetJWTSecret(cfg); got != "from-env" {
		t.Fatalf("GetJWTSecret = %q, want from-env", got)
	}
	if got := GetMongoURI(cfg); got != "mongodb://env" {
		t.Fatalf("GetMongoURI = %q, want mongodb://env", got)
	}
}

func TestDataPathOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Path = "/tmp/x.db"
	if got := DataPath(cfg); got != "/tmp/x.db" {
		t.Fatalf("DataPath = %q, want /tmp/x.db", got)
	}

	t.Setenv("XDG_DATA_HOME", "/data")
	cfg.Store.Path = ""
	if got := DataPath(cfg); got != filepath.Join("/data", "fintrack", "fintrack.db") {
		t.Fatalf("DataPath = %q", got)
	}
}
