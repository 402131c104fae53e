package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

// Config holds all fintrack configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Profile    ProfileConfig    `toml:"profile"`
	Store      StoreConfig      `toml:"store"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency string `toml:"currency"`
}

// ProfileConfig describes the local user. UserID is the snapshot key.
type ProfileConfig struct {
	UserID        string `toml:"user_id"`
	DisplayName   string `toml:"display_name,omitempty"`
	Email         string `toml:"email,omitempty"`
	RiskProfile   string `toml:"risk_profile"`
	CurrentAge    int    `toml:"current_age"`
	RetirementAge int    `toml:"retirement_age"`
}

// StoreConfig selects and configures the snapshot backend.
type StoreConfig struct {
	Backend         string `toml:"backend"` // sqlite, mongo, postgres, memory
	Path            string `toml:"path,omitempty"`
	MongoURI        string `toml:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection,omitempty"`
	PostgresDSN     string `toml:"postgres_dsn,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	JWTSecret string `toml:"jwt_secret,omitempty"`
	Issuer    string `toml:"issuer"`
	TokenTTL  string `toml:"token_ttl"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Environment variables that take precedence over the file.
const (
	EnvJWTSecret   = "FINTRACK_JWT_SECRET"
	EnvMongoURI    = "FINTRACK_MONGO_URI"
	EnvPostgresDSN = "FINTRACK_POSTGRES_DSN"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: money.USD,
		},
		Profile: ProfileConfig{
			UserID:        "local",
			RiskProfile:   "moderate",
			CurrentAge:    30,
			RetirementAge: 65,
		},
		Store: StoreConfig{
			Backend:         BackendSQLite,
			MongoDatabase:   "fintrack",
			MongoCollection: "snapshots",
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8787",
			Issuer:   "fintrack",
			TokenTTL: "24h",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fintrack")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataPath returns the sqlite database path, honoring the configured override.
func DataPath(cfg Config) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack", "fintrack.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fintrack", "fintrack.db")
}

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the process environment win.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values the rest of the program relies on.
func Validate(cfg Config) error {
	if money.GetCurrency(strings.ToUpper(cfg.General.Currency)) == nil {
		return fmt.Errorf("unknown currency %q", cfg.General.Currency)
	}
	switch cfg.Store.Backend {
	case BackendSQLite, BackendMongo, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if cfg.Profile.RetirementAge <= cfg.Profile.CurrentAge {
		return fmt.Errorf("retirement age %d must be greater than current age %d",
			cfg.Profile.RetirementAge, cfg.Profile.CurrentAge)
	}
	return nil
}

// GetJWTSecret returns the token signing secret from env var or config, in that order.
func GetJWTSecret(cfg Config) string {
	if s := os.Getenv(EnvJWTSecret); s != "" {
		return s
	}
	return cfg.Server.JWTSecret
}

// GetMongoURI returns the MongoDB URI from env var or config, in that order.
func GetMongoURI(cfg Config) string {
	if s := os.Getenv(EnvMongoURI); s != "" {
		return s
	}
	return cfg.Store.MongoURI
}

// GetPostgresDSN returns the Postgres DSN from env var or config, in that order.
func GetPostgresDSN(cfg Config) string {
	if s := os.Getenv(EnvPostgresDSN); s != "" {
		return s
	}
	return cfg.Store.PostgresDSN
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
