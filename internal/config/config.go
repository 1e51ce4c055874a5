package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/vocabtrack/internal/stats"
)

// EnvPrefix marks the environment variables read into the config.
// VOCABTRACK_DB_PATH sets db-path.
const EnvPrefix = "VOCABTRACK_"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the runtime settings of the server.
type Config struct {
	ConfigFile     string        `koanf:"config"`
	Addr           string        `koanf:"addr" validate:"required"`
	DBPath         string        `koanf:"db-path" validate:"required"`
	ReposDir       string        `koanf:"repos-dir" validate:"required"`
	SyncInterval   time.Duration `koanf:"sync-interval" validate:"gte=0"`
	PracticeDays   int           `koanf:"practice-days" validate:"gte=0"`
	Env            string        `koanf:"env" validate:"oneof=development production"`
	AllowedOrigins []string      `koanf:"allowed-origins" validate:"dive,required"`
	LogLevel       string        `koanf:"log-level" validate:"oneof=debug info warn error"`
	AddSource      string        `koanf:"add-source"`
	SyncOnce       bool          `koanf:"sync-once"`
}

// Production reports whether CORS should be restricted to AllowedOrigins.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Level converts LogLevel for slog.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to a YAML config file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("db-path", "vocabtrack.db", "Path to the SQLite database file")
	fs.String("repos-dir", "repos", "Directory git sources are cloned into")
	fs.Duration("sync-interval", 0, "How often to sync sources in the background (0 disables)")
	fs.Int("practice-days", stats.DefaultPracticeDays, "Days before a learned word needs practice again")
	fs.String("env", EnvDevelopment, "Environment: development or production")
	fs.StringSlice("allowed-origins", []string{
		"http://localhost:3000",
		"http://localhost:8081",
		"http://localhost:19006",
	}, "CORS origins allowed in production")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	fs.String("add-source", "", "Register a source directory or git URL")
	fs.Bool("sync-once", false, "Sync all sources once and exit")
	return fs
}

// Load builds the config from flags, an optional YAML file, and VOCABTRACK_*
// environment variables. Flags set on the command line win, then the
// environment, then the file, then flag defaults.
func Load(args []string) (*Config, error) {
	fs := flagSet("vocabtrack")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Unchanged flags only fill keys nothing else has set.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func envValue(name, value string) (string, any) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_", "-")
	if key == "allowed-origins" {
		return key, strings.Split(value, ",")
	}
	return key, value
}
