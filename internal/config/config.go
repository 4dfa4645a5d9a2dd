// Package config loads server and client settings from defaults, an optional
// TOML file, an optional .env file and the process environment, in that order
// of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

const (
	DefaultConfigFile = "todo.toml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	Env             string
	Port            int
	DBDriver        string
	DBPath          string
	DatabaseURL     string
	CORSOrigin      string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	APIURL          string
	APITimeout      time.Duration
}

// fileConfig mirrors Config for TOML decoding. Durations stay strings so they
// parse the same way as environment values.
type fileConfig struct {
	Env             string `toml:"env"`
	Port            int    `toml:"port"`
	DBDriver        string `toml:"db_driver"`
	DBPath          string `toml:"db_path"`
	DatabaseURL     string `toml:"database_url"`
	CORSOrigin      string `toml:"cors_origin"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	APIURL          string `toml:"api_url"`
	APITimeout      string `toml:"api_timeout"`
}

func Default() *Config {
	return &Config{
		Env:             EnvDevelopment,
		Port:            3001,
		DBPath:          "./data/todos.db",
		CORSOrigin:      "*",
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: 5 * time.Second,
		APIURL:          "http://localhost:3001/api",
		APITimeout:      10 * time.Second,
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DSN is the data source name handed to the selected driver.
func (c *Config) DSN() string {
	if c.DBDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// DataDir is the directory holding the SQLite file, or "" when the store
// has no file on disk.
func (c *Config) DataDir() string {
	if c.DBDriver == "pgx" || c.DBPath == "" || c.DBPath == ":memory:" {
		return ""
	}
	return filepath.Dir(c.DBPath)
}

// Loader resolves configuration relative to Dir. LookupEnv defaults to
// os.LookupEnv.
type Loader struct {
	Dir       string
	LookupEnv func(string) (string, bool)
}

func Load() (*Config, error) {
	return Loader{Dir: "."}.Load()
}

func (l Loader) Load() (*Config, error) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := Default()

	configFile, explicit := lookup("TODO_CONFIG")
	if !explicit || configFile == "" {
		configFile = filepath.Join(l.Dir, DefaultConfigFile)
	}
	if err := loadConfigFile(cfg, configFile, explicit); err != nil {
		return nil, err
	}

	env, err := l.environment(lookup, cfg)
	if err != nil {
		return nil, err
	}

	if err := loadFromEnv(cfg, env); err != nil {
		return nil, err
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// environment layers the process environment over the .env file. The .env
// file is ignored in production.
func (l Loader) environment(lookup func(string) (string, bool), cfg *Config) (func(string) (string, bool), error) {
	appEnv := cfg.Env
	if v, ok := lookup("APP_ENV"); ok && v != "" {
		appEnv = v
	}
	if appEnv == EnvProduction {
		return lookup, nil
	}

	dotenv, err := godotenv.Read(filepath.Join(l.Dir, DefaultEnvFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("reading %s: %w", DefaultEnvFile, err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func loadConfigFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decoding config file %s: %w", path, err)
	}

	setString(&cfg.Env, fc.Env)
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	setString(&cfg.DBDriver, fc.DBDriver)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.CORSOrigin, fc.CORSOrigin)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.APIURL, fc.APIURL)

	if err := setDuration(&cfg.ShutdownTimeout, "shutdown_timeout", fc.ShutdownTimeout); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if err := setDuration(&cfg.APITimeout, "api_timeout", fc.APITimeout); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	setString(&cfg.Env, get("APP_ENV"))
	if v := get("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %q is not a number", v)
		}
		cfg.Port = port
	}
	setString(&cfg.DBDriver, get("DB_DRIVER"))
	setString(&cfg.DBPath, get("DB_PATH"))
	setString(&cfg.DatabaseURL, get("DATABASE_URL"))
	setString(&cfg.CORSOrigin, get("CORS_ORIGIN"))
	setString(&cfg.LogLevel, get("LOG_LEVEL"))
	setString(&cfg.LogFormat, get("LOG_FORMAT"))
	setString(&cfg.APIURL, get("TODO_API_URL"))

	if err := setDuration(&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT", get("SHUTDOWN_TIMEOUT")); err != nil {
		return err
	}
	return setDuration(&cfg.APITimeout, "API_TIMEOUT", get("API_TIMEOUT"))
}

func finalizeConfig(cfg *Config) error {
	switch cfg.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV: unknown environment %q", cfg.Env)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT: %d out of range", cfg.Port)
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
		if cfg.DatabaseURL != "" {
			cfg.DBDriver = "pgx"
		}
	}
	switch cfg.DBDriver {
	case "sqlite", "sqlite3":
		if cfg.Env == EnvTest {
			cfg.DBPath = ":memory:"
		}
		if cfg.DBPath == "" {
			return errors.New("DB_PATH: must not be empty")
		}
	case "pgx":
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL: required for the pgx driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER: unknown driver %q", cfg.DBDriver)
	}

	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("LOG_FORMAT: unknown format %q", cfg.LogFormat)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	*dst = d
	return nil
}
