// Package config loads SmartTravel configuration from YAML files and the
// environment. Environment variables always win over file values, and a
// .env file is honored without overwriting variables already set in the
// process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ModelConfig selects and tunes the language model backing the agents.
type ModelConfig struct {
	Provider    string        `yaml:"provider"`
	Name        string        `yaml:"name"`
	Temperature float64       `yaml:"temperature"`
	TopP        float64       `yaml:"top_p"`
	MaxRetries  int           `yaml:"max_retries"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API surface. Planner selects how
// POST /plan_trip is served: "concierge" routes through the agent pipeline,
// "catalog" plans directly from the deterministic travel catalogs.
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Planner string `yaml:"planner"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// APIKeys holds provider and travel data credentials. Keys are only ever
// read from the environment, never from config files.
type APIKeys struct {
	Gemini     string `yaml:"-"`
	OpenAI     string `yaml:"-"`
	Anthropic  string `yaml:"-"`
	Skyscanner string `yaml:"-"`
	BookingCom string `yaml:"-"`
	GoogleMaps string `yaml:"-"`
}

// Config is the root SmartTravel configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Keys    APIKeys       `yaml:"-"`
	Debug   bool          `yaml:"debug"`
}

// Default returns the baseline configuration before file and environment
// overrides.
func Default() Config {
	return Config{
		Model: ModelConfig{
			Provider:    "gemini",
			Name:        "gemini-1.5-pro",
			Temperature: 0.7,
			TopP:        0.95,
			MaxRetries:  3,
			Timeout:     30 * time.Second,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Planner: "concierge",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (optional, empty path skips the file), then environment variables.
// A .env file next to the working directory or the user's home directory is
// loaded first without clobbering existing environment variables.
func Load(path string) (Config, error) {
	loadDotenv(path)

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadDotenv loads the first .env file found among the config file's
// directory, the working directory and the home directory. godotenv.Load
// never overwrites variables already present in the environment.
func loadDotenv(configPath string) {
	var candidates []string

	if configPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	candidates = append(candidates, ".env")

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".env"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
	}
}

func applyEnv(cfg *Config) {
	cfg.Keys.Gemini = os.Getenv("GEMINI_API_KEY")
	cfg.Keys.OpenAI = os.Getenv("OPENAI_API_KEY")
	cfg.Keys.Anthropic = os.Getenv("ANTHROPIC_API_KEY")
	cfg.Keys.Skyscanner = os.Getenv("SKYSCANNER_API_KEY")
	cfg.Keys.BookingCom = os.Getenv("BOOKING_COM_API_KEY")
	cfg.Keys.GoogleMaps = os.Getenv("GOOGLE_MAPS_API_KEY")

	if v := os.Getenv("SMARTTRAVEL_MODEL_PROVIDER"); v != "" {
		cfg.Model.Provider = v
	}
	if v := os.Getenv("SMARTTRAVEL_MODEL_NAME"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("SMARTTRAVEL_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SMARTTRAVEL_PLANNER"); v != "" {
		cfg.Server.Planner = v
	}
	if v := os.Getenv("SMARTTRAVEL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SMARTTRAVEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		cfg.Debug = err == nil && debug
	}
}

// Validate checks configuration invariants. Credentials are not required
// here: catalog-only planning works without a model, so the provider key
// check happens in ValidateModel on the paths that build one.
func (c Config) Validate() error {
	switch c.Model.Provider {
	case "gemini", "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}

	switch c.Server.Planner {
	case "concierge", "catalog":
	default:
		return fmt.Errorf("unknown planner %q, expected concierge or catalog", c.Server.Planner)
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Model.Temperature)
	}
	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		return fmt.Errorf("top_p %.2f out of range [0, 1]", c.Model.TopP)
	}
	if c.Model.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}

// ValidateModel checks that the selected model provider has a credential
// available. The mock provider needs none.
func (c Config) ValidateModel() error {
	switch c.Model.Provider {
	case "gemini":
		if c.Keys.Gemini == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.Keys.OpenAI == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.Keys.Anthropic == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	}

	return nil
}
