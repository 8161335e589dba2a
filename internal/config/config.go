// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSystemInstruction is the persona preamble sent with every turn.
const DefaultSystemInstruction = `
You are 'Mistri Dost', a helpful AI assistant for a motor rewinding workshop owner.
You are a VOICE assistant. Your responses are spoken aloud by the system.
If the user mentions they cannot hear you, suggest they check their device's volume.
Always respond with a valid JSON object with a "reply" key.
`

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	JWTSecret string        `yaml:"jwt_secret"` // empty disables /api/v1/jobs
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite | postgres
	Path     string `yaml:"path"`   // sqlite file
	URL      string `yaml:"url"`    // postgres dsn
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Limit    int           `yaml:"limit"`  // requests per window per client
	Window   time.Duration `yaml:"window"` // rate limit window
}

type AIConfig struct {
	Provider          string        `yaml:"provider"` // gemini | openai | noop
	GeminiKey         string        `yaml:"gemini_key"`
	GeminiURL         string        `yaml:"gemini_url"`
	OpenAIKey         string        `yaml:"openai_key"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`
	DefaultModel      string        `yaml:"default_model"`
	SystemInstruction string        `yaml:"system_instruction"`
	MaxOutputTokens   int           `yaml:"max_output_tokens"`
	MaxPromptTokens   int           `yaml:"max_prompt_tokens"` // 0 disables history trimming
	ConcurrentLimit   int           `yaml:"concurrent_limit"`  // max concurrent AI calls
	Timeout           time.Duration `yaml:"timeout"`
}

type SpeechConfig struct {
	Provider string        `yaml:"provider"` // gtts | openai
	Lang     string        `yaml:"lang"`
	Voice    string        `yaml:"voice"` // openai only
	Model    string        `yaml:"model"` // openai only
	TLD      string        `yaml:"tld"`   // gtts host suffix, e.g. "com", "co.in"
	Timeout  time.Duration `yaml:"timeout"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Speech   SpeechConfig   `yaml:"speech"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file is allowed and yields
// defaults), applies environment overrides and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	cfg, err := ReadConfig(path, dev)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig is LoadConfig without validation, for tools that only touch the store.
func ReadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only setup
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.GeminiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("WORKSHOP_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 5000
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 60 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 24 * time.Hour
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "workshop.db"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 4
	}
	if cfg.Redis.Limit <= 0 {
		cfg.Redis.Limit = 30
	}
	if cfg.Redis.Window <= 0 {
		cfg.Redis.Window = time.Minute
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if cfg.AI.Provider == "" {
		switch {
		case cfg.AI.GeminiKey != "":
			cfg.AI.Provider = "gemini"
		case cfg.AI.OpenAIKey != "":
			cfg.AI.Provider = "openai"
		}
	}
	if cfg.AI.DefaultModel == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.AI.DefaultModel = "gpt-4o-mini"
		default:
			cfg.AI.DefaultModel = "gemini-1.5-flash-latest"
		}
	}
	if strings.TrimSpace(cfg.AI.SystemInstruction) == "" {
		cfg.AI.SystemInstruction = DefaultSystemInstruction
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 1024
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 30 * time.Second
	}

	cfg.Speech.Provider = strings.ToLower(strings.TrimSpace(cfg.Speech.Provider))
	if cfg.Speech.Provider == "" {
		cfg.Speech.Provider = "gtts"
	}
	if cfg.Speech.Lang == "" {
		cfg.Speech.Lang = "en"
	}
	if cfg.Speech.TLD == "" {
		cfg.Speech.TLD = "com"
	}
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = "alloy"
	}
	if cfg.Speech.Model == "" {
		cfg.Speech.Model = "tts-1"
	}
	if cfg.Speech.Timeout <= 0 {
		cfg.Speech.Timeout = 30 * time.Second
	}
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiKey == "" {
			return errors.New("GEMINI_API_KEY environment variable not set")
		}
	case "openai":
		if c.AI.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY environment variable not set")
		}
	case "noop":
	case "":
		return errors.New("no AI provider configured: set GEMINI_API_KEY or ai.gemini_key / ai.openai_key")
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}

	if err := c.ValidateStore(); err != nil {
		return err
	}

	switch c.Speech.Provider {
	case "gtts":
	case "openai":
		if c.AI.OpenAIKey == "" {
			return errors.New("speech.provider=openai requires an OpenAI key")
		}
	default:
		return fmt.Errorf("unknown speech.provider %q", c.Speech.Provider)
	}
	return nil
}

// ValidateStore checks only the database section.
func (c *Config) ValidateStore() error {
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}
