package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	YouTube YouTubeConfig `yaml:"youtube"`
	AI      AIConfig      `yaml:"ai"`
	Email   EmailConfig   `yaml:"email"`

	DataDir string `yaml:"data_dir"`
	// RevalidateSchedule is a six-field cron spec for the daily credential
	// probe.
	RevalidateSchedule string `yaml:"revalidate_schedule"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type YouTubeConfig struct {
	APIKey string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server" env:"SMTP_SERVER"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"SMTP_USERNAME"`
	Password   string `yaml:"password" env:"SMTP_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Load reads configuration from an optional yaml file (CONFIG_FILE,
// default config.yaml) with environment fallbacks for every secret. API
// keys may legitimately be absent here: the dashboard can also receive
// them at runtime through the key endpoints, backed by the key store.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.SMTPServer == "" {
		cfg.Email.SMTPServer = os.Getenv("SMTP_SERVER")
	}
	if cfg.Email.SMTPPort == 0 {
		if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("SMTP_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("SMTP_PASSWORD")
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.RevalidateSchedule == "" {
		cfg.RevalidateSchedule = "0 0 6 * * *" // Daily at 6 AM
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server listen address is required")
	}
	// Email delivery is optional, but a half-configured SMTP block is a
	// deployment mistake worth failing on.
	if c.Email.SMTPServer != "" {
		if c.Email.Username == "" || c.Email.Password == "" {
			return fmt.Errorf("SMTP server configured without credentials (set SMTP_USERNAME and SMTP_PASSWORD)")
		}
		if c.Email.ToEmail == "" {
			return fmt.Errorf("SMTP server configured without a recipient (set email.to_email)")
		}
	}
	return nil
}
