package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const minSecretLength = 16

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR,default=:8080"`
	DatabaseURL     string        `env:"DATABASE_URL,default=postgres://localhost:5432/eventledger?sslmode=disable"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,default=168h"`
	EnforceCapacity bool          `env:"ENFORCE_CAPACITY,default=true"`
	DefaultLocale   string        `env:"DEFAULT_LOCALE,default=en"`
	PublicBaseURL   string        `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`

	AdminName     string `env:"ADMIN_NAME,default=Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL,default=gemini-3-flash-preview"`
	GeminiBaseURL  string        `env:"GEMINI_BASE_URL,default=https://generativelanguage.googleapis.com"`
	InsightTimeout time.Duration `env:"INSIGHT_TIMEOUT,default=15s"`

	DiscordToken     string        `env:"DISCORD_TOKEN"`
	DiscordChannelID string        `env:"DISCORD_CHANNEL_ID"`
	ReminderDelay    time.Duration `env:"REMINDER_DELAY,default=2s"`
	Timezone         string        `env:"TIMEZONE,default=UTC"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when the environment already carries the variables.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SeedAdmin reports whether an administrator account is created at startup.
func (c *Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// DiscordEnabled reports whether reminders go to a Discord channel.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

func (c *Config) validate() error {
	if len(strings.TrimSpace(c.JWTSecret)) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET is required (at least %d characters)", minSecretLength)
	}

	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be a positive duration")
	}

	if err := checkURL("DATABASE_URL", c.DatabaseURL); err != nil {
		return err
	}
	if err := checkURL("PUBLIC_BASE_URL", c.PublicBaseURL); err != nil {
		return err
	}
	if err := checkURL("GEMINI_BASE_URL", c.GeminiBaseURL); err != nil {
		return err
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("config: ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if c.InsightTimeout <= 0 {
		return errors.New("config: INSIGHT_TIMEOUT must be a positive duration")
	}

	if c.ReminderDelay < 0 {
		return errors.New("config: REMINDER_DELAY must not be negative")
	}

	if c.DiscordEnabled() {
		if strings.TrimSpace(c.DiscordChannelID) == "" {
			return errors.New("config: DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
		}
		for _, r := range c.DiscordChannelID {
			if r < '0' || r > '9' {
				return errors.New("config: DISCORD_CHANNEL_ID must be a numeric Discord channel ID")
			}
		}
	}

	return nil
}

// checkURL never echoes raw: DATABASE_URL carries the database password.
func checkURL(name, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("config: invalid %s: %w", name, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid %s (%q): missing scheme or host", name, parsed.Redacted())
	}
	return nil
}
