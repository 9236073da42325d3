package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings for every component of the bot
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Database  DatabaseConfig  `yaml:"database"`
	Answer    AnswerConfig    `yaml:"answer"`
	Award     AwardConfig     `yaml:"award"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// TelegramConfig holds Telegram configuration.
type TelegramConfig struct {
	Token        string  `yaml:"token"`
	AdminUserIDs []int64 `yaml:"admin_user_ids"`
}

// DatabaseConfig holds the result store connection settings.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 or postgres
	DSN    string `yaml:"dsn"`
}

// AnswerConfig holds the answer service settings.
type AnswerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AwardConfig holds the rewards service settings.
type AwardConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// SchedulerConfig holds the daily reminder settings.
type SchedulerConfig struct {
	Enabled      bool `yaml:"enabled"`
	ReminderHour int  `yaml:"reminder_hour"` // UTC
}

// MetricsConfig holds the ops HTTP server settings. An empty address disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "data/wordlebot.db",
		},
		Answer: AnswerConfig{
			BaseURL: "https://www.nytimes.com/svc/wordle/v2",
			Timeout: 10 * time.Second,
		},
		Award: AwardConfig{
			Timeout: 10 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			ReminderHour: 18,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// filename and finally the environment (including a .env file if present).
func Load(filename string) (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// fall through to environment only
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("ADMIN_USER_IDS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return err
		}
		c.Telegram.AdminUserIDs = ids
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ANSWER_API_URL"); v != "" {
		c.Answer.BaseURL = v
	}
	if v := os.Getenv("AWARD_API_URL"); v != "" {
		c.Award.BaseURL = v
	}
	if v := os.Getenv("AWARD_BOT_TOKEN"); v != "" {
		c.Award.Token = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		c.Metrics.Address = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		c.Log.Development = v == "true"
	}
	if v := os.Getenv("ENABLE_SCHEDULER"); v != "" {
		c.Scheduler.Enabled = v != "false"
	}

	if v := os.Getenv("REMINDER_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			return fmt.Errorf("invalid REMINDER_HOUR %q: must be 0-23", v)
		}
		c.Scheduler.ReminderHour = h
	}

	for name, target := range map[string]*time.Duration{
		"ANSWER_TIMEOUT": &c.Answer.Timeout,
		"AWARD_TIMEOUT":  &c.Award.Timeout,
	} {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, v, err)
			}
			*target = d
		}
	}

	return nil
}

// Validate checks the settings required to run the bot
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Scheduler.ReminderHour < 0 || c.Scheduler.ReminderHour > 23 {
		return fmt.Errorf("reminder hour %d out of range", c.Scheduler.ReminderHour)
	}
	return nil
}

// Enabled reports whether the rewards service is configured. Placeholder
// values copied from an example config count as unset.
func (c AwardConfig) Enabled() bool {
	return !isPlaceholder(c.BaseURL) && !isPlaceholder(c.Token)
}

// IsAdmin reports whether the Telegram user may run admin commands
func (c TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func isPlaceholder(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "", v == "changeme":
		return true
	case strings.HasPrefix(v, "your_"), strings.HasPrefix(v, "your-"):
		return true
	case strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">"):
		return true
	}
	return false
}

func parseIDList(v string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin user ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
