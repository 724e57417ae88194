package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

type Config struct {
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
	Calendar Calendar `yaml:"calendar"`
	OpenAI   OpenAI   `yaml:"openai"`
	MCP      MCP      `yaml:"mcp"`
}

type Server struct {
	// Address the HTTP API listens on
	Addr string `yaml:"addr" example:":8080" validate:"required"`
}

type Calendar struct {
	// Path to the appointment log file
	Path string `yaml:"path" example:"data/calendar.jsonl" validate:"required"`
	// Start of the daily working window
	WindowStart string `yaml:"window_start" example:"09:00" validate:"required"`
	// End of the daily working window
	WindowEnd string `yaml:"window_end" example:"18:00" validate:"required"`
	// Step between candidate slots, in minutes
	StepMinutes int `yaml:"step_minutes" example:"30" validate:"gte=1"`
}

type OpenAI struct {
	// OpenAI-compatible base url; leave empty to disable model-based time extraction
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free"`
}

type MCP struct {
	// Address the MCP tool server listens on; leave empty to disable
	Addr string `yaml:"addr" example:":8081"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func (c *OpenAI) Enabled() bool {
	return c.BaseURL != "" && c.Token != "" && c.Model != ""
}

func Load() (*Config, error) {
	return LoadFrom(defaultPath)
}

// LoadFrom reads the YAML config at path. A missing file is not an
// error: every option has a default.
func LoadFrom(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	applyDefaults(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

// Default returns a config with every option at its default value.
func Default() *Config {
	var result Config
	applyDefaults(&result)

	return &result
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Calendar.Path == "" {
		cfg.Calendar.Path = "data/calendar.jsonl"
	}
	if cfg.Calendar.WindowStart == "" {
		cfg.Calendar.WindowStart = "09:00"
	}
	if cfg.Calendar.WindowEnd == "" {
		cfg.Calendar.WindowEnd = "18:00"
	}
	if cfg.Calendar.StepMinutes == 0 {
		cfg.Calendar.StepMinutes = 30
	}
}
