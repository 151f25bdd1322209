// Package config loads jaivier configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all jaivier configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Backend REST API
	API APIConfig `yaml:"api"`

	// Conversation session storage
	Session SessionConfig `yaml:"session"`

	// Scheduling defaults applied when the assistant omits dates or estimates
	Defaults DefaultsConfig `yaml:"defaults"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the Gemini translation model.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// APIConfig configures the backend REST client.
type APIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Timeout  string `yaml:"timeout"`
}

// SessionConfig configures conversation context persistence.
type SessionConfig struct {
	DatabasePath string `yaml:"database_path"`
	HistoryLimit int    `yaml:"history_limit"`
}

// DefaultsConfig holds the fallback values the executor fills in when a
// create operation arrives without dates or estimates.
type DefaultsConfig struct {
	ProjectDays    int     `yaml:"project_days"`
	SprintDays     int     `yaml:"sprint_days"`
	TaskDueDays    int     `yaml:"task_due_days"`
	EstimatedHours float64 `yaml:"estimated_hours"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"` // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "jaivier",
		Version: "1.0.0",

		LLM: LLMConfig{
			Model:   "gemini-2.0-flash",
			Timeout: "60s",
		},

		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: "30s",
		},

		Session: SessionConfig{
			DatabasePath: ".jaivier/session.db",
			HistoryLimit: 20,
		},

		Defaults: DefaultsConfig{
			ProjectDays:    30,
			SprintDays:     14,
			TaskDueDays:    7,
			EstimatedHours: 8,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// DefaultPath returns the conventional config location under the workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".jaivier", "config.yaml")
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("JAIVIER_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if user := os.Getenv("JAIVIER_USERNAME"); user != "" {
		c.API.Username = user
	}
	if pass := os.Getenv("JAIVIER_PASSWORD"); pass != "" {
		c.API.Password = pass
	}
	if path := os.Getenv("JAIVIER_DB"); path != "" {
		c.Session.DatabasePath = path
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetAPITimeout returns the backend request timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Defaults.ProjectDays <= 0 || c.Defaults.SprintDays <= 0 || c.Defaults.TaskDueDays <= 0 {
		return fmt.Errorf("defaults durations must be positive")
	}
	if c.Defaults.EstimatedHours <= 0 {
		return fmt.Errorf("defaults.estimated_hours must be positive")
	}
	return nil
}
