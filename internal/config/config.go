package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the persistent application configuration
type Config struct {
	// Curation tier: "heuristic", "standard", or "premium"
	Tier string `yaml:"tier"`

	// MaxArticles is the target size of a curated batch
	MaxArticles int `yaml:"max_articles"`

	// Models holds reasoning-service settings per provider
	Models ModelConfig `yaml:"models"`

	// Feeds are the RSS sources handed to the aggregator
	Feeds []FeedConfig `yaml:"feeds"`

	// Schedule is the cron spec for serve mode (daily batch)
	Schedule string `yaml:"schedule"`

	// PreferencesFile is the preference document path
	PreferencesFile string `yaml:"preferences_file"`

	// DatabaseFile is the sqlite path for run history
	DatabaseFile string `yaml:"database_file"`
}

// ModelConfig holds reasoning-service settings
type ModelConfig struct {
	Anthropic ModelSettings `yaml:"anthropic"`
	OpenAI    ModelSettings `yaml:"openai"`
}

// ModelSettings for a single reasoning provider
type ModelSettings struct {
	APIKey        string  `yaml:"api_key,omitempty"`
	Model         string  `yaml:"model,omitempty"`
	MonthlyBudget float64 `yaml:"monthly_budget"` // USD; 0 means no paid calls
}

// FeedConfig describes one RSS source
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Tier:        "heuristic",
		MaxArticles: 12,
		Models: ModelConfig{
			Anthropic: ModelSettings{
				Model:         "claude-sonnet-4-5-20250929",
				MonthlyBudget: 5.0,
			},
			OpenAI: ModelSettings{
				Model:         "gpt-4o-mini",
				MonthlyBudget: 2.0,
			},
		},
		Feeds: []FeedConfig{
			{Name: "Hacker News", URL: "https://news.ycombinator.com/rss", Category: "technology"},
			{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index", Category: "technology"},
		},
		Schedule:        "0 7 * * *",
		PreferencesFile: filepath.Join(home, ".curator", "preferences.json"),
		DatabaseFile:    filepath.Join(home, ".curator", "curator.db"),
	}
}

// Path returns the path to the config file
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".curator", "config.yaml")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from an explicit path, or returns defaults if absent
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes config to an explicit path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if c.Models.Anthropic.APIKey == "" {
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			c.Models.Anthropic.APIKey = key
		}
	}
	if c.Models.OpenAI.APIKey == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			c.Models.OpenAI.APIKey = key
		}
	}
}
