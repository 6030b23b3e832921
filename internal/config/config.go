// ABOUTME: Diet configuration management with storage and narrator factories.
// ABOUTME: Handles settings, environment overrides, and collaborator construction.

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/storage"
)

// Narrator providers.
const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

// Environment variables that override the config file.
const (
	EnvOpenAIKey        = "OPENAI_API_KEY"
	EnvGeminiKey        = "GEMINI_API_KEY"
	EnvNarratorProvider = "DIET_NARRATOR_PROVIDER"
	EnvNarratorModel    = "DIET_NARRATOR_MODEL"
)

// Config stores diet tool configuration.
type Config struct {
	// DataDir is the root directory for data storage; diet.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/diet.
	DataDir string `json:"data_dir,omitempty"`

	// Narrator configures the hosted model used by 'diet analyze'.
	Narrator NarratorConfig `json:"narrator,omitzero"`
}

// NarratorConfig selects and configures the narration collaborator.
type NarratorConfig struct {
	// Provider is "openai", "gemini" or "offline". Empty picks whichever
	// provider has an API key in the environment, OpenAI first.
	Provider       string `json:"provider,omitempty"`
	Model          string `json:"model,omitempty"`
	APIKey         string `json:"api_key,omitempty"`
	BaseURL        string `json:"base_url,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite database path inside the data directory.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), "diet.db")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite database in the configured data directory.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.GetDBPath())
}

// NarratorProvider resolves the provider: environment, then config file,
// then whichever API key is present.
func (c *Config) NarratorProvider() string {
	if p := strings.ToLower(strings.TrimSpace(os.Getenv(EnvNarratorProvider))); p != "" {
		return p
	}
	if p := strings.ToLower(strings.TrimSpace(c.Narrator.Provider)); p != "" {
		return p
	}
	switch {
	case os.Getenv(EnvOpenAIKey) != "":
		return ProviderOpenAI
	case os.Getenv(EnvGeminiKey) != "":
		return ProviderGemini
	case c.Narrator.APIKey != "":
		return ProviderOpenAI
	}
	return ProviderOffline
}

// NarratorModel returns the model override, or "" for the provider default.
func (c *Config) NarratorModel() string {
	if m := strings.TrimSpace(os.Getenv(EnvNarratorModel)); m != "" {
		return m
	}
	return c.Narrator.Model
}

// NarratorAPIKey returns the key for provider; the provider's environment
// variable wins over the config file.
func (c *Config) NarratorAPIKey(provider string) string {
	var env string
	switch provider {
	case ProviderOpenAI:
		env = os.Getenv(EnvOpenAIKey)
	case ProviderGemini:
		env = os.Getenv(EnvGeminiKey)
	}
	if strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	return strings.TrimSpace(c.Narrator.APIKey)
}

// NarratorTimeout returns the collaborator timeout.
func (c *Config) NarratorTimeout() time.Duration {
	if c.Narrator.TimeoutSeconds > 0 {
		return time.Duration(c.Narrator.TimeoutSeconds) * time.Second
	}
	return narrate.DefaultTimeout
}

// NewCollaborator builds the configured collaborator. It returns nil when
// narration is offline or the provider has no API key.
func (c *Config) NewCollaborator(ctx context.Context) (narrate.Collaborator, error) {
	provider := c.NarratorProvider()
	if provider == ProviderOffline {
		return nil, nil
	}

	key := c.NarratorAPIKey(provider)
	switch provider {
	case ProviderOpenAI:
		if key == "" {
			return nil, nil
		}
		return narrate.NewOpenAI(narrate.OpenAIConfig{
			APIKey:  key,
			Model:   c.NarratorModel(),
			BaseURL: c.Narrator.BaseURL,
		}), nil
	case ProviderGemini:
		if key == "" {
			return nil, nil
		}
		g, err := narrate.NewGemini(ctx, narrate.GeminiConfig{
			APIKey:  key,
			Model:   c.NarratorModel(),
			BaseURL: c.Narrator.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown narrator provider: %q (use openai, gemini, or offline)", provider)
	}
}

// NewNarrator builds the narration service for this configuration. A
// collaborator that cannot be built is logged and narration runs offline.
func (c *Config) NewNarrator(ctx context.Context, logger *log.Logger) *narrate.Service {
	if logger == nil {
		logger = log.Default()
	}
	collab, err := c.NewCollaborator(ctx)
	if err != nil {
		logger.Warn("narrator unavailable, using offline analysis", "err", err)
		collab = nil
	}
	return narrate.NewService(collab, narrate.WithTimeout(c.NarratorTimeout()), narrate.WithLogger(logger))
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "diet", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
