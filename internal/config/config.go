// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for saldo.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.saldo/config.toml
//   - ~/.saldo/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete saldo configuration.
type Config struct {
	// DataDir is where sessions, documents and the search index live.
	// Empty means ~/.saldo.
	DataDir string `toml:"data_dir" json:"data_dir"`

	Relay  RelayConfig  `toml:"relay" json:"relay"`
	Server ServerConfig `toml:"server" json:"server"`
	UI     UIConfig     `toml:"ui" json:"ui"`
}

// RelayConfig points the chat client at a relay.
type RelayConfig struct {
	// URL is the relay base URL.
	URL string `toml:"url" json:"url"`
}

// ServerConfig configures the built-in relay server (saldo serve).
type ServerConfig struct {
	// Port to listen on.
	Port int `toml:"port" json:"port"`
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string `toml:"gemini_api_key" json:"gemini_api_key"`
	// OpenAIAPIKey authenticates title generation; optional.
	OpenAIAPIKey string `toml:"openai_api_key" json:"openai_api_key"`
	// EnableSearch turns on the web retrieval step.
	EnableSearch bool `toml:"enable_search" json:"enable_search"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme selects the glamour rendering style: "dark", "light" or "auto".
	Theme string `toml:"theme" json:"theme"`
	// ShowSidebar controls whether the session sidebar starts open.
	ShowSidebar bool `toml:"show_sidebar" json:"show_sidebar"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Relay: RelayConfig{
			URL: "http://localhost:8790",
		},
		Server: ServerConfig{
			Port: 8790,
		},
		UI: UIConfig{
			Theme:       "dark",
			ShowSidebar: true,
		},
	}
}

// ConfigDir returns ~/.saldo.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".saldo"), nil
}

// ResolveDataDir returns the configured data directory, defaulting to the
// config directory itself.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return ConfigDir()
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from ~/.saldo/config.toml, falling back to
// config.json and then to defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := ConfigDir()
	if err != nil {
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}

	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	switch {
	case fileExists(tomlPath):
		if err := loadTOML(cfg, tomlPath); err != nil {
			return nil, err
		}
	case fileExists(jsonPath):
		if err := loadJSON(cfg, jsonPath); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file; the extension
// picks the format.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.HasSuffix(path, ".json") {
		err = loadJSON(cfg, path)
	} else {
		err = loadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func loadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variables over the loaded file.
// Environment always wins; it is the deployment's voice.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SALDO_RELAY_URL"); v != "" {
		c.Relay.URL = v
	}
	if v := os.Getenv("SALDO_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("SALDO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Server.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Server.OpenAIAPIKey = v
	}
	if v := os.Getenv("SALDO_ENABLE_SEARCH"); v != "" {
		c.Server.EnableSearch = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Relay.URL != "" {
		u, err := url.Parse(c.Relay.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("relay url %q is not a valid http(s) url", c.Relay.URL)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch c.UI.Theme {
	case "", "dark", "light", "auto":
	default:
		return fmt.Errorf("unknown theme %q: must be dark, light or auto", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to ~/.saldo/config.toml.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "config.toml"), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
