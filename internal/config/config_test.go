// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Relay.URL != "http://localhost:8790" {
		t.Errorf("Relay.URL = %q", cfg.Relay.URL)
	}
	if cfg.Server.Port != 8790 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "/tmp/saldo-test"

[relay]
url = "http://relay.example:9000"

[server]
port = 9000
enable_search = true

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Relay.URL != "http://relay.example:9000" {
		t.Errorf("Relay.URL = %q", cfg.Relay.URL)
	}
	if cfg.Server.Port != 9000 || !cfg.Server.EnableSearch {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.DataDir != "/tmp/saldo-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"relay":{"url":"http://localhost:8888"},"ui":{"theme":"auto"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Relay.URL != "http://localhost:8888" || cfg.UI.Theme != "auto" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SALDO_RELAY_URL", "http://env.example:7000")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SALDO_ENABLE_SEARCH", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Relay.URL != "http://env.example:7000" {
		t.Errorf("Relay.URL = %q", cfg.Relay.URL)
	}
	if cfg.Server.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.Server.GeminiAPIKey)
	}
	if !cfg.Server.EnableSearch {
		t.Error("EnableSearch not applied")
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := Default()
	cfg.Relay.URL = "not a url at all ://"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad relay url")
	}

	cfg = Default()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad port")
	}

	cfg = Default()
	cfg.UI.Theme = "neon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown theme")
	}
}
