package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Storage.Driver != "sqlite" {
			t.Errorf("expected storage driver sqlite, got %s", config.Storage.Driver)
		}

		if config.Storage.Path != "./vidshelf.db" {
			t.Errorf("expected storage path ./vidshelf.db, got %s", config.Storage.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Share.Scope != "selected" {
			t.Errorf("expected share scope selected, got %s", config.Share.Scope)
		}

		if config.Metadata.Timeout() != 8*time.Second {
			t.Errorf("expected 8s metadata timeout, got %s", config.Metadata.Timeout())
		}

		if config.History.MaxUndo != 50 {
			t.Errorf("expected max_undo 50, got %d", config.History.MaxUndo)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Storage.Path != defaultConfig.Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[storage]
driver = "file"
path = "/custom/collection.json"

[share]
base_url = "https://shelf.example.com/"
scope = "all"

[metadata]
timeout_seconds = 3

[server]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Storage.Driver != "file" {
			t.Errorf("expected storage driver file, got %s", config.Storage.Driver)
		}

		if config.Storage.Key != "vidshelf.collection" {
			t.Errorf("expected default storage key to survive, got %s", config.Storage.Key)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected default host to survive, got %s", config.Server.Host)
		}

		if config.Metadata.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %s", config.Metadata.Timeout())
		}
	})

	t.Run("LoadConfig rejects unknown driver", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[storage]\ndriver = \"redis\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}
