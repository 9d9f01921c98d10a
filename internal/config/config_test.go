package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        120 * time.Second,
			ShutDownTimeout:    5 * time.Second,
			RequestTimeout:     1000 * time.Millisecond,
			ExportTimeout:      30 * time.Second,
			CORSAllowedOrigins: "*",
		},
		Data: DataConfig{
			CachePath:    "/tmp/cache.db",
			SyncInterval: 30 * time.Second,
		},
		Remote: RemoteConfig{
			Kind:    RemoteKindNone,
			Timeout: 2 * time.Second,
		},
		Catalog: CatalogConfig{
			ImageQuality: 80,
			FetchWorkers: 4,
			FetchTimeout: 5 * time.Second,
		},
		Misc: MiscConfig{
			GinMode: "release",
		},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	if err := validConfig().validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_EmptyCachePath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.CachePath = ""

	if err := cfg.validate(); err == nil {
		t.Error("expected error for empty cache path")
	}
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero port", 0},
		{"negative port", -1},
		{"too high port", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port
			if err := cfg.validate(); err == nil {
				t.Errorf("expected error for port %d", tt.port)
			}
		})
	}
}

func TestConfig_Validate_InvalidTimeouts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }},
		{"zero idle timeout", func(c *Config) { c.Server.IdleTimeout = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutDownTimeout = 0 }},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"zero sync interval", func(c *Config) { c.Data.SyncInterval = 0 }},
		{"zero remote timeout", func(c *Config) { c.Remote.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestConfig_Validate_RemoteKinds(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		uri     string
		wantErr bool
	}{
		{"none", RemoteKindNone, "", false},
		{"empty means none", "", "", false},
		{"memory", RemoteKindMemory, "", false},
		{"mongo with uri", RemoteKindMongo, "mongodb://localhost:27017", false},
		{"mongo without uri", RemoteKindMongo, "", true},
		{"unknown", "firestore", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Remote.Kind = tt.kind
			cfg.Remote.URI = tt.uri
			err := cfg.validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate_CatalogSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.ImageQuality = 0
	if err := cfg.validate(); err == nil {
		t.Error("expected error for zero image quality")
	}

	cfg = validConfig()
	cfg.Catalog.ImageQuality = 101
	if err := cfg.validate(); err == nil {
		t.Error("expected error for image quality above 100")
	}

	cfg = validConfig()
	cfg.Catalog.FetchWorkers = 0
	if err := cfg.validate(); err == nil {
		t.Error("expected error for zero fetch workers")
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "custom_value")

	if result := getEnvOrDefault("TEST_ENV_VAR", "default_value"); result != "custom_value" {
		t.Errorf("expected 'custom_value', got '%s'", result)
	}
	if result := getEnvOrDefault("NONEXISTENT_VAR", "default_value"); result != "default_value" {
		t.Errorf("expected 'default_value', got '%s'", result)
	}
}

func TestGetEnvOrDefault_EmptyValue(t *testing.T) {
	t.Setenv("TEST_EMPTY_VAR", "")

	if result := getEnvOrDefault("TEST_EMPTY_VAR", "default_value"); result != "default_value" {
		t.Errorf("expected 'default_value' for empty env, got '%s'", result)
	}
}

func TestGetEnvOrViperPort_FromEnv(t *testing.T) {
	t.Setenv("TEST_PORT", "9090")

	port, err := getEnvOrViperPort("TEST_PORT", "server.port")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if port != 9090 {
		t.Errorf("expected 9090, got %d", port)
	}
}

func TestGetEnvOrViperPort_InvalidEnv(t *testing.T) {
	t.Setenv("TEST_PORT_INVALID", "not_a_number")

	if _, err := getEnvOrViperPort("TEST_PORT_INVALID", "server.port"); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestLoadConfig_WithValidDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("DISHA_CONFIG_PATH", tempDir)
	t.Setenv("DISHA_DATA_CACHE_PATH", filepath.Join(tempDir, "data", "cache.db"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error loading config, got: %v", err)
	}

	if cfg.Server.Port <= 0 {
		t.Errorf("expected positive port, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout <= 0 {
		t.Error("expected positive request timeout")
	}
	if cfg.Data.SyncInterval <= 0 {
		t.Error("expected positive sync interval")
	}
	if cfg.Remote.Kind != RemoteKindNone {
		t.Errorf("expected remote kind %q by default, got %q", RemoteKindNone, cfg.Remote.Kind)
	}
	if cfg.Catalog.ImageQuality != 80 {
		t.Errorf("expected default image quality 80, got %d", cfg.Catalog.ImageQuality)
	}
}

func TestLoadConfig_WithCustomPort(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("DISHA_CONFIG_PATH", tempDir)
	t.Setenv("DISHA_DATA_CACHE_PATH", filepath.Join(tempDir, "data", "cache.db"))
	t.Setenv("PORT", "9999")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error loading config, got: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_WithInvalidPort(t *testing.T) {
	t.Setenv("DISHA_CONFIG_PATH", t.TempDir())
	t.Setenv("PORT", "not_a_port")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for invalid port, got nil")
	}
}

func TestLoadConfig_CreatesCacheDirectory(t *testing.T) {
	tempDir := t.TempDir()
	cacheDir := filepath.Join(tempDir, "nested", "data")
	t.Setenv("DISHA_CONFIG_PATH", tempDir)
	t.Setenv("DISHA_DATA_CACHE_PATH", filepath.Join(cacheDir, "cache.db"))

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	info, err := os.Stat(cacheDir)
	if err != nil {
		t.Fatalf("expected cache directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected cache path parent to be a directory")
	}
}

func TestLoadConfig_ReadsYAMLFile(t *testing.T) {
	tempDir := t.TempDir()
	yaml := []byte("remote:\n  kind: memory\ncatalog:\n  image_quality: 65\n")
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("DISHA_CONFIG_PATH", tempDir)
	t.Setenv("DISHA_DATA_CACHE_PATH", filepath.Join(tempDir, "cache.db"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Remote.Kind != RemoteKindMemory {
		t.Errorf("expected remote kind from file, got %q", cfg.Remote.Kind)
	}
	if cfg.Catalog.ImageQuality != 65 {
		t.Errorf("expected image quality 65 from file, got %d", cfg.Catalog.ImageQuality)
	}
}
