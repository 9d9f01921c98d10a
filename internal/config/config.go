package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bassista/go_storefront/internal/logger"
)

const (
	RemoteKindMongo  = "mongo"
	RemoteKindMemory = "memory"
	RemoteKindNone   = "none"
)

type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Remote  RemoteConfig
	Catalog CatalogConfig
	Admin   AdminConfig
	Misc    MiscConfig
}

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	ExportTimeout      time.Duration
	CORSAllowedOrigins string
	WebDir             string
}

type DataConfig struct {
	CachePath      string
	SeedPath       string
	SyncInterval   time.Duration
	BackupSchedule string
}

type RemoteConfig struct {
	Kind     string
	URI      string
	Database string
	Timeout  time.Duration
}

type CatalogConfig struct {
	AssetBaseURL string
	AssetDir     string
	CoverImage   string
	ImageQuality int
	FetchWorkers int
	FetchTimeout time.Duration
	Compress     bool
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

type MiscConfig struct {
	GinMode           string
	LogLevel          string
	CloudinaryURL     string
	MediaFolder       string
	HoneybadgerAPIKey string
	Environment       string
}

// LoadConfig reads .env, config.yaml and environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithComponent("config").Warnf("cannot read .env file: %v", err)
	}

	confPath := getEnvOrDefault("DISHA_CONFIG_PATH", "./config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(confPath)

	setDefaults()

	// Environment variables like DISHA_DATA_CACHE_PATH override data.cache_path
	viper.SetEnvPrefix("DISHA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Info("no config file found, using defaults and env vars")
	}

	port, err := getEnvOrViperPort("PORT", "server.port")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    viper.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     viper.GetDuration("server.request_timeout"),
			ExportTimeout:      viper.GetDuration("server.export_timeout"),
			CORSAllowedOrigins: viper.GetString("server.cors_allowed_origins"),
			WebDir:             viper.GetString("server.web_dir"),
		},
		Data: DataConfig{
			CachePath:      viper.GetString("data.cache_path"),
			SeedPath:       viper.GetString("data.seed_path"),
			SyncInterval:   viper.GetDuration("data.sync_interval"),
			BackupSchedule: viper.GetString("data.backup_schedule"),
		},
		Remote: RemoteConfig{
			Kind:     viper.GetString("remote.kind"),
			URI:      viper.GetString("remote.uri"),
			Database: viper.GetString("remote.database"),
			Timeout:  viper.GetDuration("remote.timeout"),
		},
		Catalog: CatalogConfig{
			AssetBaseURL: viper.GetString("catalog.asset_base_url"),
			AssetDir:     viper.GetString("catalog.asset_dir"),
			CoverImage:   viper.GetString("catalog.cover_image"),
			ImageQuality: viper.GetInt("catalog.image_quality"),
			FetchWorkers: viper.GetInt("catalog.fetch_workers"),
			FetchTimeout: viper.GetDuration("catalog.fetch_timeout"),
			Compress:     viper.GetBool("catalog.compress"),
		},
		Admin: AdminConfig{
			Username:     viper.GetString("admin.username"),
			PasswordHash: viper.GetString("admin.password_hash"),
		},
		Misc: MiscConfig{
			GinMode:           viper.GetString("misc.gin_mode"),
			LogLevel:          viper.GetString("misc.log_level"),
			CloudinaryURL:     getEnvOrDefault("CLOUDINARY_URL", viper.GetString("misc.cloudinary_url")),
			MediaFolder:       viper.GetString("misc.media_folder"),
			HoneybadgerAPIKey: getEnvOrDefault("HONEYBADGER_API_KEY", viper.GetString("misc.honeybadger_api_key")),
			Environment:       getEnvOrDefault("GO_ENV", viper.GetString("misc.environment")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Data.CachePath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.idle_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.request_timeout", 3*time.Second)
	viper.SetDefault("server.export_timeout", 45*time.Second)
	viper.SetDefault("server.cors_allowed_origins", "*")
	viper.SetDefault("server.web_dir", "./web/dist")

	viper.SetDefault("data.cache_path", "./data/cache.db")
	viper.SetDefault("data.seed_path", "./data/seed.json")
	viper.SetDefault("data.sync_interval", 30*time.Second)
	viper.SetDefault("data.backup_schedule", "")

	viper.SetDefault("remote.kind", RemoteKindNone)
	viper.SetDefault("remote.uri", "")
	viper.SetDefault("remote.database", "disha_traders")
	viper.SetDefault("remote.timeout", 4*time.Second)

	viper.SetDefault("catalog.asset_base_url", "")
	viper.SetDefault("catalog.asset_dir", "./web/public")
	viper.SetDefault("catalog.cover_image", "/images/catalog-cover.jpg")
	viper.SetDefault("catalog.image_quality", 80)
	viper.SetDefault("catalog.fetch_workers", 4)
	viper.SetDefault("catalog.fetch_timeout", 8*time.Second)
	viper.SetDefault("catalog.compress", true)

	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("admin.password_hash", "")

	viper.SetDefault("misc.gin_mode", "release")
	viper.SetDefault("misc.log_level", "info")
	viper.SetDefault("misc.cloudinary_url", "")
	viper.SetDefault("misc.media_folder", "disha-traders")
	viper.SetDefault("misc.honeybadger_api_key", "")
	viper.SetDefault("misc.environment", "production")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server read/write/idle timeouts must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server request timeout must be positive")
	}
	if c.Data.CachePath == "" {
		return errors.New("data cache path is required")
	}
	if c.Data.SyncInterval <= 0 {
		return errors.New("data sync interval must be positive")
	}
	switch c.Remote.Kind {
	case RemoteKindMongo:
		if c.Remote.URI == "" {
			return errors.New("remote uri is required for the mongo store")
		}
	case RemoteKindMemory, RemoteKindNone, "":
	default:
		return fmt.Errorf("unknown remote kind: %s (supported: %s, %s, %s)", c.Remote.Kind, RemoteKindMongo, RemoteKindMemory, RemoteKindNone)
	}
	if c.Remote.Timeout <= 0 {
		return errors.New("remote timeout must be positive")
	}
	if c.Catalog.ImageQuality < 1 || c.Catalog.ImageQuality > 100 {
		return fmt.Errorf("catalog image quality must be within 1..100, got %d", c.Catalog.ImageQuality)
	}
	if c.Catalog.FetchWorkers <= 0 {
		return errors.New("catalog fetch workers must be positive")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvOrViperPort(envKey, viperKey string) (int, error) {
	if v := os.Getenv(envKey); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", envKey, v, err)
		}
		return port, nil
	}
	return viper.GetInt(viperKey), nil
}
