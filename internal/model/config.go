package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage driver names accepted by StorageConfig.Driver.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// DefaultStorageKey is the blob key the wedding record is persisted under.
const DefaultStorageKey = "sarn_rak_wedding"

// StorageConfig selects where the wedding record blob lives.
type StorageConfig struct {
	// Driver is one of "sqlite", "file" or "memory".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file or the directory for the file driver.
	Path string `mapstructure:"path" yaml:"path"`

	// Key is the blob key of the wedding record.
	Key string `mapstructure:"key" yaml:"key"`
}

// AIConfig holds settings for the Gemini advice and image calls.
type AIConfig struct {
	Model       string  `mapstructure:"model" yaml:"model"`
	ImageModel  string  `mapstructure:"image_model" yaml:"image_model"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`
}

// GalleryConfig controls batch image imports.
type GalleryConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	AI      AIConfig      `mapstructure:"ai" yaml:"ai"`
	Gallery GalleryConfig `mapstructure:"gallery" yaml:"gallery"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/sarnrak, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "sarnrak")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Storage: StorageConfig{
			Driver: StorageSQLite,
			Path:   filepath.Join(dir, "sarnrak.db"),
			Key:    DefaultStorageKey,
		},
		AI: AIConfig{
			Model:       "gemini-3-flash-preview",
			ImageModel:  "gemini-2.5-flash-image",
			Temperature: 0.7,
		},
		Gallery: GalleryConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "sarnrak.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.key", def.Storage.Key)
	v.SetDefault("ai.model", def.AI.Model)
	v.SetDefault("ai.image_model", def.AI.ImageModel)
	v.SetDefault("ai.temperature", def.AI.Temperature)
	v.SetDefault("gallery.workers", def.Gallery.Workers)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Storage.Driver {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("config %s: unknown storage driver %q", path, cfg.Storage.Driver)
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultStorageKey
	}
	if cfg.Gallery.Workers <= 0 {
		cfg.Gallery.Workers = def.Gallery.Workers
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("ai", cfg.AI)
	v.Set("gallery", cfg.Gallery)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
