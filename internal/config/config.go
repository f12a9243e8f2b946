package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/rhtasks/config.yaml"

// Config holds all rhtasks configuration.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Server     ServerConfig     `yaml:"server"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ExtractionConfig struct {
	URLMatch          string `yaml:"url_match"`
	TaskParam         string `yaml:"task_param"`
	SourceOffsetHours int    `yaml:"source_offset_hours"`
	TargetZone        string `yaml:"target_zone"`
}

type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
	Mode          string `yaml:"mode"`
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"` // megabytes
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

var validLevels = []string{"debug", "info", "warn", "error"}

var validModes = []string{"debug", "release", "test"}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Extraction.URLMatch) == "" {
		return fmt.Errorf("extraction.url_match must not be empty")
	}
	if strings.TrimSpace(c.Extraction.TaskParam) == "" {
		return fmt.Errorf("extraction.task_param must not be empty")
	}
	if c.Extraction.SourceOffsetHours < -12 || c.Extraction.SourceOffsetHours > 14 {
		return fmt.Errorf("extraction.source_offset_hours %d out of range -12..14", c.Extraction.SourceOffsetHours)
	}
	if c.Extraction.TargetZone == "" {
		return fmt.Errorf("extraction.target_zone must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("server.max_upload_size must be positive")
	}
	if !contains(validModes, c.Server.Mode) {
		return fmt.Errorf("server.mode %q must be one of %s", c.Server.Mode, strings.Join(validModes, ", "))
	}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level %q must be one of %s", c.Logging.Level, strings.Join(validLevels, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
