package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Storage  StorageConfig `yaml:"storage"`
	Inputs   []InputConfig `yaml:"inputs"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level, defaulting to info.
func (s Settings) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// StorageConfig represents output database settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// InputConfig represents a single TLM recording to decode
type InputConfig struct {
	Path string `yaml:"path"`
	// Name labels the decoded output; defaults to the file's base name.
	Name string `yaml:"name"`
	// Encoded marks payloads wrapped as "<content type>,<base64>" text,
	// the shape dashboard uploads arrive in.
	Encoded bool `yaml:"encoded"`
}

// LoadConfig reads and validates the YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if len(config.Inputs) == 0 {
		return nil, errors.New("no input files specified in configuration")
	}
	for i, input := range config.Inputs {
		if input.Path == "" {
			return nil, fmt.Errorf("input %d: path is required", i)
		}
	}
	return &config, nil
}
