// Package config loads the YAML configuration of the command line tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"marcserializer/internal/logging"
)

// Output formats understood by the command line tool.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatAlephSeq = "alephseq"
	FormatHTML     = "html"
)

// Config represents the serializer configuration
type Config struct {
	Output  Output  `yaml:"output"`
	Reader  Reader  `yaml:"reader"`
	Catalog Catalog `yaml:"catalog"`
	Logging Logging `yaml:"logging"`
}

type Output struct {
	Format     string `yaml:"format"`
	JSONIndent string `yaml:"json_indent"`
}

type Reader struct {
	ChunkSize int `yaml:"chunk_size"`
}

type Catalog struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Output: Output{
			Format: FormatText,
		},
		Reader: Reader{
			ChunkSize: 32 * 1024,
		},
		Catalog: Catalog{
			DataDir: "./catalog",
		},
		Logging: Logging{
			Level: "warn",
		},
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig writes the configuration to path, creating its directory.
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatAlephSeq, FormatHTML:
	default:
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	if c.Reader.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("reader.chunk_size: must be positive, got %d", c.Reader.ChunkSize))
	}
	if c.Catalog.DataDir == "" {
		errs = append(errs, errors.New("catalog.data_dir: must not be empty"))
	}
	if c.Logging.Level != "" {
		if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
			errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
		}
	}
	return errors.Join(errs...)
}
