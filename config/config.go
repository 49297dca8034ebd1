// tasks/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigFile  = "LUMI_TASKS_CONFIG"
	EnvPort        = "LUMI_TASKS_PORT"
	EnvDataFile    = "LUMI_TASKS_DATA_FILE"
	EnvLogLevel    = "LUMI_TASKS_LOG_LEVEL"
	EnvLogFormat   = "LUMI_TASKS_LOG_FORMAT"
	EnvCORSOrigins = "LUMI_TASKS_CORS_ORIGINS"

	DefaultConfigFile = "lumi-tasks.yaml"
)

type Config struct {
	Port        string `yaml:"port"`
	DataFile    string `yaml:"data_file"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	CORSOrigins string `yaml:"cors_origins"`
}

func Default() *Config {
	return &Config{
		Port:        "8080",
		DataFile:    "tasks.json",
		LogLevel:    "info",
		LogFormat:   "console",
		CORSOrigins: "*",
	}
}

// Load layers defaults, the YAML file at path (skipped when missing), a .env
// file in the working directory, and LUMI_TASKS_* environment variables. An
// empty path falls back to $LUMI_TASKS_CONFIG, then lumi-tasks.yaml.
func Load(path string) (*Config, error) {
	// Values already in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	cfg.mergeEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.merge(fileCfg)
	return nil
}

func (c *Config) mergeEnv() {
	c.merge(Config{
		Port:        os.Getenv(EnvPort),
		DataFile:    os.Getenv(EnvDataFile),
		LogLevel:    os.Getenv(EnvLogLevel),
		LogFormat:   os.Getenv(EnvLogFormat),
		CORSOrigins: os.Getenv(EnvCORSOrigins),
	})
}

// merge copies every non-empty field of other onto c.
func (c *Config) merge(other Config) {
	if v := strings.TrimSpace(other.Port); v != "" {
		c.Port = v
	}
	if v := strings.TrimSpace(other.DataFile); v != "" {
		c.DataFile = v
	}
	if v := strings.TrimSpace(other.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(other.LogFormat); v != "" {
		c.LogFormat = v
	}
	if v := strings.TrimSpace(other.CORSOrigins); v != "" {
		c.CORSOrigins = v
	}
}

func (c *Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	if strings.ContainsAny(c.Port, ": ") {
		return fmt.Errorf("port must be a bare port number, got %q", c.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
