// Copyright 2025 VTU Tools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config provides layered configuration for the automarks tools.
//
// Values resolve in order: built-in defaults, then an optional YAML file,
// then AUTOMARKS_* environment variables. A .env file in the working
// directory is loaded into the environment first, when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the YAML file probed when no explicit path is given.
const DefaultFileName = "automarks.yaml"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the tunables of the ingestion engine.
type Config struct {
	// DataDir is the BadgerDB directory.
	DataDir string `yaml:"data_dir"`

	// PoolSize is the extraction worker pool size. 0 means automatic
	// (the host core count).
	PoolSize int `yaml:"pool_size"`

	// FlushSize is how many successful documents are buffered before a
	// bulk commit.
	FlushSize int `yaml:"flush_size"`

	// KeepProcessed leaves source files in place after ingestion. When
	// false, consumed files are deleted as each outcome is recorded,
	// whether or not the document parsed.
	KeepProcessed bool `yaml:"keep_processed"`

	// ErrorLogPath is the rotating log of failed documents. Empty disables it.
	ErrorLogPath string `yaml:"error_log_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:       "automarks.db",
		PoolSize:      0,
		FlushSize:     10,
		KeepProcessed: true,
		ErrorLogPath:  "failed_files.log",
		LogLevel:      "info",
	}
}

// Load resolves the configuration: defaults, then the YAML file at path
// (or DefaultFileName when path is empty and the file exists), then
// environment variables.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Probed default file absent; defaults stand.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays AUTOMARKS_* environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("AUTOMARKS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("AUTOMARKS_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: AUTOMARKS_POOL_SIZE %q", ErrInvalidConfig, v)
		}
		cfg.PoolSize = n
	}
	if v := os.Getenv("AUTOMARKS_FLUSH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: AUTOMARKS_FLUSH_SIZE %q", ErrInvalidConfig, v)
		}
		cfg.FlushSize = n
	}
	if v := os.Getenv("AUTOMARKS_KEEP_PROCESSED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: AUTOMARKS_KEEP_PROCESSED %q", ErrInvalidConfig, v)
		}
		cfg.KeepProcessed = b
	}
	if v := os.Getenv("AUTOMARKS_ERROR_LOG"); v != "" {
		cfg.ErrorLogPath = v
	}
	if v := os.Getenv("AUTOMARKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool_size %d", ErrInvalidConfig, c.PoolSize)
	}
	if c.FlushSize < 1 {
		return fmt.Errorf("%w: flush_size %d", ErrInvalidConfig, c.FlushSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a config/flag level name onto a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, level)
}
