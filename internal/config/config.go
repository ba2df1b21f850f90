// Package config loads the editor's YAML settings file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mindmap/internal/history"
	"mindmap/internal/store"
)

// FileName is the settings file looked up in the home directory.
const FileName = ".mindmaprc.yaml"

// Config holds user settings. Zero fields fall back to defaults on Load.
type Config struct {
	SaveDirectory   string `yaml:"save_directory"`
	Database        string `yaml:"database"`
	Slot            string `yaml:"slot"`
	HistoryCapacity int    `yaml:"history_capacity"`
	Confirmations   bool   `yaml:"confirmations"`
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Database:        filepath.Join("~", ".mindmap", "mindmap.db"),
		Slot:            store.DefaultSlot,
		HistoryCapacity: history.DefaultCapacity,
		Confirmations:   true,
		LogLevel:        "info",
	}
}

// DefaultPath returns ~/.mindmaprc.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := Default()
	if c.Slot == "" {
		c.Slot = def.Slot
	}
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.HistoryCapacity < 1 {
		c.HistoryCapacity = def.HistoryCapacity
	}
	c.Database = expandPath(c.Database)
	c.LogFile = expandPath(c.LogFile)
	c.SaveDirectory = expandPath(c.SaveDirectory)
}

// expandPath resolves a leading ~ and makes the path absolute.
func expandPath(p string) string {
	if p == "" || p == ":memory:" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// SavePath places filename in the save directory, creating it. Absolute
// filenames and an unset save directory leave filename unchanged.
func (c *Config) SavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
