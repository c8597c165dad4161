// Package config loads the user's ~/.flowpaintrc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const FileName = ".flowpaintrc"

type Config struct {
	SaveDirectory string  `yaml:"save_directory"`
	Library       string  `yaml:"library"`
	SnapRadius    float64 `yaml:"snap_radius"`
	AutoReconnect bool    `yaml:"auto_reconnect"`
	Zoom          float64 `yaml:"zoom"`
	GridSize      int     `yaml:"grid_size"`
	PageWidth     float64 `yaml:"page_width"`
	PageHeight    float64 `yaml:"page_height"`
	Confirmations bool    `yaml:"confirmations"`
}

func Default() *Config {
	return &Config{
		SnapRadius:    10,
		AutoReconnect: true,
		Zoom:          1,
		GridSize:      20,
		PageWidth:     800,
		PageHeight:    600,
		Confirmations: true,
	}
}

// DefaultPath is ~/.flowpaintrc, or "" when the home directory is unknown.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, FileName)
}

// Load reads the config at path. A missing file yields the defaults;
// a file that exists but cannot be parsed is an error.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	config.SaveDirectory = expandPath(config.SaveDirectory)
	config.Library = expandPath(config.Library)
	config.sanitize()
	return config, nil
}

func (c *Config) sanitize() {
	d := Default()
	if c.SnapRadius <= 0 {
		c.SnapRadius = d.SnapRadius
	}
	if c.Zoom <= 0 {
		c.Zoom = d.Zoom
	}
	if c.GridSize <= 0 {
		c.GridSize = d.GridSize
	}
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		c.PageWidth, c.PageHeight = d.PageWidth, d.PageHeight
	}
}

func expandPath(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// GetSavePath places filename in the save directory, creating it if needed.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// LibraryPath is the drawing library database, defaulting to the save directory.
func (c *Config) LibraryPath() string {
	if c.Library != "" {
		return c.Library
	}
	if c.SaveDirectory != "" {
		return filepath.Join(c.SaveDirectory, "library.db")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "flowpaint-library.db"
	}
	return filepath.Join(homeDir, ".flowpaint", "library.db")
}
