// Package config loads the editor configuration from YAML.
//
// A file only needs the keys it changes; everything else keeps the value
// from Defaults:
//
//	canvas:
//	  width: 1024
//	  height: 768
//	  grid_size: 10
//	export:
//	  format: png
//	  scale: 2
//	storage:
//	  path: /var/lib/ggedit/project.db
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
)

// Config is the top-level configuration.
type Config struct {
	Canvas  ggedit.Canvas  `yaml:"canvas"`
	History HistoryConfig  `yaml:"history"`
	Export  export.Options `yaml:"export"`
	Storage StorageConfig  `yaml:"storage"`
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
}

// HistoryConfig bounds the undo log.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// StorageConfig selects where the element list is persisted.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite | memory
	Path   string `yaml:"path"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the command-line logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Canvas:  ggedit.DefaultCanvas(),
		History: HistoryConfig{Capacity: ggedit.DefaultHistoryCapacity},
		Export:  export.DefaultOptions(),
		Storage: StorageConfig{Driver: "sqlite", Path: "ggedit.db"},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadFile reads a YAML file over Defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas: size must be > 0, got %vx%v", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.GridSize < 0 {
		errs = append(errs, fmt.Errorf("canvas: grid_size must be >= 0"))
	}
	if c.History.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("history: capacity must be > 0"))
	}
	if _, err := export.ParseFormat(string(c.Export.Format)); err != nil {
		errs = append(errs, err)
	}
	if _, err := export.ParseQuality(string(c.Export.Quality)); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage: path is required for sqlite"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage: unsupported driver %q (use sqlite or memory)", c.Storage.Driver))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log: unsupported format %q (use text or json)", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EditorOptions converts the canvas and history settings to editor options.
func (c *Config) EditorOptions() []ggedit.Option {
	canvas := c.Canvas
	canvas.SetZoom(canvas.Zoom)
	return []ggedit.Option{
		ggedit.WithCanvas(canvas),
		ggedit.WithHistoryCapacity(c.History.Capacity),
	}
}

// ExportOptions returns the export defaults sized to the canvas when the
// file left width and height unset.
func (c *Config) ExportOptions() export.Options {
	o := c.Export
	if o.Width <= 0 {
		o.Width = c.Canvas.Width
	}
	if o.Height <= 0 {
		o.Height = c.Canvas.Height
	}
	return o
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("log: unsupported level %q", s)
	}
	return l, nil
}
