package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("Defaults invalid: %v", err)
	}
	if c.Canvas != ggedit.DefaultCanvas() {
		t.Errorf("canvas = %+v", c.Canvas)
	}
	if c.History.Capacity != 50 {
		t.Errorf("history capacity = %d, want 50", c.History.Capacity)
	}
	if c.Storage.Driver != "sqlite" || c.Storage.Path != "ggedit.db" {
		t.Errorf("storage = %+v", c.Storage)
	}
	if c.Server.Addr != ":8080" || c.Log.Level != "info" {
		t.Errorf("server/log = %+v %+v", c.Server, c.Log)
	}
	if c.Export.Format != export.FormatSVG || c.Export.Quality != export.QualityHigh {
		t.Errorf("export = %+v", c.Export)
	}
}

func TestLoadFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggedit.yaml")
	yml := `
canvas:
  width: 1024
  grid_size: 10
  snap_to_grid: false
export:
  format: png
  scale: 2
storage:
  path: /tmp/project.db
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Canvas.Width != 1024 || c.Canvas.Height != 600 || c.Canvas.GridSize != 10 || c.Canvas.Snap {
		t.Errorf("canvas = %+v", c.Canvas)
	}
	if !c.Canvas.ShowGrid || c.Canvas.Zoom != 100 {
		t.Errorf("unset canvas keys lost their defaults: %+v", c.Canvas)
	}
	if c.Export.Format != export.FormatPNG || c.Export.Scale != 2 || c.Export.Quality != export.QualityHigh {
		t.Errorf("export = %+v", c.Export)
	}
	if c.Storage.Driver != "sqlite" || c.Storage.Path != "/tmp/project.db" {
		t.Errorf("storage = %+v", c.Storage)
	}
	if c.Log.Format != "json" {
		t.Errorf("log = %+v", c.Log)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFile of missing file succeeded")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		want string
	}{
		{"syntax", "canvas: [", "parse"},
		{"canvas size", "canvas:\n  width: 0", "canvas"},
		{"history", "history:\n  capacity: -1", "history"},
		{"format", "export:\n  format: gif", "unsupported format"},
		{"quality", "export:\n  quality: ultra", "quality"},
		{"driver", "storage:\n  driver: postgres", "driver"},
		{"sqlite path", "storage:\n  path: \"\"", "path"},
		{"level", "log:\n  level: loud", "level"},
		{"log format", "log:\n  format: xml", "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEditorOptions(t *testing.T) {
	c := Defaults()
	c.Canvas.Width = 400
	c.Canvas.Zoom = 1000
	c.History.Capacity = 7

	ed := ggedit.New(c.EditorOptions()...)
	if ed.Canvas().Width != 400 {
		t.Errorf("canvas width = %v", ed.Canvas().Width)
	}
	if ed.Canvas().Zoom != ggedit.MaxZoom {
		t.Errorf("zoom = %d, want clamped to %d", ed.Canvas().Zoom, ggedit.MaxZoom)
	}
	if ed.History().Capacity() != 7 {
		t.Errorf("capacity = %d", ed.History().Capacity())
	}
}

func TestExportOptionsFollowCanvas(t *testing.T) {
	c, err := Parse([]byte("canvas:\n  width: 320\n  height: 240\nexport:\n  width: 0\n  height: 0"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	o := c.ExportOptions()
	if o.Width != 320 || o.Height != 240 {
		t.Errorf("export size = %vx%v, want 320x240", o.Width, o.Height)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, " warn ": slog.LevelWarn, "error": slog.LevelError} {
		if got, err := ParseLevel(in); err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
}
