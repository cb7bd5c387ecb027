package main

import (
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/persist"
	"github.com/gogpu/ggedit/shape"
)

func seed(t *testing.T, path string, elems ...ggedit.Element) {
	t.Helper()
	s, err := persist.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	if err := persist.Save(context.Background(), s, persist.ElementsKey, elems); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "project.db")
	seed(t, db, ggedit.NewElement("a", "rect", "a", ggedit.KindRectangle,
		shape.List{shape.Rectangle{Width: 100, Height: 60}}, 10, 10))
	out := filepath.Join(dir, "design.png")
	t.Cleanup(func() { ggedit.SetLogger(nil) })

	err := rootCommand().Run(context.Background(), []string{
		"ggedit", "--db", db, "export", "--format", "png", "--scale", "0.5", "--out", out,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("size = %v, want 400x300", b)
	}
}

func TestExportCommandRejectsFormat(t *testing.T) {
	db := filepath.Join(t.TempDir(), "project.db")
	err := rootCommand().Run(context.Background(), []string{
		"ggedit", "--db", db, "export", "--format", "gif",
	})
	if err == nil {
		t.Error("export --format gif succeeded")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggedit.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  driver: memory\nlog:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ggedit.SetLogger(nil) })

	err := rootCommand().Run(context.Background(), []string{"ggedit", "--config", path, "library", "--search", "zzz"})
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if ggedit.Logger().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug logging enabled with level warn")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	err := rootCommand().Run(context.Background(), []string{"ggedit", "--config", "/nonexistent/ggedit.yaml", "export"})
	if err == nil {
		t.Error("missing config file accepted")
	}
}
