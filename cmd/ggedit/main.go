// Command ggedit serves the editor over HTTP and exports saved designs.
//
// Usage:
//
//	ggedit serve --config ggedit.yaml --addr :8080
//	ggedit export --format png --scale 2 --out design.png
//	ggedit library --search star
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/config"
	_ "github.com/gogpu/ggedit/export/backends/raster"
	_ "github.com/gogpu/ggedit/export/backends/svg"
	"github.com/gogpu/ggedit/persist"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "ggedit:", err)
		stop()
		os.Exit(1)
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:  "ggedit",
		Usage: "Vector graphics editor core: HTTP surface and exporter",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides config)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (overrides config)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides config)"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			exportCommand(),
			libraryCommand(),
		},
	}
}

// loadConfig reads --config (or the defaults), applies the global flag
// overrides and installs the logger.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v := c.String("db"); v != "" {
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.Path = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	ggedit.SetLogger(slog.New(h))
	return cfg, nil
}

func openStore(cfg *config.Config) (persist.Port, error) {
	if cfg.Storage.Driver == "memory" {
		return persist.NewMemory(), nil
	}
	return persist.OpenSQLite(cfg.Storage.Path, persist.WithMkdirAll())
}
