package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/persist"
	"github.com/gogpu/ggedit/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP editor surface",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides config)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if v := c.String("addr"); v != "" {
				cfg.Server.Addr = v
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ed := ggedit.New(cfg.EditorOptions()...)
			loaded, err := persist.LoadEditor(ctx, store, ed)
			if err != nil {
				return err
			}
			ggedit.Logger().Info("ggedit: project opened",
				"driver", cfg.Storage.Driver,
				"path", cfg.Storage.Path,
				"restored", loaded,
				"elements", ed.Store().Len(),
			)

			saver := persist.NewAutosaver(store, ed)
			defer saver.Stop()

			srv := server.New(ed, server.WithExportDefaults(cfg.Export))
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}
}
