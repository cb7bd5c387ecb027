package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/export"
	"github.com/gogpu/ggedit/persist"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Render the saved design to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "svg, png, jpg, bmp or tiff"},
			&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: "low, medium or high"},
			&cli.FloatFlag{Name: "scale", Usage: "raster scale factor"},
			&cli.FloatFlag{Name: "width", Usage: "output width in canvas units"},
			&cli.FloatFlag{Name: "height", Usage: "output height in canvas units"},
			&cli.BoolFlag{Name: "no-background", Usage: "leave the background transparent"},
			&cli.StringFlag{Name: "name", Usage: "base file name", Value: export.DefaultFilename},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default derived from --name and format)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			opts := cfg.ExportOptions()
			if v := c.String("format"); v != "" {
				if opts.Format, err = export.ParseFormat(v); err != nil {
					return err
				}
			}
			if v := c.String("quality"); v != "" {
				if opts.Quality, err = export.ParseQuality(v); err != nil {
					return err
				}
			}
			if c.IsSet("scale") {
				opts.Scale = c.Float("scale")
			}
			if c.IsSet("width") {
				opts.Width = c.Float("width")
			}
			if c.IsSet("height") {
				opts.Height = c.Float("height")
			}
			if c.Bool("no-background") {
				opts.IncludeBackground = false
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			elems, _, err := persist.Load[[]ggedit.Element](ctx, store, persist.ElementsKey)
			if err != nil {
				return err
			}

			res, err := export.Start(elems, opts).Wait(ctx)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = export.Filename(c.String("name"), res.Format)
			}
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("wrote %s (%s, %dx%d, %s)\n", out, res.Format, res.Width, res.Height, export.HumanSize(len(res.Data)))
			return nil
		},
	}
}
