package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/ggedit/library"
)

func libraryCommand() *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "List the built-in element templates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "filter templates by name"},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if _, err := loadConfig(c); err != nil {
				return err
			}
			cats := library.Search(c.String("search"))
			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cats)
			}
			if len(cats) == 0 {
				fmt.Println("no templates")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, cat := range cats {
				fmt.Fprintf(w, "%s\n", cat.Name)
				for _, t := range cat.Templates {
					fmt.Fprintf(w, "  %s\t%s\t%d primitives\n", t.ID, t.Name, len(t.Content))
				}
			}
			return w.Flush()
		},
	}
}
