// Command lookup queries the settlement dataset from the terminal.
//
//	lookup query --q kızılay --region Ankara
//	lookup --source file --path data.csv browse
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/JonMunkholm/settlements/internal/config"
	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/JonMunkholm/settlements/internal/logging"
	"github.com/JonMunkholm/settlements/internal/source"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", core.FormatUserError(err))
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	filterFlags := []cli.Flag{
		&cli.StringFlag{Name: "q", Aliases: []string{"search"}, Usage: "Free-text search across all columns"},
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Page number", Value: 1},
	}
	for _, f := range core.Fields {
		filterFlags = append(filterFlags, &cli.StringFlag{
			Name:  f.Key(),
			Usage: fmt.Sprintf("Filter by %s (%s)", f.Key(), f.Label()),
		})
	}

	return &cli.App{
		Name:      "lookup",
		Usage:     "Search Turkish settlements by province, district, municipality and neighborhood",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Data source: embedded, file, http, postgres, s3 (default from DATA_SOURCE)",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "JSON or CSV dataset file; implies --source file",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Dataset URL; implies --source http",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Rows per page (default from PAGE_SIZE)",
			},
			&cli.BoolFlag{
				Name:  "no-fallback",
				Usage: "Fail instead of serving the built-in dataset when the source is unavailable",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "query",
				Usage:  "Print one page of matching settlements",
				Action: queryCommand,
				Flags: append(filterFlags, &cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "Output format: table, json, csv (csv prints every match)",
					Value:   "table",
				}),
			},
			{
				Name:   "browse",
				Usage:  "Interactive session reading commands from stdin",
				Action: browseCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	_ = config.LoadDotEnv()
	slog.SetDefault(logging.New(c.App.ErrWriter, c.String("log-level"), "text"))
	return nil
}

// loadConfig reads the environment with command-line overrides applied.
func loadConfig(c *cli.Context) (*config.Config, error) {
	overrides := map[string]string{}
	switch {
	case c.IsSet("source"):
		overrides["DATA_SOURCE"] = c.String("source")
	case c.IsSet("path"):
		overrides["DATA_SOURCE"] = config.SourceFile
	case c.IsSet("url"):
		overrides["DATA_SOURCE"] = config.SourceHTTP
	}
	if c.IsSet("path") {
		overrides["DATA_PATH"] = c.String("path")
	}
	if c.IsSet("url") {
		overrides["DATA_URL"] = c.String("url")
	}
	if c.IsSet("page-size") {
		overrides["PAGE_SIZE"] = fmt.Sprint(c.Int("page-size"))
	}
	if c.Bool("no-fallback") {
		overrides["DATA_FALLBACK"] = "false"
	}

	return config.LoadFrom(func(key string) string {
		if v, ok := overrides[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}

// openCatalog loads the dataset once for the lifetime of the command.
func openCatalog(c *cli.Context) (*core.Catalog, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, func() {}, err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	loader, cleanup, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}

	catalog := core.NewCatalog(loader, core.WithPageSize(cfg.Query.PageSize))
	if _, err := catalog.Reload(ctx); err != nil {
		return nil, cleanup, err
	}
	return catalog, cleanup, nil
}

func queryCommand(c *cli.Context) error {
	catalog, cleanup, err := openCatalog(c)
	defer cleanup()
	if err != nil {
		return err
	}

	var filters core.FilterState
	for _, f := range core.Fields {
		filters = filters.With(f, strings.TrimSpace(c.String(f.Key())))
	}
	q := core.Query{Search: strings.TrimSpace(c.String("q")), Filters: filters, Page: c.Int("page")}

	out := c.App.Writer
	switch c.String("format") {
	case "json":
		res, ds, err := catalog.Query(q)
		if err != nil {
			return err
		}
		return writeJSON(out, res, ds)
	case "csv":
		records, _, err := catalog.Matching(q.Search, q.Filters)
		if err != nil {
			return err
		}
		return writeCSV(out, records)
	case "table", "":
		res, _, err := catalog.Query(q)
		if err != nil {
			return err
		}
		return writeTable(out, res)
	default:
		return fmt.Errorf("unknown format %q (want table, json or csv)", c.String("format"))
	}
}

func browseCommand(c *cli.Context) error {
	catalog, cleanup, err := openCatalog(c)
	defer cleanup()
	if err != nil {
		return err
	}

	ds := catalog.Dataset()
	if ds.Fallback {
		fmt.Fprintln(c.App.ErrWriter, "warning: data source unavailable, browsing the built-in dataset")
	}

	session := newSession(core.NewBrowser(ds.Records, catalog.PageSize()), c.App.Writer)
	return session.run(c.App.Reader)
}
