package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gchen/shorttrack-results/internal/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "shorttrack-results",
		Usage: "scrape, parse, and reconcile US short track speed skating results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "catalog",
				Usage:  "scrape the results page and build the competition catalog",
				Action: pipeline.CatalogAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "results page to scrape (overrides config)"},
					&cli.StringFlag{Name: "output", Usage: "catalog output path (overrides config)"},
				},
			},
			{
				Name:   "download",
				Usage:  "download every short track PDF in the catalog",
				Action: pipeline.DownloadAction,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "seasons", Usage: "limit to these seasons"},
					&cli.IntFlag{Name: "workers", Usage: "worker pool size (overrides config)"},
					&cli.BoolFlag{Name: "force", Usage: "re-download PDFs already on disk"},
				},
			},
			{
				Name:   "parse",
				Usage:  "parse the catalog PDFs into the results artifact",
				Action: pipeline.ParseAction,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "seasons", Usage: "limit to these seasons"},
					&cli.IntFlag{Name: "workers", Usage: "worker pool size (overrides config)"},
					&cli.BoolFlag{Name: "force", Usage: "re-download PDFs already on disk"},
					&cli.StringFlag{Name: "output", Usage: "artifact output path (overrides config)"},
				},
			},
			{
				Name:   "trends",
				Usage:  "merge all sources into per-skater time trends",
				Action: pipeline.TrendsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "skaters", Required: true, Usage: "skater roster JSON"},
					&cli.StringFlag{Name: "official", Usage: "official results artifact (overrides config)"},
					&cli.StringFlag{Name: "historical", Usage: "historical results artifact"},
					&cli.StringSliceFlag{Name: "scraped", Usage: "scraped season JSON files"},
					&cli.StringFlag{Name: "output", Usage: "artifact output path (overrides config)"},
				},
			},
			{
				Name:   "validate",
				Usage:  "cross-validate the scraped dataset against the official artifact",
				Action: pipeline.ValidateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "skaters", Required: true, Usage: "skater roster JSON"},
					&cli.StringFlag{Name: "official", Usage: "official results artifact (overrides config)"},
					&cli.StringFlag{Name: "output", Usage: "report output path (overrides config)"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
