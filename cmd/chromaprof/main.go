package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"chromaprof/pkg/config"
	"chromaprof/pkg/logging"
	"chromaprof/pkg/pipeline"
)

func main() {
	app := &cli.App{
		Name:    "chromaprof",
		Usage:   "Profile luminance-normalized channel intensity of triplicate image groups along a distance axis.",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML `file` providing defaults for the flags below",
			},
			&cli.StringFlag{
				Name:    "identifier",
				Aliases: []string{"n"},
				Usage:   "dataset `tag` scoping all filenames of the run (e.g. W, SF)",
			},
			&cli.Float64Flag{
				Name:    "upper",
				Aliases: []string{"u"},
				Usage:   "`distance` at the left side of all images",
			},
			&cli.Float64Flag{
				Name:    "lower",
				Aliases: []string{"l"},
				Usage:   "`distance` toward the right side of all images (must be below upper)",
			},
			&cli.StringFlag{
				Name:    "channel",
				Aliases: []string{"c"},
				Usage:   "color `channel` to analyze (R, G or B)",
			},
			&cli.IntFlag{
				Name:    "blur",
				Aliases: []string{"b"},
				Usage:   "Gaussian blur `radius` applied before alignment (0 disables)",
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "`folder` containing the replicate images",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "`folder` receiving the CSV and aligned-image artifacts",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Usage: "`folder` receiving the per-run log file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Flags override whatever the config file provided.
	if ctx.IsSet("identifier") {
		cfg.Identifier = ctx.String("identifier")
	}
	if ctx.IsSet("upper") {
		cfg.DistanceUpper = ctx.Float64("upper")
	}
	if ctx.IsSet("lower") {
		cfg.DistanceLower = ctx.Float64("lower")
	}
	if ctx.IsSet("channel") {
		cfg.Channel = ctx.String("channel")
	}
	if ctx.IsSet("blur") {
		cfg.BlurRadius = ctx.Int("blur")
	}
	if ctx.IsSet("input") {
		cfg.InputDir = ctx.String("input")
	}
	if ctx.IsSet("output") {
		cfg.OutputDir = ctx.String("output")
	}
	if ctx.IsSet("log-dir") {
		cfg.LogDir = ctx.String("log-dir")
	}
	if ctx.IsSet("verbose") {
		cfg.Verbose = ctx.Bool("verbose")
	}

	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 1)
	}

	logger, closeLog, err := logging.New(cfg.LogDir, cfg.Identifier, cfg.Verbose)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeLog()

	logger.Infof("Starting run for identifier %q (channel %s, blur radius %d)",
		cfg.Identifier, cfg.Channel, cfg.BlurRadius)

	runner := pipeline.NewRunner(cfg, logger)
	startTime := time.Now()
	if err := runner.Process(); err != nil {
		logger.Errorf("Run aborted: %v", err)
		return cli.Exit(err.Error(), 1)
	}

	stats := runner.Stats()
	logger.Infof("Run completed in %.2f seconds", time.Since(startTime).Seconds())
	logger.Infof("Files scanned: %d", stats.FilesScanned)
	logger.Infof("Groups found: %d", stats.GroupsFound)
	logger.Infof("Groups processed: %d", stats.GroupsProcessed)
	if stats.GroupsSkipped > 0 {
		logger.Warnf("Groups skipped: %d", stats.GroupsSkipped)
	}

	return nil
}
