package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/planbiir/gpxding/internal/config"
	"github.com/planbiir/gpxding/internal/logging"
	"github.com/planbiir/gpxding/internal/metrics"
	"github.com/planbiir/gpxding/internal/process"
	"github.com/planbiir/gpxding/internal/reduce"
	"github.com/planbiir/gpxding/internal/report"
)

var version = "v1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if config.IsHelp(err) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if cfg.Version {
		fmt.Fprintf(stdout, "gpxding %s - GPS track reducer\n", version)
		return 0
	}

	if len(cfg.Files) == 0 {
		config.PrintUsage(stderr)
		return 2
	}

	// -q silences everything below errors unless debugging was asked for
	level := cfg.LogLevel
	if cfg.Quiet && logging.ParseLevel(level) > slog.LevelDebug {
		level = "error"
	}
	slog.SetDefault(logging.New(stderr, level, cfg.LogFormat))

	if cfg.Split {
		return split(cfg, stdout)
	}

	reducer, err := reduce.NewReducer(cfg.ReduceConfig())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	m := metrics.New()
	p := process.New(reducer, process.Options{
		Output:  cfg.Output,
		Format:  cfg.OutputFormat(),
		Digits:  cfg.Digits,
		Minimal: cfg.Minimal,
	}, m)

	var bar *progressbar.ProgressBar
	if len(cfg.Files) > 1 && !cfg.Quiet {
		bar = progressbar.NewOptions(len(cfg.Files),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Reducing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	exitCode := 0
	reports := make([]report.File, 0, len(cfg.Files))
	for _, input := range cfg.Files {
		rep, err := p.File(input)
		if err != nil {
			slog.Error("failed to reduce file", "file", input, "error", err)
			exitCode = 1
		} else {
			reports = append(reports, rep)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	// Reports go out after the progress bar has been cleared
	switch {
	case cfg.StatsJSON:
		if err := report.PrintJSON(stdout, reports); err != nil {
			slog.Error("failed to print statistics", "error", err)
			exitCode = 1
		}
	case !cfg.Quiet:
		for _, rep := range reports {
			if cfg.Detailed {
				report.PrintDetailed(stdout, rep)
			} else {
				report.Print(stdout, rep)
			}
		}
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			slog.Error("failed to write metrics", "file", cfg.MetricsFile, "error", err)
			exitCode = 1
		}
	}

	return exitCode
}

// split writes each track of every input to its own file
func split(cfg *config.Config, stdout io.Writer) int {
	exitCode := 0
	for _, input := range cfg.Files {
		written, err := process.Split(input)
		if err != nil {
			slog.Error("failed to split file", "file", input, "error", err)
			exitCode = 1
		}
		if cfg.Quiet {
			continue
		}
		for _, out := range written {
			fmt.Fprintf(stdout, "%s => %s\n", input, out)
		}
	}
	return exitCode
}
