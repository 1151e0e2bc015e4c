package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/tmorg/refbuilder/internal/build"
	"github.com/tmorg/refbuilder/internal/config"
	"github.com/tmorg/refbuilder/internal/logfields"
	"github.com/tmorg/refbuilder/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"refbuilder.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Ref    string `help:"Input reference manual HTML file"`
		Output string `short:"o" help:"Output directory for the Markdown tree"`
	} `cmd:"" help:"Convert the reference manual into a Markdown tree"`

	Watch struct {
		Ref    string `help:"Input reference manual HTML file"`
		Output string `short:"o" help:"Output directory for the Markdown tree"`
	} `cmd:"" help:"Rebuild the Markdown tree whenever the input changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	switch ctx.Command() {
	case "build":
		applyFlags(cfg, CLI.Build.Ref, CLI.Build.Output)
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "watch":
		applyFlags(cfg, CLI.Watch.Ref, CLI.Watch.Output)
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// applyFlags lets CLI flags take precedence over file and environment
// configuration.
func applyFlags(cfg *config.Config, ref, output string) {
	if ref != "" {
		cfg.Input = ref
	}
	if output != "" {
		cfg.Output = output
	}
}

func runBuild(cfg *config.Config) error {
	report, err := build.NewService(cfg).Run()
	if err != nil {
		return err
	}
	report.Log()
	return nil
}

func runWatch(cfg *config.Config) error {
	if err := runBuild(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, err := watch.New(cfg.Input, func() {
		if err := runBuild(cfg); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
		}
	})
	if err != nil {
		return err
	}

	return w.Run(ctx)
}
