package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"worldtrends/config"
	"worldtrends/feeds"
	"worldtrends/geo"
	"worldtrends/output"
	"worldtrends/pipeline"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var summaryStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("42"))

func main() {
	// handle --version / -v
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("worldtrends %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfgPath = flag.String("config", "", "path to YAML config (optional)")
		outDir  = flag.String("out", "", "output directory (overrides config)")
		geoFile = flag.String("geo", "", "country reference GeoJSON path (overrides config)")
		timeout = flag.Duration("timeout", 0, "per-source fetch timeout (overrides config)")
		verbose = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *geoFile != "" {
		cfg.GeoFile = *geoFile
	}

	fetchTimeout := cfg.FetchTimeout()
	if *timeout > 0 {
		fetchTimeout = *timeout
	}

	lookup, err := geo.BuildLookup(cfg.GeoFile)
	if err != nil {
		slog.Error("building country lookup", "error", err)
		os.Exit(1)
	}
	slog.Debug("country lookup ready", "aliases", lookup.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	p := &pipeline.Pipeline{
		Sources: cfg.Sources,
		Lookup:  lookup,
		Fetcher: feeds.NewFetcher(cfg.UserAgent, fetchTimeout),
	}
	res := p.Run(ctx)

	idx := output.BuildIndex(res.Events, cfg.Sources, res.GeneratedAt)
	if err := output.Write(cfg.OutputDir, res.Events, idx); err != nil {
		slog.Error("writing output", "error", err)
		os.Exit(1)
	}

	slog.Debug("run finished", "elapsed", time.Since(start).Truncate(time.Millisecond))
	fmt.Println(summaryStyle.Render(
		fmt.Sprintf("generated %d events at %s", len(res.Events), res.GeneratedAt)))
}
