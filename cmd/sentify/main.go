package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spacesedan/sentify/config"
	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/dataset"
	"github.com/spacesedan/sentify/internal/logging"
	"github.com/spacesedan/sentify/internal/processing"
	"github.com/spacesedan/sentify/internal/sentiment"
)

func main() {
	config.LoadEnv(config.Environment())
	cfg := config.Load()

	format := flag.String("format", "markdown", "output format: markdown or html")
	list := flag.Bool("list", false, "list the known product categories and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: sentify [flags] <product> <brand>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.InitLogger(cfg.LogLevel)

	catalog, err := dataset.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		slog.Error("[Main] Failed to load product catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *list {
		for _, key := range catalog.Keys() {
			fmt.Printf("%-12s %s\n", key, catalog.Products[key].DisplayName)
		}
		return
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyzer := processing.NewAnalyzer(
		dataset.NewLoader(cfg.DatasetDir, catalog),
		sentiment.NewVaderScorer(),
		processing.WithWorkers(cfg.ScorerWorkers),
		processing.WithRule(analysis.NegativeShareRule(cfg.NegativeThreshold)),
	)

	rep, err := analyzer.Analyze(ctx, flag.Arg(0), flag.Arg(1))
	switch {
	case errors.Is(err, dataset.ErrUnknownProduct):
		fmt.Fprintf(os.Stderr, "%s: %q (known: %v)\n", dataset.ErrUnknownProduct, flag.Arg(0), catalog.Keys())
		os.Exit(1)
	case errors.Is(err, dataset.ErrNoReviews), errors.Is(err, analysis.ErrNoData):
		fmt.Fprintln(os.Stderr, dataset.ErrNoReviews)
		os.Exit(1)
	case err != nil:
		slog.Error("[Main] Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *format == "html" {
		fmt.Print(rep.HTML())
		return
	}
	fmt.Print(rep.Markdown())
}
