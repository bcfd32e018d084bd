package processing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/dataset"
	"github.com/spacesedan/sentify/internal/models"
	"github.com/spacesedan/sentify/internal/report"
)

type ReviewLoader interface {
	LoadReviews(product, brand string) ([]string, error)
	Catalog() *dataset.Catalog
}

type ResultRecorder interface {
	Record(ctx context.Context, record models.AnalysisRecord)
}

type ResultPublisher interface {
	Publish(ctx context.Context, record models.AnalysisRecord) error
}

// Analyzer runs one product/brand analysis end to end: load reviews, score
// and aggregate them, decide, then hand the record to history and events.
type Analyzer struct {
	loader    ReviewLoader
	scorer    analysis.TextScorer
	rule      analysis.Rule
	workers   int
	recorder  ResultRecorder
	publisher ResultPublisher
}

type Option func(*Analyzer)

func WithRule(rule analysis.Rule) Option {
	return func(a *Analyzer) { a.rule = rule }
}

func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

func WithRecorder(r ResultRecorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

func WithPublisher(p ResultPublisher) Option {
	return func(a *Analyzer) { a.publisher = p }
}

func NewAnalyzer(loader ReviewLoader, scorer analysis.TextScorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		loader:  loader,
		scorer:  scorer,
		rule:    analysis.DefaultRule,
		workers: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Catalog() *dataset.Catalog {
	return a.loader.Catalog()
}

// Analyze returns dataset.ErrUnknownProduct for products outside the catalog
// and an error wrapping dataset.ErrNoReviews or analysis.ErrNoData when there
// is nothing to score.
func (a *Analyzer) Analyze(ctx context.Context, product, brand string) (report.Report, error) {
	start := time.Now()

	p, err := a.loader.Catalog().Lookup(product)
	if err != nil {
		return report.Report{}, err
	}

	texts, err := a.loader.LoadReviews(p.Key, brand)
	if err != nil {
		return report.Report{}, err
	}

	result, err := analysis.AggregateConcurrent(ctx, texts, a.scorer, a.workers)
	if err != nil {
		return report.Report{}, fmt.Errorf("analyze %s/%s: %w", p.Key, brand, err)
	}

	decision := a.rule(result)
	slog.Info("[Analyzer] Analysis complete",
		slog.String("product", p.Key),
		slog.String("brand", brand),
		slog.Int("total", result.Total),
		slog.Float64("score", result.Score),
		slog.String("decision", string(decision)),
		slog.Duration("elapsed", time.Since(start)))

	record := models.NewAnalysisRecord(p.Key, brand, result, decision)
	if a.recorder != nil {
		a.recorder.Record(ctx, record)
	}
	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, record); err != nil {
			slog.Warn("[Analyzer] Failed to publish analysis result",
				slog.String("product_brand", record.ProductBrand),
				slog.String("error", err.Error()))
		}
	}

	return report.New(displayName(p), brand, result, decision), nil
}

func displayName(p dataset.Product) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return report.Capitalize(p.Key)
}
