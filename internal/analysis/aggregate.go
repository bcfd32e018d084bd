package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when a corpus holds no scoreable text.
var ErrNoData = errors.New("no reviews to analyze")

// TextScorer returns a compound polarity score in [-1, 1] for one text.
// Implementations must be safe for concurrent use.
type TextScorer interface {
	Score(text string) (float64, error)
}

// Result is the read-only summary of a finished tally.
type Result struct {
	Total int `json:"total"`

	PositivePct float64 `json:"positive_pct"`
	NegativePct float64 `json:"negative_pct"`
	NeutralPct  float64 `json:"neutral_pct"`

	HappyPct          float64 `json:"happy_pct"`
	SadPct            float64 `json:"sad_pct"`
	AngryPct          float64 `json:"angry_pct"`
	EmotionNeutralPct float64 `json:"emotion_neutral_pct"`

	Score float64 `json:"score"`
}

// Aggregate scores every non-empty text once and reduces the buckets into a
// Result. Texts the scorer rejects are skipped and do not count toward Total.
func Aggregate(texts []string, scorer TextScorer) (Result, error) {
	tally := scoreInto(texts, scorer)
	return tally.Result()
}

// AggregateConcurrent splits the corpus across workers, each folding into its
// own Tally, and merges the partial tallies. The outcome is identical to
// Aggregate since the fold is order-independent.
func AggregateConcurrent(ctx context.Context, texts []string, scorer TextScorer, workers int) (Result, error) {
	if workers <= 1 || len(texts) < 2 {
		return Aggregate(texts, scorer)
	}
	if workers > len(texts) {
		workers = len(texts)
	}

	partials := make([]Tally, workers)
	chunk := (len(texts) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(texts) {
			break
		}
		end := min(start+chunk, len(texts))

		w := w
		g.Go(func() error {
			for _, text := range texts[start:end] {
				if err := gctx.Err(); err != nil {
					return err
				}
				scoreOne(&partials[w], text, scorer)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var tally Tally
	for _, p := range partials {
		tally.Merge(p)
	}
	return tally.Result()
}

func scoreInto(texts []string, scorer TextScorer) Tally {
	var tally Tally
	for _, text := range texts {
		scoreOne(&tally, text, scorer)
	}
	return tally
}

func scoreOne(tally *Tally, text string, scorer TextScorer) {
	if strings.TrimSpace(text) == "" {
		return
	}

	compound, err := scorer.Score(text)
	if err != nil {
		slog.Warn("[Aggregator] Skipping text the scorer could not handle",
			slog.String("error", err.Error()))
		return
	}
	if math.IsNaN(compound) {
		slog.Warn("[Aggregator] Skipping text with NaN score")
		return
	}
	if compound < -1 || compound > 1 {
		slog.Warn("[Aggregator] Score out of range, clamping",
			slog.Float64("score", compound))
		compound = clamp(compound, -1, 1)
	}

	tally.Add(Classify(compound))
}

// Result reduces the tally into percentages and the net-sentiment score.
// It returns ErrNoData for an empty tally.
func (t Tally) Result() (Result, error) {
	total := t.Total()
	if total == 0 {
		return Result{}, ErrNoData
	}

	pct := func(n int) float64 {
		return round2(float64(n) / float64(total) * 100)
	}

	// Neutral reviews widen the denominator only.
	net := float64(t.Positive-t.Negative) / float64(total) * 100
	score := clamp(round2(net+50), 0, 100)

	return Result{
		Total:             total,
		PositivePct:       pct(t.Positive),
		NegativePct:       pct(t.Negative),
		NeutralPct:        pct(t.Neutral),
		HappyPct:          pct(t.Happy),
		SadPct:            pct(t.Sad),
		AngryPct:          pct(t.Angry),
		EmotionNeutralPct: pct(t.EmotionNeutral),
		Score:             score,
	}, nil
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
