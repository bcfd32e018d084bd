package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

const SCORE_CACHE_PREFIX = "sentify:score:"

// ScoreStore persists compound scores keyed by text hash.
type ScoreStore interface {
	GetScore(ctx context.Context, key string) (float64, bool, error)
	SetScore(ctx context.Context, key string, score float64, ttl time.Duration) error
}

type scorer interface {
	Score(text string) (float64, error)
}

// CachedScorer looks scores up in a ScoreStore before asking the wrapped
// scorer. Store failures fall through to the wrapped scorer.
type CachedScorer struct {
	next    scorer
	store   ScoreStore
	ttl     time.Duration
	timeout time.Duration
}

func NewCachedScorer(next scorer, store ScoreStore, ttl time.Duration) *CachedScorer {
	return &CachedScorer{
		next:    next,
		store:   store,
		ttl:     ttl,
		timeout: time.Second,
	}
}

func CacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return SCORE_CACHE_PREFIX + hex.EncodeToString(hash[:])
}

func (c *CachedScorer) Score(text string) (float64, error) {
	key := CacheKey(text)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	score, found, err := c.store.GetScore(ctx, key)
	if err != nil {
		slog.Warn("[ScoreCache] Lookup failed, scoring directly",
			slog.String("error", err.Error()))
	} else if found {
		return score, nil
	}

	score, err = c.next.Score(text)
	if err != nil {
		return 0, err
	}

	if err := c.store.SetScore(ctx, key, score, c.ttl); err != nil {
		slog.Warn("[ScoreCache] Failed to store score",
			slog.String("error", err.Error()))
	}
	return score, nil
}
