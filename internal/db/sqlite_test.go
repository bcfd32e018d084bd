package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func recordAt(product, brand string, score float64, at time.Time) models.AnalysisRecord {
	r := models.NewAnalysisRecord(product, brand,
		analysis.Result{Total: 4, PositivePct: 50, NegativePct: 25, NeutralPct: 25,
			HappyPct: 25, SadPct: 25, EmotionNeutralPct: 50, Score: score},
		analysis.DecisionRecommended)
	r.CreatedAt = at
	return r
}

func TestSQLiteStore_SaveAndHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	older := recordAt("mobile", "samsung", 60, base)
	newer := recordAt("mobile", "samsung", 70, base.Add(time.Hour))
	other := recordAt("laptop", "dell", 10, base)

	require.NoError(t, store.Save(ctx, older, other))
	require.NoError(t, store.Save(ctx, newer))

	history, err := store.History(ctx, "Mobile", "SAMSUNG", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, older.ID, history[1].ID)
	assert.Equal(t, newer.Result, history[0].Result)
	assert.Equal(t, analysis.DecisionRecommended, history[0].Decision)
	assert.True(t, newer.CreatedAt.Equal(history[0].CreatedAt))

	limited, err := store.History(ctx, "mobile", "samsung", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := store.History(ctx, "headphones", "sony", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, recordAt("smart", "echo", 80, time.Now())))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.History(ctx, "smart", "echo", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
