package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/models"
)

const POSTGRES_CONNECT_TIMEOUT = 5 * time.Second

// PostgresStore keeps the result history in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, POSTGRES_CONNECT_TIMEOUT)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("[DB] Unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("[DB] Failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("[DB] Failed to init schema: %w", err)
	}

	slog.Info("[DB] Connected to PostgreSQL successfully")
	return &PostgresStore{pool: pool}, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	product_brand TEXT NOT NULL,
	product TEXT NOT NULL,
	brand TEXT NOT NULL,
	total INTEGER NOT NULL,
	positive_pct DOUBLE PRECISION NOT NULL,
	negative_pct DOUBLE PRECISION NOT NULL,
	neutral_pct DOUBLE PRECISION NOT NULL,
	happy_pct DOUBLE PRECISION NOT NULL,
	sad_pct DOUBLE PRECISION NOT NULL,
	angry_pct DOUBLE PRECISION NOT NULL,
	emotion_neutral_pct DOUBLE PRECISION NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	decision TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_product_brand ON analyses (product_brand, created_at DESC);
`

func (s *PostgresStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		res := r.Result
		batch.Queue(`
INSERT INTO analyses (
	id, product_brand, product, brand, total,
	positive_pct, negative_pct, neutral_pct,
	happy_pct, sad_pct, angry_pct, emotion_neutral_pct,
	score, decision, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO NOTHING`,
			r.ID, r.ProductBrand, r.Product, r.Brand, res.Total,
			res.PositivePct, res.NegativePct, res.NeutralPct,
			res.HappyPct, res.SadPct, res.AngryPct, res.EmotionNeutralPct,
			res.Score, string(r.Decision), r.CreatedAt.UTC())
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, r := range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("[DB] Failed to insert analysis %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, product, brand string, limit int) ([]models.AnalysisRecord, error) {
	// LIMIT NULL means no limit.
	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := s.pool.Query(ctx, `
SELECT id, product_brand, product, brand, total,
	positive_pct, negative_pct, neutral_pct,
	happy_pct, sad_pct, angry_pct, emotion_neutral_pct,
	score, decision, created_at
FROM analyses
WHERE product_brand = $1
ORDER BY created_at DESC
LIMIT $2`, models.ProductBrandKey(product, brand), lim)
	if err != nil {
		return nil, fmt.Errorf("[DB] Query for history failed: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var (
			r        models.AnalysisRecord
			res      analysis.Result
			decision string
		)
		if err := rows.Scan(
			&r.ID, &r.ProductBrand, &r.Product, &r.Brand, &res.Total,
			&res.PositivePct, &res.NegativePct, &res.NeutralPct,
			&res.HappyPct, &res.SadPct, &res.AngryPct, &res.EmotionNeutralPct,
			&res.Score, &decision, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.Result = res
		r.Decision = analysis.Decision(decision)
		r.CreatedAt = r.CreatedAt.UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
