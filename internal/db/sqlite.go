package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/models"
)

// SQLiteStore keeps the result history in a local database file.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	product_brand TEXT NOT NULL,
	product TEXT NOT NULL,
	brand TEXT NOT NULL,
	total INTEGER NOT NULL,
	positive_pct REAL NOT NULL,
	negative_pct REAL NOT NULL,
	neutral_pct REAL NOT NULL,
	happy_pct REAL NOT NULL,
	sad_pct REAL NOT NULL,
	angry_pct REAL NOT NULL,
	emotion_neutral_pct REAL NOT NULL,
	score REAL NOT NULL,
	decision TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_product_brand ON analyses(product_brand, created_at);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO analyses (
	id, product_brand, product, brand, total,
	positive_pct, negative_pct, neutral_pct,
	happy_pct, sad_pct, angry_pct, emotion_neutral_pct,
	score, decision, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		res := r.Result
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.ProductBrand, r.Product, r.Brand, res.Total,
			res.PositivePct, res.NegativePct, res.NeutralPct,
			res.HappyPct, res.SadPct, res.AngryPct, res.EmotionNeutralPct,
			res.Score, string(r.Decision), r.CreatedAt.UTC().Format(models.SORTABLE_TIME_LAYOUT),
		); err != nil {
			return fmt.Errorf("insert analysis %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) History(ctx context.Context, product, brand string, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, product_brand, product, brand, total,
	positive_pct, negative_pct, neutral_pct,
	happy_pct, sad_pct, angry_pct, emotion_neutral_pct,
	score, decision, created_at
FROM analyses
WHERE product_brand = ?
ORDER BY created_at DESC
LIMIT ?`, models.ProductBrandKey(product, brand), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var (
			r         models.AnalysisRecord
			res       analysis.Result
			decision  string
			createdAt string
		)
		if err := rows.Scan(
			&r.ID, &r.ProductBrand, &r.Product, &r.Brand, &res.Total,
			&res.PositivePct, &res.NegativePct, &res.NeutralPct,
			&res.HappyPct, &res.SadPct, &res.AngryPct, &res.EmotionNeutralPct,
			&res.Score, &decision, &createdAt,
		); err != nil {
			return nil, err
		}

		r.Result = res
		r.Decision = analysis.Decision(decision)
		r.CreatedAt, err = time.Parse(models.SORTABLE_TIME_LAYOUT, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
