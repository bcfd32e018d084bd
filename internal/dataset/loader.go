package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownProduct = errors.New("invalid product")
	ErrNoReviews      = errors.New("no reviews found")
)

// Loader resolves a product/brand pair to the review texts of its dataset.
type Loader struct {
	dir     string
	catalog *Catalog
}

func NewLoader(dir string, catalog *Catalog) *Loader {
	return &Loader{dir: dir, catalog: catalog}
}

func (l *Loader) Catalog() *Catalog {
	return l.catalog
}

// LoadReviews returns the non-empty review texts for the brand. It returns
// ErrNoReviews when no row matches the brand, and may return an empty slice
// when rows match but every text is missing.
func (l *Loader) LoadReviews(product, brand string) ([]string, error) {
	p, err := l.catalog.Lookup(product)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, p.File)
	t, err := readTable(path, p.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("load %s reviews: %w", p.Key, err)
	}

	textIdx, err := textColumn(t, p)
	if err != nil {
		return nil, fmt.Errorf("load %s reviews: %w", p.Key, err)
	}

	match, err := brandFilter(t, p, brand)
	if err != nil {
		return nil, fmt.Errorf("load %s reviews: %w", p.Key, err)
	}

	matched := 0
	var texts []string
	for _, row := range t.rows {
		if !match(row) {
			continue
		}
		matched++

		text := strings.TrimSpace(cell(row, textIdx))
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}

	if matched == 0 {
		return nil, ErrNoReviews
	}

	slog.Info("[DatasetLoader] Loaded reviews",
		slog.String("product", p.Key),
		slog.String("brand", brand),
		slog.Int("rows", matched),
		slog.Int("texts", len(texts)))

	return texts, nil
}

func textColumn(t *table, p Product) (int, error) {
	if p.TextColumn != "" {
		return t.column(p.TextColumn)
	}
	if *p.TextIndex >= len(t.header) {
		return -1, fmt.Errorf("text_index %d out of range for %d columns", *p.TextIndex, len(t.header))
	}
	return *p.TextIndex, nil
}

func brandFilter(t *table, p Product, brand string) (func([]string) bool, error) {
	if p.BrandMatch == BrandMatchNone {
		return func([]string) bool { return true }, nil
	}

	idx, err := t.column(p.BrandColumn)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(brand))
	if p.BrandMatch == BrandMatchExact {
		return func(row []string) bool {
			return strings.ToLower(strings.TrimSpace(cell(row, idx))) == want
		}, nil
	}
	return func(row []string) bool {
		return strings.Contains(strings.ToLower(cell(row, idx)), want)
	}, nil
}
