package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type BrandMatch string

const (
	BrandMatchNone     BrandMatch = ""
	BrandMatchExact    BrandMatch = "exact"
	BrandMatchContains BrandMatch = "contains"
)

// Product describes where one product category's reviews live and how to
// pick the brand and review-text columns out of its table.
type Product struct {
	Key         string     `yaml:"-"`
	DisplayName string     `yaml:"display_name"`
	File        string     `yaml:"file"`
	Delimiter   string     `yaml:"delimiter"`
	BrandColumn string     `yaml:"brand_column"`
	BrandMatch  BrandMatch `yaml:"brand_match"`
	TextColumn  string     `yaml:"text_column"`
	TextIndex   *int       `yaml:"text_index"`
}

type Catalog struct {
	Products map[string]Product `yaml:"products"`
}

// LoadCatalog reads a catalog file, or the built-in catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var raw Catalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(raw.Products) == 0 {
		return nil, fmt.Errorf("catalog defines no products")
	}

	catalog := &Catalog{Products: make(map[string]Product, len(raw.Products))}
	for key, p := range raw.Products {
		key = strings.ToLower(strings.TrimSpace(key))
		p.Key = key
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("product %q: %w", key, err)
		}
		catalog.Products[key] = p
	}
	return catalog, nil
}

func (p Product) validate() error {
	if p.File == "" {
		return fmt.Errorf("file is required")
	}
	if p.TextColumn == "" && p.TextIndex == nil {
		return fmt.Errorf("text_column or text_index is required")
	}
	if p.TextIndex != nil && *p.TextIndex < 0 {
		return fmt.Errorf("text_index must not be negative")
	}
	switch p.BrandMatch {
	case BrandMatchNone:
	case BrandMatchExact, BrandMatchContains:
		if p.BrandColumn == "" {
			return fmt.Errorf("brand_column is required for brand_match %q", p.BrandMatch)
		}
	default:
		return fmt.Errorf("unknown brand_match %q", p.BrandMatch)
	}
	if len([]rune(p.Delimiter)) > 1 {
		return fmt.Errorf("delimiter must be a single character")
	}
	return nil
}

// Lookup is case-insensitive.
func (c *Catalog) Lookup(product string) (Product, error) {
	p, ok := c.Products[strings.ToLower(strings.TrimSpace(product))]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, product)
	}
	return p, nil
}

// Keys returns the product keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Products))
	for k := range c.Products {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
