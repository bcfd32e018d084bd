package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/sentify/internal/analysis"
)

// SORTABLE_TIME_LAYOUT is a fixed-width UTC layout, so stores that keep
// created_at as a string order it correctly by byte comparison.
const SORTABLE_TIME_LAYOUT = "2006-01-02T15:04:05.000000000Z"

// AnalysisRecord is one completed analysis of a product/brand pair, as stored
// in the result history and published to Kafka.
type AnalysisRecord struct {
	ID           string            `json:"id" dynamodbav:"id"`
	ProductBrand string            `json:"product_brand" dynamodbav:"product_brand"`
	Product      string            `json:"product" dynamodbav:"product"`
	Brand        string            `json:"brand" dynamodbav:"brand"`
	Result       analysis.Result   `json:"result" dynamodbav:"result"`
	Decision     analysis.Decision `json:"decision" dynamodbav:"decision"`
	CreatedAt    time.Time         `json:"created_at" dynamodbav:"created_at"`
}

func ProductBrandKey(product, brand string) string {
	return strings.ToLower(product) + "#" + strings.ToLower(brand)
}

func NewAnalysisRecord(product, brand string, result analysis.Result, decision analysis.Decision) AnalysisRecord {
	return AnalysisRecord{
		ID:           uuid.NewString(),
		ProductBrand: ProductBrandKey(product, brand),
		Product:      strings.ToLower(product),
		Brand:        strings.ToLower(brand),
		Result:       result,
		Decision:     decision,
		CreatedAt:    time.Now().UTC(),
	}
}
