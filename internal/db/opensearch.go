package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/spacesedan/sentify/internal/models"
)

const (
	ANALYSIS_RESULTS_INDEX  = "analysis-results"
	OPENSEARCH_HISTORY_SIZE = 100
)

// OpenSearchStore indexes each record as a document keyed by its ID, which
// also makes the history searchable from dashboards.
type OpenSearchStore struct {
	client *opensearch.Client
	index  string
}

func NewOpenSearchStore(client *opensearch.Client, index string) *OpenSearchStore {
	if index == "" {
		index = ANALYSIS_RESULTS_INDEX
	}
	return &OpenSearchStore{client: client, index: index}
}

func (s *OpenSearchStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	for _, record := range records {
		if err := s.indexRecord(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *OpenSearchStore) indexRecord(ctx context.Context, record models.AnalysisRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[OpenSearch] failed to marshal record %s: %w", record.ID, err)
	}

	req := opensearchapi.IndexReq{
		Index:      s.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(payload),
	}

	res, err := s.client.Do(ctx, req, nil)
	if err != nil {
		slog.Error("[OpenSearch] Failed to index analysis result",
			slog.String("id", record.ID),
			slog.String("error", err.Error()))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		slog.Error("[OpenSearch] OpenSearch indexing error",
			slog.String("status", res.Status()))
		return fmt.Errorf("opensearch error: %s", res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.AnalysisRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *OpenSearchStore) History(ctx context.Context, product, brand string, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = OPENSEARCH_HISTORY_SIZE
	}

	query, err := json.Marshal(map[string]any{
		"size": limit,
		"query": map[string]any{
			"term": map[string]any{
				"product_brand.keyword": models.ProductBrandKey(product, brand),
			},
		},
		"sort": []any{
			map[string]any{"created_at": map[string]string{"order": "desc"}},
		},
	})
	if err != nil {
		return nil, err
	}

	req := opensearchapi.SearchReq{
		Indices: []string{s.index},
		Body:    bytes.NewReader(query),
	}

	res, err := s.client.Do(ctx, req, nil)
	if err != nil {
		return nil, fmt.Errorf("[OpenSearch] history search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch error: %s", res.Status())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("[OpenSearch] unable to decode history: %w", err)
	}

	records := make([]models.AnalysisRecord, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}

func (s *OpenSearchStore) Close() error {
	return nil
}
