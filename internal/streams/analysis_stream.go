package streams

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/sentify/internal/models"
)

// RecordSink receives analyses that landed in the DynamoDB history table.
type RecordSink interface {
	Save(ctx context.Context, records ...models.AnalysisRecord) error
}

type publisher interface {
	Publish(ctx context.Context, record models.AnalysisRecord) error
}

// PublisherSink forwards each record to a publisher, e.g. Kafka.
type PublisherSink struct {
	Publisher publisher
}

func (p PublisherSink) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	for _, r := range records {
		if err := p.Publisher.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Handler fans new analysis rows from the table stream out to its sinks.
type Handler struct {
	sinks []RecordSink
}

func NewHandler(sinks ...RecordSink) *Handler {
	return &Handler{sinks: sinks}
}

// DecodeAnalysisRecord returns false for events other than INSERT; records
// are never updated in place.
func DecodeAnalysisRecord(record events.DynamoDBEventRecord) (models.AnalysisRecord, bool, error) {
	var out models.AnalysisRecord
	if record.EventName != string(events.DynamoDBOperationTypeInsert) {
		slog.Debug("[Streams] Skipping non-INSERT event",
			slog.String("event_id", record.EventID),
			slog.String("event_name", record.EventName))
		return out, false, nil
	}

	if err := UnmarshalImage(record.Change.NewImage, &out); err != nil {
		return out, false, fmt.Errorf("event %s: %w", record.EventID, err)
	}
	return out, true, nil
}

// HandleRequest fails the whole batch on the first error so Lambda retries it.
func (h *Handler) HandleRequest(ctx context.Context, event events.DynamoDBEvent) error {
	slog.Info("[Streams] Received DynamoDB event",
		slog.Int("record_count", len(event.Records)))

	var records []models.AnalysisRecord
	for _, r := range event.Records {
		record, ok, err := DecodeAnalysisRecord(r)
		if err != nil {
			slog.Error("[Streams] Failed to decode analysis record",
				slog.String("event_id", r.EventID),
				slog.String("error", err.Error()))
			return err
		}
		if ok {
			records = append(records, record)
		}
	}

	if len(records) == 0 {
		return nil
	}

	for _, sink := range h.sinks {
		if err := sink.Save(ctx, records...); err != nil {
			return fmt.Errorf("[Streams] sink failed: %w", err)
		}
	}

	slog.Info("[Streams] Forwarded analysis records",
		slog.Int("count", len(records)),
		slog.Int("sinks", len(h.sinks)))
	return nil
}
