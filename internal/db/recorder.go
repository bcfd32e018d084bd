package db

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/sentify/internal/models"
	"github.com/spacesedan/sentify/internal/utils"
)

const (
	RECORDER_BATCH_SIZE    = DYNAMODB_BATCH_SIZE
	RECORDER_FLUSH_TIMEOUT = 5 * time.Second
)

// Recorder buffers completed analyses and writes them to a ResultStore in
// batches, either when the buffer fills or on the flush ticker.
type Recorder struct {
	store   ResultStore
	buffer  *utils.BatchBuffer[models.AnalysisRecord]
	flushMu sync.Mutex
}

func NewRecorder(store ResultStore) *Recorder {
	return &Recorder{
		store:  store,
		buffer: utils.NewBatchBuffer[models.AnalysisRecord](RECORDER_BATCH_SIZE),
	}
}

func (r *Recorder) Record(ctx context.Context, record models.AnalysisRecord) {
	if full := r.buffer.Add(record); full {
		r.Flush(ctx)
	}
}

// Flush writes everything buffered so far. Failed batches are logged and
// dropped; history is best-effort.
func (r *Recorder) Flush(ctx context.Context) {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	batch := r.buffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	if err := r.store.Save(ctx, batch...); err != nil {
		slog.Error("[Recorder] Failed to write analysis results",
			slog.Int("batch_size", len(batch)),
			slog.String("error", err.Error()))
		return
	}
	slog.Info("[Recorder] Flushed analysis results",
		slog.Int("batch_size", len(batch)))
}

// Run flushes on a ticker until ctx is done, then flushes once more.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = RECORDER_FLUSH_TIMEOUT
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Flush(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}
