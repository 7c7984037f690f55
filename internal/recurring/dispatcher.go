package recurring

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MaxChunkSize is the bulk-write limit of the target stores.
const MaxChunkSize = 25

// BulkWriter writes one chunk of instances to table in a single bulk call.
type BulkWriter interface {
	BulkPut(ctx context.Context, table string, items []Instance) error
}

// DispatcherConfig configures a BatchDispatcher.
type DispatcherConfig struct {
	Table       string
	ChunkSize   int // clamped to [1, MaxChunkSize]
	Concurrency int // 1 submits chunks sequentially
}

// BatchDispatcher splits instances into chunks and submits each chunk to a
// BulkWriter. Chunks are not atomic as a whole: a failure leaves the chunks
// already written in place.
type BatchDispatcher struct {
	writer      BulkWriter
	table       string
	chunkSize   int
	concurrency int
	logger      logrus.FieldLogger
}

// NewBatchDispatcher creates a BatchDispatcher.
func NewBatchDispatcher(writer BulkWriter, cfg DispatcherConfig, logger logrus.FieldLogger) *BatchDispatcher {
	chunkSize := cfg.ChunkSize
	if chunkSize < 1 || chunkSize > MaxChunkSize {
		chunkSize = MaxChunkSize
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchDispatcher{
		writer:      writer,
		table:       cfg.Table,
		chunkSize:   chunkSize,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Chunk splits instances into consecutive slices of at most size items.
func Chunk(instances []Instance, size int) [][]Instance {
	if size < 1 {
		size = MaxChunkSize
	}
	chunks := make([][]Instance, 0, (len(instances)+size-1)/size)
	for start := 0; start < len(instances); start += size {
		end := min(start+size, len(instances))
		chunks = append(chunks, instances[start:end])
	}
	return chunks
}

// Persist writes instances chunk by chunk. On failure it returns a
// *PersistenceError naming the chunks that succeeded, failed, or were never tried.
func (d *BatchDispatcher) Persist(ctx context.Context, instances []Instance) error {
	chunks := Chunk(instances, d.chunkSize)
	if len(chunks) == 0 {
		return nil
	}

	var results []error
	if d.concurrency == 1 {
		results = d.persistSequential(ctx, chunks)
	} else {
		results = d.persistConcurrent(ctx, chunks)
	}

	report := &PersistenceError{Table: d.table, TotalChunks: len(chunks)}
	for i, err := range results {
		switch {
		case errors.Is(err, errNotAttempted):
			report.NotAttempted = append(report.NotAttempted, i)
		case err != nil:
			report.Failed = append(report.Failed, ChunkFailure{Index: i, Size: len(chunks[i]), Err: err})
		default:
			report.Succeeded = append(report.Succeeded, i)
		}
	}

	entry := d.logger.WithFields(logrus.Fields{
		"table":     d.table,
		"instances": len(instances),
		"chunks":    len(chunks),
		"succeeded": len(report.Succeeded),
	})
	if len(report.Failed) == 0 {
		entry.Info("BatchDispatcher.Persist.Complete")
		return nil
	}
	entry.WithError(report).Error("BatchDispatcher.Persist.PartialFailure")
	return report
}

func (d *BatchDispatcher) persistSequential(ctx context.Context, chunks [][]Instance) []error {
	results := make([]error, len(chunks))
	for i := range results {
		results[i] = errNotAttempted
	}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			results[i] = err
			return results
		}
		if err := d.writer.BulkPut(ctx, d.table, chunk); err != nil {
			results[i] = err
			return results
		}
		results[i] = nil
	}
	return results
}

func (d *BatchDispatcher) persistConcurrent(ctx context.Context, chunks [][]Instance) []error {
	results := make([]error, len(chunks))

	var group errgroup.Group
	group.SetLimit(d.concurrency)
	for i, chunk := range chunks {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = d.writer.BulkPut(ctx, d.table, chunk)
			return nil
		})
	}
	_ = group.Wait()
	return results
}
