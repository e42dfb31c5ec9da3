package sink

import (
	"context"

	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/models"
)

// Store receives batches of records for a record sink. Commit and
// Rollback end the store's life and release its connections.
type Store interface {
	Insert(ctx context.Context, batch []models.Employee) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// BatchWriter adapts a Store to Writer, grouping records into batches.
type BatchWriter struct {
	store   Store
	size    int
	batch   []models.Employee
	written int64
	done    bool
}

// NewBatchWriter creates a writer that inserts every size records.
func NewBatchWriter(store Store, size int) *BatchWriter {
	if size <= 0 {
		size = 1
	}
	return &BatchWriter{
		store: store,
		size:  size,
		batch: make([]models.Employee, 0, size),
	}
}

// WriteHeader is a no-op; record stores use the fixed employee schema.
func (w *BatchWriter) WriteHeader(context.Context, []string) error {
	return nil
}

// Write queues rec and inserts the batch once it is full
func (w *BatchWriter) Write(ctx context.Context, rec models.Employee) error {
	w.batch = append(w.batch, rec)
	if len(w.batch) >= w.size {
		return w.flush(ctx)
	}
	return nil
}

func (w *BatchWriter) flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}
	if err := w.store.Insert(ctx, w.batch); err != nil {
		if errors.As(err, new(*errors.Error)) {
			return err
		}
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to insert batch").
			WithDetail("batch_size", len(w.batch)).
			WithDetail("written", w.written)
	}
	w.written += int64(len(w.batch))
	w.batch = w.batch[:0]
	return nil
}

// Close inserts the final partial batch and commits the store. A failed
// final insert rolls the store back.
func (w *BatchWriter) Close(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.flush(ctx); err != nil {
		_ = w.store.Rollback(context.WithoutCancel(ctx))
		return err
	}
	if err := w.store.Commit(ctx); err != nil {
		if errors.As(err, new(*errors.Error)) {
			return err
		}
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to commit")
	}
	return nil
}

// Abort rolls the store back. It is a no-op after Close.
func (w *BatchWriter) Abort(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true
	w.batch = w.batch[:0]
	if err := w.store.Rollback(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to roll back")
	}
	return nil
}

// Written returns the number of records inserted so far
func (w *BatchWriter) Written() int64 {
	return w.written
}
