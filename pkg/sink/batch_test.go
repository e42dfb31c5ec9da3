package sink

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/models"
)

type fakeStore struct {
	batches    [][]models.Employee
	committed  bool
	rolledBack bool
	failAt     int
}

func (f *fakeStore) Insert(_ context.Context, batch []models.Employee) error {
	if f.failAt > 0 && len(f.batches)+1 == f.failAt {
		return fmt.Errorf("duplicate key")
	}
	f.batches = append(f.batches, append([]models.Employee(nil), batch...))
	return nil
}

func (f *fakeStore) Commit(context.Context) error   { f.committed = true; return nil }
func (f *fakeStore) Rollback(context.Context) error { f.rolledBack = true; return nil }

func TestBatchWriter_Batches(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	w := NewBatchWriter(store, 4)

	require.NoError(t, w.WriteHeader(ctx, models.Header()))
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Write(ctx, rec))
	}
	require.Len(t, store.batches, 2)
	require.NoError(t, w.Close(ctx))

	require.Len(t, store.batches, 3)
	assert.Len(t, store.batches[2], 2)
	assert.Equal(t, int64(10), w.Written())
	assert.True(t, store.committed)
	assert.False(t, store.rolledBack)
}

func TestBatchWriter_InsertFailure(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{failAt: 2}
	w := NewBatchWriter(store, 2)

	require.NoError(t, w.Write(ctx, rec))
	require.NoError(t, w.Write(ctx, rec))
	require.NoError(t, w.Write(ctx, rec))
	err := w.Write(ctx, rec)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))

	require.NoError(t, w.Abort(ctx))
	assert.True(t, store.rolledBack)
	assert.False(t, store.committed)
}

func TestBatchWriter_FinalFlushFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{failAt: 1}
	w := NewBatchWriter(store, 100)

	require.NoError(t, w.Write(ctx, rec))
	require.Error(t, w.Close(ctx))
	assert.True(t, store.rolledBack)
	assert.False(t, store.committed)
}
