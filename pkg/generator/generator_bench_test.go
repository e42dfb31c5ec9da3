package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

type discardTarget struct{}

func (discardTarget) Write(p []byte) (int, error)   { return len(p), nil }
func (discardTarget) Commit(context.Context) error  { return nil }
func (discardTarget) Discard(context.Context) error { return nil }

// BenchmarkRecord measures sampling and email assembly for one record
func BenchmarkRecord(b *testing.B) {
	g := New(WithSampler(NewSampler(1)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Record(int64(i))
	}
}

// BenchmarkRun_CSV measures a full pass through the CSV encoder
func BenchmarkRun_CSV(b *testing.B) {
	const n = 100000
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		w, err := sink.NewEncodedWriter(discardTarget{}, config.Default().Output)
		require.NoError(b, err)

		stats, err := New(WithSampler(NewSampler(1))).Run(ctx, w, n)
		require.NoError(b, err)
		b.ReportMetric(float64(stats.Records)/stats.Duration.Seconds(), "records/sec")
	}
}
