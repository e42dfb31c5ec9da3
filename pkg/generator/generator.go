// Package generator produces synthetic employee records and streams them
// to a sink.
//
// Each record is assembled by sampling the lookup tables in models
// uniformly and independently: first name, last name, age, salary,
// department. The email embeds the record's sequence index, which is the
// only source of email uniqueness.
//
//	gen := generator.New(generator.WithSampler(generator.NewSampler(42)))
//	stats, err := gen.Run(ctx, w, 100000)
package generator

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/metrics"
	"github.com/ajitpratap0/datagen/pkg/models"
	"github.com/ajitpratap0/datagen/pkg/observability"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

// Stats summarizes a finished run.
type Stats struct {
	Records  int64
	Bytes    int64
	Duration time.Duration
}

// Generator builds employee records.
type Generator struct {
	sampler          Sampler
	logger           *zap.Logger
	metrics          *metrics.Collector
	emailDomain      string
	progressInterval int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSampler sets the random source. The default is a PCG sampler with a
// random seed.
func WithSampler(s Sampler) Option {
	return func(g *Generator) { g.sampler = s }
}

// WithLogger sets the logger used for progress reporting.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMetrics records per-record and throughput metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(g *Generator) { g.metrics = c }
}

// WithEmailDomain replaces the default company.com email domain.
func WithEmailDomain(domain string) Option {
	return func(g *Generator) { g.emailDomain = domain }
}

// WithProgressInterval logs progress every n records; 0 disables it.
func WithProgressInterval(n int64) Option {
	return func(g *Generator) { g.progressInterval = n }
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger:      zap.NewNop(),
		emailDomain: models.DefaultEmailDomain,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.sampler == nil {
		g.sampler = NewSampler(RandomSeed())
	}
	return g
}

// Record builds the record at sequence index i.
func (g *Generator) Record(i int64) models.Employee {
	first := models.FirstNames[g.sampler.IntN(len(models.FirstNames))]
	last := models.LastNames[g.sampler.IntN(len(models.LastNames))]

	return models.Employee{
		Name:       first + " " + last,
		Email:      Email(first, last, i, g.emailDomain),
		Age:        models.MinAge + g.sampler.IntN(models.MaxAge-models.MinAge+1),
		Salary:     models.MinSalary + g.sampler.IntN(models.MaxSalary-models.MinSalary+1),
		Department: models.Departments[g.sampler.IntN(len(models.Departments))],
	}
}

// Email returns "<first>.<last><i>@<domain>" with the name parts
// lower-cased and stripped of anything but letters and digits.
func Email(first, last string, i int64, domain string) string {
	var b strings.Builder
	b.Grow(len(first) + len(last) + len(domain) + 22)
	writeLocalPart(&b, first)
	b.WriteByte('.')
	writeLocalPart(&b, last)
	b.WriteString(strconv.FormatInt(i, 10))
	b.WriteByte('@')
	b.WriteString(domain)
	return b.String()
}

func writeLocalPart(b *strings.Builder, s string) {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
}

// Run writes the header and n records to w. On success w is closed; on
// any failure, including cancellation of ctx, w is aborted and the error
// is returned. Write errors are not retried.
func (g *Generator) Run(ctx context.Context, w sink.Writer, n int64) (stats Stats, err error) {
	timer := metrics.NewTimer()
	ctx, span := observability.StartSpan(ctx, "generator.Run", attribute.Int64("records.requested", n))
	defer func() {
		stats.Duration = timer.Stop()
		if bc, ok := w.(sink.ByteCounter); ok {
			stats.Bytes = bc.BytesWritten()
		}
		span.SetAttributes(
			attribute.Int64("records.written", stats.Records),
			attribute.Int64("bytes.written", stats.Bytes),
		)
		observability.EndSpan(span, err)
	}()

	if n < 0 {
		_ = w.Abort(ctx)
		return stats, errors.New(errors.ErrorTypeConfig, "record count must not be negative").
			WithDetail("count", n)
	}

	if err := g.write(ctx, w, n, &stats); err != nil {
		if abortErr := w.Abort(context.WithoutCancel(ctx)); abortErr != nil {
			g.logger.Warn("failed to abort sink", zap.Error(abortErr))
		}
		return stats, err
	}

	if err := w.Close(ctx); err != nil {
		return stats, wrapSinkError(err, "failed to close sink")
	}
	return stats, nil
}

func (g *Generator) write(ctx context.Context, w sink.Writer, n int64, stats *Stats) error {
	if err := w.WriteHeader(ctx, models.Header()); err != nil {
		return wrapSinkError(err, "failed to write header")
	}

	tracker := metrics.NewThroughputTracker()
	for i := int64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeCanceled, "generation interrupted").
				WithDetail("written", stats.Records)
		}

		if err := w.Write(ctx, g.Record(i)); err != nil {
			return wrapSinkError(err, "failed to write record").WithDetail("index", i)
		}
		stats.Records++

		if g.metrics != nil {
			g.metrics.RecordGenerated()
		}
		if g.progressInterval > 0 {
			tracker.Increment(1)
			if stats.Records%g.progressInterval == 0 {
				rps := tracker.GetAndReset()
				if g.metrics != nil {
					g.metrics.SetThroughput(rps)
				}
				g.logger.Info("progress",
					zap.Int64("written", stats.Records),
					zap.Int64("total", n),
					zap.Float64("records_per_sec", rps))
			}
		}
	}
	return nil
}

// wrapSinkError keeps the classification of structured sink errors and
// treats anything else as an I/O failure.
func wrapSinkError(err error, message string) *errors.Error {
	var e *errors.Error
	if errors.As(err, &e) {
		return errors.Wrap(err, e.Type, message)
	}
	return errors.Wrap(err, errors.ErrorTypeIO, message)
}
