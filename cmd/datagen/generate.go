package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/generator"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/metrics"
	"github.com/ajitpratap0/datagen/pkg/observability"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

// generateFlags maps flag names to configuration keys.
var generateFlags = map[string]string{
	"output":            "output.path",
	"count":             "generator.count",
	"format":            "output.format",
	"compression":       "output.compression",
	"compression-level": "output.compression_level",
	"sink":              "output.sink",
	"email-domain":      "generator.email_domain",
	"mkdir":             "output.mkdir",
	"batch-size":        "output.batch_size",
	"progress-interval": "generator.progress_interval",
	"log-level":         "logging.level",
	"metrics-file":      "observability.metrics_file",
	"trace":             "observability.tracing",
}

func newGenerateCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an employee dataset",
		Long: `Generate writes a header and N employee records to the selected sink.

Example:
  datagen generate --count 1000 --output out.csv.gz --compression gzip --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// an unset seed must stay nil so a random one is drawn
			if cmd.Flags().Changed("seed") {
				v.Set("generator.seed", seed)
			}

			cfg, err := config.Load(v, *configFile)
			if err != nil {
				return err
			}
			_, err = runGenerate(cmd.Context(), cfg)
			return err
		},
	}

	defaults := config.Default()
	f := cmd.Flags()
	f.StringP("output", "o", defaults.Output.Path, `Output path, "-" for stdout`)
	f.Int64P("count", "n", defaults.Generator.Count, "Number of records to generate")
	f.Uint64Var(&seed, "seed", 0, "Random seed for reproducible output (default: random, logged)")
	f.String("format", defaults.Output.Format, "Output format (csv, jsonl, avro)")
	f.String("compression", defaults.Output.Compression, "Compression algorithm")
	f.String("compression-level", defaults.Output.CompressionLevel, "Compression level (fastest, default, better, best)")
	f.String("sink", defaults.Output.Sink, "Sink to write to (see datagen list)")
	f.String("email-domain", defaults.Generator.EmailDomain, "Domain of generated email addresses")
	f.Bool("mkdir", false, "Create missing parent directories")
	f.Int("batch-size", defaults.Output.BatchSize, "Records per insert for record sinks")
	f.Int64("progress-interval", defaults.Generator.ProgressInterval, "Log progress every N records (0 disables)")
	f.String("log-level", defaults.Logging.Level, "Log level (debug, info, warn, error)")
	f.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	f.Bool("trace", false, "Export a trace of the run to stderr")

	for name, key := range generateFlags {
		_ = v.BindPFlag(key, f.Lookup(name))
	}
	return cmd
}

// runGenerate performs one generation run described by cfg.
func runGenerate(ctx context.Context, cfg *config.Config) (generator.Stats, error) {
	if err := cfg.Validate(); err != nil {
		return generator.Stats{}, err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return generator.Stats{}, errors.Wrap(err, errors.ErrorTypeConfig, "failed to initialize logger")
	}
	defer func() { _ = logger.Sync() }()

	ctx = context.WithValue(ctx, logger.RunIDKey, uuid.NewString())
	ctx = context.WithValue(ctx, logger.SinkKey, cfg.Output.Sink)
	log := logger.WithContext(ctx)

	seed := generator.RandomSeed()
	if cfg.Generator.Seed != nil {
		seed = *cfg.Generator.Seed
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Observability.Tracing,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return generator.Stats{}, errors.Wrap(err, errors.ErrorTypeConfig, "failed to initialize tracing")
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	log.Info("starting generation",
		zap.Int64("count", cfg.Generator.Count),
		zap.Uint64("seed", seed),
		zap.String("path", cfg.Output.Path),
		zap.String("format", cfg.Output.Format),
		zap.String("compression", cfg.Output.Compression))

	collector := metrics.NewCollector(cfg.Output.Sink)
	w, err := sink.Create(ctx, cfg.Output.Sink, cfg)
	if err != nil {
		collector.ObserveRun(0, 0, 0, err)
		writeMetrics(log, collector, cfg.Observability.MetricsFile)
		return generator.Stats{}, err
	}

	g := generator.New(
		generator.WithSampler(generator.NewSampler(seed)),
		generator.WithLogger(log),
		generator.WithMetrics(collector),
		generator.WithEmailDomain(cfg.Generator.EmailDomain),
		generator.WithProgressInterval(cfg.Generator.ProgressInterval),
	)
	stats, err := g.Run(ctx, w, cfg.Generator.Count)
	collector.ObserveRun(stats.Records, stats.Bytes, stats.Duration, err)
	writeMetrics(log, collector, cfg.Observability.MetricsFile)
	if err != nil {
		log.Error("generation failed", zap.Error(err), zap.Int64("written", stats.Records))
		return stats, err
	}

	fields := []zap.Field{
		zap.Int64("records", stats.Records),
		zap.Duration("duration", stats.Duration),
		zap.Uint64("seed", seed),
	}
	if stats.Bytes > 0 {
		fields = append(fields, zap.Int64("bytes", stats.Bytes))
	}
	if secs := stats.Duration.Seconds(); secs > 0 {
		fields = append(fields, zap.Float64("records_per_second", float64(stats.Records)/secs))
	}
	log.Info("generation complete", fields...)
	return stats, nil
}

func writeMetrics(log *zap.Logger, c *metrics.Collector, path string) {
	if path == "" {
		return
	}
	if err := c.WriteTextfile(path); err != nil {
		log.Warn("failed to write metrics file", zap.Error(err))
	}
}
