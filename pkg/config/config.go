package config

import (
	"strings"
	"time"

	"github.com/ajitpratap0/datagen/pkg/compression"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/format"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/models"
)

// Defaults for a plain run.
const (
	DefaultCount            = 100000
	DefaultPath             = "demo-data/large-records.csv"
	DefaultSink             = "file"
	DefaultBatchSize        = 1000
	DefaultProgressInterval = 25000
)

// Config is the complete datagen configuration.
type Config struct {
	// Generator controls how many records are produced and how
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`

	// Output selects the sink and the byte encoding
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Sinks holds per-sink connection settings
	Sinks SinksConfig `yaml:"sinks" mapstructure:"sinks"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`

	// Observability configures metrics output and tracing
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	// Count is the number of data rows to produce
	Count int64 `yaml:"count" mapstructure:"count"`
	// Seed makes output reproducible; nil draws a random seed
	Seed *uint64 `yaml:"seed,omitempty" mapstructure:"seed"`
	// EmailDomain is appended to every email address
	EmailDomain string `yaml:"email_domain" mapstructure:"email_domain"`
	// ProgressInterval logs progress every N records (0 disables)
	ProgressInterval int64 `yaml:"progress_interval" mapstructure:"progress_interval"`
}

// OutputConfig selects the sink and, for byte sinks, the encoding.
type OutputConfig struct {
	// Sink is the registered sink name (file, s3, gcs, postgres, ...)
	Sink string `yaml:"sink" mapstructure:"sink"`
	// Path is the file path for the file sink, "-" for stdout. Object
	// sinks use it as the default key.
	Path string `yaml:"path" mapstructure:"path"`
	// Format is the byte encoding: csv, jsonl or avro
	Format string `yaml:"format" mapstructure:"format"`
	// Compression is the stream compression algorithm
	Compression string `yaml:"compression" mapstructure:"compression"`
	// CompressionLevel is fastest, default, better or best
	CompressionLevel string `yaml:"compression_level" mapstructure:"compression_level"`
	// Mkdir creates missing parent directories for the file sink
	Mkdir bool `yaml:"mkdir" mapstructure:"mkdir"`
	// BatchSize is the number of records per insert for record sinks
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
}

// ObservabilityConfig contains metrics and tracing settings.
type ObservabilityConfig struct {
	// MetricsFile writes run metrics in Prometheus text format when set
	MetricsFile string `yaml:"metrics_file" mapstructure:"metrics_file"`
	// Tracing exports a span per run to stderr
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	// ServiceName is reported as the trace resource name
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// SinksConfig holds settings for every remote sink.
type SinksConfig struct {
	S3       S3Config       `yaml:"s3" mapstructure:"s3"`
	GCS      GCSConfig      `yaml:"gcs" mapstructure:"gcs"`
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
	MySQL    MySQLConfig    `yaml:"mysql" mapstructure:"mysql"`
	MongoDB  MongoDBConfig  `yaml:"mongodb" mapstructure:"mongodb"`
	Kafka    KafkaConfig    `yaml:"kafka" mapstructure:"kafka"`
}

// S3Config configures the s3 sink.
type S3Config struct {
	Bucket       string `yaml:"bucket" mapstructure:"bucket"`
	Key          string `yaml:"key" mapstructure:"key"`
	Region       string `yaml:"region" mapstructure:"region"`
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style" mapstructure:"use_path_style"`
	PartSizeMB   int64  `yaml:"part_size_mb" mapstructure:"part_size_mb"`
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// GCSConfig configures the gcs sink.
type GCSConfig struct {
	Bucket          string `yaml:"bucket" mapstructure:"bucket"`
	Object          string `yaml:"object" mapstructure:"object"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	ChunkSizeMB     int    `yaml:"chunk_size_mb" mapstructure:"chunk_size_mb"`
}

// PostgresConfig configures the postgres sink.
type PostgresConfig struct {
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	Table       string `yaml:"table" mapstructure:"table"`
	CreateTable bool   `yaml:"create_table" mapstructure:"create_table"`
	Truncate    bool   `yaml:"truncate" mapstructure:"truncate"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// MySQLConfig configures the mysql sink.
type MySQLConfig struct {
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	Table       string `yaml:"table" mapstructure:"table"`
	CreateTable bool   `yaml:"create_table" mapstructure:"create_table"`
	Truncate    bool   `yaml:"truncate" mapstructure:"truncate"`
}

// MongoDBConfig configures the mongodb sink.
type MongoDBConfig struct {
	URI        string        `yaml:"uri" mapstructure:"uri"`
	Database   string        `yaml:"database" mapstructure:"database"`
	Collection string        `yaml:"collection" mapstructure:"collection"`
	Drop       bool          `yaml:"drop" mapstructure:"drop"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// KafkaConfig configures the kafka sink.
type KafkaConfig struct {
	Brokers     []string      `yaml:"brokers" mapstructure:"brokers"`
	Topic       string        `yaml:"topic" mapstructure:"topic"`
	ClientID    string        `yaml:"client_id" mapstructure:"client_id"`
	Compression string        `yaml:"compression" mapstructure:"compression"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Default returns the configuration of a plain run: 100000 CSV rows to
// demo-data/large-records.csv with a random seed.
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Count:            DefaultCount,
			EmailDomain:      models.DefaultEmailDomain,
			ProgressInterval: DefaultProgressInterval,
		},
		Output: OutputConfig{
			Sink:             DefaultSink,
			Path:             DefaultPath,
			Format:           string(format.CSV),
			Compression:      string(compression.None),
			CompressionLevel: compression.Default.String(),
			BatchSize:        DefaultBatchSize,
		},
		Sinks: SinksConfig{
			S3: S3Config{
				Region:      "us-east-1",
				PartSizeMB:  10,
				Concurrency: 5,
			},
			GCS: GCSConfig{
				ChunkSizeMB: 16,
			},
			Postgres: PostgresConfig{
				Table:       "employees",
				CreateTable: true,
				MaxConns:    4,
			},
			MySQL: MySQLConfig{
				Table:       "employees",
				CreateTable: true,
			},
			MongoDB: MongoDBConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "datagen",
				Collection: "employees",
				Timeout:    10 * time.Second,
			},
			Kafka: KafkaConfig{
				Brokers:     []string{"localhost:9092"},
				Topic:       "employees",
				ClientID:    "datagen",
				Compression: "none",
				Timeout:     10 * time.Second,
			},
		},
		Logging: logger.DefaultConfig(),
		Observability: ObservabilityConfig{
			ServiceName: "datagen",
		},
	}
}

// Validate checks the configuration for values no sink could accept.
// Sink-specific settings are validated by the sink when it is created.
func (c *Config) Validate() error {
	if c.Generator.Count < 0 {
		return errors.New(errors.ErrorTypeConfig, "count must not be negative").
			WithDetail("count", c.Generator.Count)
	}
	if c.Generator.ProgressInterval < 0 {
		return errors.New(errors.ErrorTypeConfig, "progress_interval must not be negative")
	}
	domain := c.Generator.EmailDomain
	if domain == "" || strings.ContainsAny(domain, "@ \t,") {
		return errors.Newf(errors.ErrorTypeConfig, "invalid email domain %q", domain)
	}
	if c.Output.Sink == "" {
		return errors.New(errors.ErrorTypeConfig, "sink is required")
	}
	if c.Output.BatchSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "batch_size must be positive")
	}
	if _, err := format.Parse(c.Output.Format); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid output format")
	}
	if _, err := c.Output.CompressionConfig(); err != nil {
		return err
	}
	return nil
}

// CompressionConfig resolves the compression settings.
func (o OutputConfig) CompressionConfig() (*compression.Config, error) {
	alg, err := compression.ParseAlgorithm(o.Compression)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
	}
	level, err := compression.ParseLevel(o.CompressionLevel)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression level")
	}
	return &compression.Config{Algorithm: alg, Level: level}, nil
}

// FormatName resolves the output format.
func (o OutputConfig) FormatName() format.Format {
	f, err := format.Parse(o.Format)
	if err != nil {
		return format.CSV
	}
	return f
}
