// Package compression provides streaming compression for datagen's byte
// sinks, with multiple algorithms and configurable levels.
//
// # Algorithm Selection
//
//   - Snappy/S2: fast, moderate compression
//   - LZ4: extremely fast, decent compression
//   - Zstd: best compression ratio, good speed
//   - Gzip/Deflate: wide compatibility
//
// # Basic Usage
//
//	w, err := compression.NewWriter(file, &compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Better,
//	})
//	// write encoded rows to w ...
//	err = w.Close() // flushes the compressed trailer, leaves file open
package compression

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy framed compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents raw deflate compression
	Deflate Algorithm = "deflate"
)

var extensions = map[Algorithm]string{
	None:    "",
	Gzip:    ".gz",
	Snappy:  ".sz",
	LZ4:     ".lz4",
	Zstd:    ".zst",
	S2:      ".s2",
	Deflate: ".deflate",
}

// Algorithms returns all supported algorithms, sorted by name.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, 0, len(extensions))
	for a := range extensions {
		algs = append(algs, a)
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	return algs
}

// ParseAlgorithm converts a name into an Algorithm. The empty string is None.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return None, nil
	}
	a := Algorithm(strings.ToLower(name))
	if _, ok := extensions[a]; !ok {
		return "", fmt.Errorf("unsupported compression algorithm: %s", name)
	}
	return a, nil
}

// Extension returns the conventional file suffix for the algorithm,
// including the leading dot. None has no suffix.
func (a Algorithm) Extension() string {
	return extensions[a]
}

// FromPath infers the algorithm from a file name's extension.
// Unknown extensions yield None.
func FromPath(path string) Algorithm {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return None
	}
	for a, e := range extensions {
		if e == ext {
			return a
		}
	}
	return None
}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// ParseLevel converts a level name into a Level. The empty string is Default.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "fastest":
		return Fastest, nil
	case "", "default":
		return Default, nil
	case "better":
		return Better, nil
	case "best":
		return Best, nil
	default:
		return 0, fmt.Errorf("unsupported compression level: %s", name)
	}
}

func (l Level) String() string {
	switch l {
	case Fastest:
		return "fastest"
	case Default:
		return "default"
	case Better:
		return "better"
	case Best:
		return "best"
	default:
		return "unknown"
	}
}

// Config represents compressor configuration.
type Config struct {
	// Algorithm specifies which compression algorithm to use
	Algorithm Algorithm

	// Level controls compression ratio vs speed trade-off
	Level Level

	// Concurrency sets the number of encoder goroutines for zstd and s2.
	// Zero uses the library default.
	Concurrency int
}

// DefaultConfig returns a configuration with no compression.
func DefaultConfig() *Config {
	return &Config{
		Algorithm: None,
		Level:     Default,
	}
}

// nopCloser passes writes through and does not close the destination.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NewWriter wraps dst with a compressing writer. Closing the returned writer
// flushes any trailer but never closes dst.
func NewWriter(dst io.Writer, config *Config) (io.WriteCloser, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Algorithm {
	case None, "":
		return nopCloser{dst}, nil

	case Gzip:
		return gzip.NewWriterLevel(dst, mapGzipLevel(config.Level))

	case Snappy:
		return snappy.NewBufferedWriter(dst), nil

	case LZ4:
		w := lz4.NewWriter(dst)
		if err := w.Apply(lz4.CompressionLevelOption(mapLZ4Level(config.Level))); err != nil {
			return nil, fmt.Errorf("failed to set lz4 compression level: %w", err)
		}
		return w, nil

	case Zstd:
		opts := []zstd.EOption{zstd.WithEncoderLevel(mapZstdLevel(config.Level))}
		if config.Concurrency > 0 {
			opts = append(opts, zstd.WithEncoderConcurrency(config.Concurrency))
		}
		return zstd.NewWriter(dst, opts...)

	case S2:
		opts := mapS2Options(config.Level)
		if config.Concurrency > 0 {
			opts = append(opts, s2.WriterConcurrency(config.Concurrency))
		}
		return s2.NewWriter(dst, opts...), nil

	case Deflate:
		return flate.NewWriter(dst, mapDeflateLevel(config.Level))

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", config.Algorithm)
	}
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// NewReader wraps src with a decompressing reader. Closing the returned
// reader releases decoder resources but never closes src.
func NewReader(src io.Reader, algorithm Algorithm) (io.ReadCloser, error) {
	switch algorithm {
	case None, "":
		return io.NopCloser(src), nil

	case Gzip:
		return gzip.NewReader(src)

	case Snappy:
		return io.NopCloser(snappy.NewReader(src)), nil

	case LZ4:
		return io.NopCloser(lz4.NewReader(src)), nil

	case Zstd:
		d, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil

	case S2:
		return io.NopCloser(s2.NewReader(src)), nil

	case Deflate:
		return flate.NewReader(src), nil

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapS2Options(level Level) []s2.WriterOption {
	switch level {
	case Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	case Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	default:
		return nil
	}
}

func mapDeflateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}
