package sink

import (
	"context"
	"io"

	"github.com/ajitpratap0/datagen/pkg/compression"
	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/format"
	"github.com/ajitpratap0/datagen/pkg/models"
)

// Target is the byte destination under an EncodedWriter. Commit makes the
// written bytes visible; Discard drops them.
type Target interface {
	io.Writer
	Commit(ctx context.Context) error
	Discard(ctx context.Context) error
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// EncodedWriter adapts a Target to Writer: records pass through a format
// encoder and a compressor before reaching the target.
type EncodedWriter struct {
	target  Target
	counter *countingWriter
	comp    io.WriteCloser
	enc     format.Encoder
	done    bool
}

// NewEncodedWriter builds the encoder and compressor described by out on
// top of target.
func NewEncodedWriter(target Target, out config.OutputConfig) (*EncodedWriter, error) {
	cc, err := out.CompressionConfig()
	if err != nil {
		return nil, err
	}
	f, err := format.Parse(out.Format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid output format")
	}

	counter := &countingWriter{w: target}
	comp, err := compression.NewWriter(counter, cc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create compressor")
	}
	enc, err := format.NewEncoder(f, comp)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create encoder")
	}

	return &EncodedWriter{
		target:  target,
		counter: counter,
		comp:    comp,
		enc:     enc,
	}, nil
}

// WriteHeader writes the header row
func (w *EncodedWriter) WriteHeader(_ context.Context, columns []string) error {
	if err := w.enc.WriteHeader(columns); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write header")
	}
	return nil
}

// Write encodes one record
func (w *EncodedWriter) Write(_ context.Context, rec models.Employee) error {
	if err := w.enc.Encode(rec); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write record")
	}
	return nil
}

// Close flushes the encoder and compressor, then commits the target. If
// flushing fails the target is discarded.
func (w *EncodedWriter) Close(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.enc.Flush(); err != nil {
		_ = w.target.Discard(ctx)
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to flush encoder")
	}
	if err := w.comp.Close(); err != nil {
		_ = w.target.Discard(ctx)
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to finish compression")
	}
	if err := w.target.Commit(ctx); err != nil {
		if errors.As(err, new(*errors.Error)) {
			return err
		}
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to commit output")
	}
	return nil
}

// Abort discards the target. It is a no-op after Close.
func (w *EncodedWriter) Abort(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.target.Discard(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to discard output")
	}
	return nil
}

// BytesWritten returns the bytes that reached the target, after compression
func (w *EncodedWriter) BytesWritten() int64 {
	return w.counter.n
}

// ContentType returns the MIME type for objects encoded as out describes.
func ContentType(out config.OutputConfig) string {
	switch out.FormatName() {
	case format.JSONL:
		return "application/x-ndjson"
	case format.Avro:
		return "application/avro"
	default:
		return "text/csv"
	}
}

// ObjectMetadata returns descriptive metadata attached to stored objects.
func ObjectMetadata(out config.OutputConfig) map[string]string {
	comp := out.Compression
	if comp == "" {
		comp = string(compression.None)
	}
	return map[string]string{
		"generator":   "datagen",
		"format":      string(out.FormatName()),
		"compression": comp,
	}
}
