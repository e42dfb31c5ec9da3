// Package format encodes employee records onto a byte stream.
package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ajitpratap0/datagen/pkg/models"
)

// Format names an output encoding.
type Format string

const (
	// CSV is comma-separated text with a header row
	CSV Format = "csv"
	// JSONL is one JSON object per line
	JSONL Format = "jsonl"
	// Avro is an Avro object container file
	Avro Format = "avro"
)

// Encoder writes a header and a sequence of records onto a writer.
// Encoders buffer internally; Flush must be called before the
// underlying writer is closed.
type Encoder interface {
	// WriteHeader writes the column header. Formats that carry their
	// schema elsewhere ignore it.
	WriteHeader(columns []string) error
	// Encode writes one record.
	Encode(rec models.Employee) error
	// Flush writes any buffered data to the underlying writer.
	Flush() error
}

type factory func(w io.Writer) (Encoder, error)

var encoders = map[Format]factory{
	CSV:   func(w io.Writer) (Encoder, error) { return NewCSVEncoder(w), nil },
	JSONL: func(w io.Writer) (Encoder, error) { return NewJSONLEncoder(w), nil },
	Avro:  func(w io.Writer) (Encoder, error) { return NewAvroEncoder(w) },
}

// extensions maps each format to its file suffix.
var extensions = map[Format]string{
	CSV:   ".csv",
	JSONL: ".jsonl",
	Avro:  ".avro",
}

// Parse converts a name into a Format. The empty string is CSV.
func Parse(name string) (Format, error) {
	if name == "" {
		return CSV, nil
	}
	f := Format(strings.ToLower(name))
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("unsupported format: %s", name)
	}
	return f, nil
}

// Names returns the supported format names, sorted.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for f := range encoders {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// Extension returns the conventional file suffix for the format.
func (f Format) Extension() string {
	return extensions[f]
}

// NewEncoder creates an encoder for format f writing to w.
func NewEncoder(f Format, w io.Writer) (Encoder, error) {
	fn, ok := encoders[f]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
	return fn(w)
}
