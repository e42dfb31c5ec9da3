package format

import (
	"bufio"
	"io"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/datagen/pkg/models"
)

// JSONLEncoder writes one JSON object per line. The header is implicit in
// the object keys.
type JSONLEncoder struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewJSONLEncoder creates a JSON lines encoder over w.
func NewJSONLEncoder(w io.Writer) *JSONLEncoder {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &JSONLEncoder{buf: buf, enc: json.NewEncoder(buf)}
}

// WriteHeader is a no-op for JSON lines.
func (e *JSONLEncoder) WriteHeader([]string) error { return nil }

// Encode writes rec followed by a newline.
func (e *JSONLEncoder) Encode(rec models.Employee) error {
	return e.enc.Encode(rec)
}

// Flush flushes buffered lines.
func (e *JSONLEncoder) Flush() error {
	return e.buf.Flush()
}
