package format

import (
	"encoding/csv"
	"io"

	"github.com/ajitpratap0/datagen/pkg/models"
)

// CSVEncoder writes comma-separated rows terminated by "\n".
type CSVEncoder struct {
	writer *csv.Writer
	row    []string
}

// NewCSVEncoder creates a CSV encoder over w.
func NewCSVEncoder(w io.Writer) *CSVEncoder {
	cw := csv.NewWriter(w)
	cw.Comma = ','
	cw.UseCRLF = false
	return &CSVEncoder{writer: cw, row: make([]string, 0, len(models.EmployeeSchema.Fields))}
}

// WriteHeader writes the header row.
func (e *CSVEncoder) WriteHeader(columns []string) error {
	return e.writer.Write(columns)
}

// Encode writes one data row.
func (e *CSVEncoder) Encode(rec models.Employee) error {
	e.row = append(e.row[:0], rec.Values()...)
	return e.writer.Write(e.row)
}

// Flush flushes buffered rows and reports any write error.
func (e *CSVEncoder) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}
