package format

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/datagen/pkg/models"
)

const avroBlockSize = 1000

// AvroEncoder writes an Avro object container file. Records are appended
// in blocks of avroBlockSize.
type AvroEncoder struct {
	ocf     *goavro.OCFWriter
	pending []interface{}
}

// NewAvroEncoder creates an Avro encoder over w. The container header,
// which embeds the schema, is written immediately.
func NewAvroEncoder(w io.Writer) (*AvroEncoder, error) {
	schema, err := AvroSchema(models.EmployeeSchema)
	if err != nil {
		return nil, err
	}

	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro codec: %w", err)
	}

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionNullLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Avro writer: %w", err)
	}

	return &AvroEncoder{ocf: ocf, pending: make([]interface{}, 0, avroBlockSize)}, nil
}

// AvroSchema renders s as an Avro record schema.
func AvroSchema(s models.Schema) (string, error) {
	fields := make([]map[string]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		avroType := "string"
		if f.Type == models.TypeInteger {
			avroType = "long"
		}
		fields = append(fields, map[string]string{"name": f.Name, "type": avroType})
	}

	schema, err := json.Marshal(map[string]interface{}{
		"type":      "record",
		"name":      s.Name,
		"namespace": "datagen",
		"fields":    fields,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal Avro schema: %w", err)
	}
	return string(schema), nil
}

// WriteHeader is a no-op; the schema travels in the container header.
func (e *AvroEncoder) WriteHeader([]string) error { return nil }

// Encode queues rec and appends a block when enough records are pending.
func (e *AvroEncoder) Encode(rec models.Employee) error {
	e.pending = append(e.pending, map[string]interface{}{
		"name":       rec.Name,
		"email":      rec.Email,
		"age":        int64(rec.Age),
		"salary":     int64(rec.Salary),
		"department": rec.Department,
	})
	if len(e.pending) >= avroBlockSize {
		return e.Flush()
	}
	return nil
}

// Flush appends pending records as one block.
func (e *AvroEncoder) Flush() error {
	if len(e.pending) == 0 {
		return nil
	}
	if err := e.ocf.Append(e.pending); err != nil {
		return fmt.Errorf("failed to write Avro block: %w", err)
	}
	e.pending = e.pending[:0]
	return nil
}
