// Package sink defines the destination a generation run writes to and the
// registry that maps sink names to factories.
//
// Sink implementations live in subpackages and register themselves from
// init(); import them for side effects to make them available:
//
//	import _ "github.com/ajitpratap0/datagen/pkg/sink/file"
package sink

import (
	"context"

	"github.com/ajitpratap0/datagen/pkg/models"
)

// Writer receives one header and a sequence of records. Exactly one of
// Close or Abort ends its life: Close commits the output, Abort discards
// whatever can be discarded.
type Writer interface {
	WriteHeader(ctx context.Context, columns []string) error
	Write(ctx context.Context, rec models.Employee) error
	Close(ctx context.Context) error
	Abort(ctx context.Context) error
}

// ByteCounter is implemented by writers that know how many bytes reached
// their destination.
type ByteCounter interface {
	BytesWritten() int64
}

// Kind distinguishes sinks that receive encoded bytes from sinks that
// receive records.
type Kind string

const (
	// KindBytes sinks store an encoded, optionally compressed stream
	KindBytes Kind = "bytes"
	// KindRecords sinks store records natively (rows, documents, messages)
	KindRecords Kind = "records"
)
