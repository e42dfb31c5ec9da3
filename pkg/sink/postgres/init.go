package postgres

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "postgres",
		Kind:        sink.KindRecords,
		Description: "PostgreSQL table loaded with COPY in one transaction",
	}, New)
}
