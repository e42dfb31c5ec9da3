package mongodb

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "mongodb",
		Kind:        sink.KindRecords,
		Description: "MongoDB collection loaded with ordered InsertMany",
	}, New)
}
