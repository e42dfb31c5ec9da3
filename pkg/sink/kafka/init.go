package kafka

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "kafka",
		Kind:        sink.KindRecords,
		Description: "Kafka topic, one JSON message per record keyed by email",
	}, New)
}
