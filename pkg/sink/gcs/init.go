package gcs

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "gcs",
		Kind:        sink.KindBytes,
		Description: "Google Cloud Storage object written with a resumable upload",
	}, New)
}
