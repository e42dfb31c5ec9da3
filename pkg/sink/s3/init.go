package s3

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "s3",
		Kind:        sink.KindBytes,
		Description: "Amazon S3 object streamed through the multipart upload manager",
	}, New)
}
