package file

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "file",
		Kind:        sink.KindBytes,
		Description: "Local file written atomically via temp file and rename; \"-\" for stdout",
	}, New)
}
