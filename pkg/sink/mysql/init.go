package mysql

import (
	"github.com/ajitpratap0/datagen/pkg/sink"
)

func init() {
	_ = sink.Register(sink.Info{
		Name:        "mysql",
		Kind:        sink.KindRecords,
		Description: "MySQL table loaded with multi-row INSERT in one transaction",
	}, New)
}
