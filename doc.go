// Package datagen generates synthetic employee datasets.
//
// Each record carries a name, email, age, salary and department sampled
// uniformly from fixed lookup tables. The default run writes a header and
// 100000 rows to demo-data/large-records.csv.
//
// # Quick Start
//
// Generate the default dataset:
//
//	datagen generate
//
// Generate a reproducible, compressed dataset and check it:
//
//	datagen generate --count 1000 --seed 42 --output out.csv.zst --compression zstd
//	datagen verify out.csv.zst --count 1000
//
// # Packages
//
//   - pkg/generator: record sampling and the generation run
//   - pkg/models: the Employee record, its schema and lookup tables
//   - pkg/sink: the sink registry, encoded byte sinks and batched record sinks
//   - pkg/format and pkg/compression: output encodings and stream compression
//   - pkg/verify: re-reads a CSV dataset and checks its properties
//   - pkg/config, pkg/logger, pkg/errors, pkg/metrics, pkg/observability:
//     configuration, logging, typed errors, Prometheus metrics and tracing
//
// Sinks register themselves on import; cmd/datagen imports all of them.
package datagen
