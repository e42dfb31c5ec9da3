// Package config provides configuration management for datagen.
//
// A Config is assembled from four layers, lowest precedence first:
//
//  1. Default(): 100000 CSV rows to demo-data/large-records.csv
//  2. an optional YAML file, with ${VAR_NAME} references substituted
//  3. DATAGEN_* environment variables (DATAGEN_OUTPUT_SINK, DATAGEN_GENERATOR_SEED, ...)
//  4. command-line flags bound to the same viper instance
//
// # Usage
//
//	v := viper.New()
//	_ = v.BindPFlag("generator.count", cmd.Flags().Lookup("count"))
//	cfg, err := config.Load(v, "datagen.yaml")
//	if err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// # Example File
//
//	generator:
//	  count: 5000
//	  seed: 42
//	output:
//	  sink: postgres
//	sinks:
//	  postgres:
//	    dsn: ${DATABASE_URL}
//	    table: employees
package config
