package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/datagen/pkg/compression"
	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/verify"
)

func newVerifyCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var count int64
	var algorithm string

	cmd := &cobra.Command{
		Use:   "verify PATH",
		Short: "Check a generated CSV dataset",
		Long: `Verify re-reads a CSV dataset and checks the header, every row's names,
email, ranges and department, and optionally the row count. PATH may be "-"
for stdin. Compression is inferred from the file extension unless given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configFile)
			if err != nil {
				return err
			}
			return runVerify(cmd.OutOrStdout(), args[0], algorithm, verify.Options{
				Count:       count,
				EmailDomain: cfg.Generator.EmailDomain,
			})
		},
	}
	cmd.Flags().Int64Var(&count, "count", -1, "Expected number of data rows (-1 accepts any)")
	cmd.Flags().StringVar(&algorithm, "compression", "auto", `Compression algorithm, or "auto" to infer from PATH`)
	return cmd
}

func runVerify(out io.Writer, path, algorithm string, opts verify.Options) error {
	alg := compression.FromPath(path)
	if algorithm != "auto" {
		var err error
		if alg, err = compression.ParseAlgorithm(algorithm); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
		}
	}

	var src io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // G304: path comes from the operator
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to open dataset").
				WithDetail("path", path)
		}
		defer f.Close()
		src = f
	}

	r, err := compression.NewReader(src, alg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to open decompressor").
			WithDetail("algorithm", alg)
	}
	defer r.Close()

	report, err := verify.Verify(r, opts)
	printReport(out, report)
	return err
}

func printReport(out io.Writer, report *verify.Report) {
	if report == nil {
		return
	}
	fmt.Fprintf(out, "rows: %d\n", report.Rows)

	depts := make([]string, 0, len(report.Departments))
	for d := range report.Departments {
		depts = append(depts, d)
	}
	sort.Strings(depts)
	for _, d := range depts {
		fmt.Fprintf(out, "  %-12s %d\n", d, report.Departments[d])
	}

	if report.OK() {
		fmt.Fprintln(out, "ok")
		return
	}
	fmt.Fprintf(out, "violations: %d\n", report.Total)
	for _, v := range report.Violations {
		fmt.Fprintf(out, "  %s\n", v)
	}
	if extra := report.Total - int64(len(report.Violations)); extra > 0 {
		fmt.Fprintf(out, "  ... and %d more\n", extra)
	}
}
