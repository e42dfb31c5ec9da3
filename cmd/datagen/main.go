// Command datagen generates synthetic employee datasets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/datagen/pkg/compression"
	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/format"
	"github.com/ajitpratap0/datagen/pkg/sink"

	// Import all sinks to register them
	_ "github.com/ajitpratap0/datagen/pkg/sink/file"
	_ "github.com/ajitpratap0/datagen/pkg/sink/gcs"
	_ "github.com/ajitpratap0/datagen/pkg/sink/kafka"
	_ "github.com/ajitpratap0/datagen/pkg/sink/mongodb"
	_ "github.com/ajitpratap0/datagen/pkg/sink/mysql"
	_ "github.com/ajitpratap0/datagen/pkg/sink/postgres"
	_ "github.com/ajitpratap0/datagen/pkg/sink/s3"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:   "datagen",
		Short: "Synthetic employee dataset generator",
		Long: `datagen writes N fake employee records (name, email, age, salary, department)
to a CSV file or any other registered sink. The default run produces 100000
rows in demo-data/large-records.csv.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")

	root.AddCommand(
		newGenerateCmd(v, &configFile),
		newVerifyCmd(v, &configFile),
		newListCmd(),
		newConfigCmd(v, &configFile),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "datagen v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available sinks, formats and compression algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Sinks:")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, info := range sink.List() {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", info.Name, info.Kind, info.Description)
			}
			_ = tw.Flush()

			fmt.Fprintln(out, "\nFormats:")
			for _, name := range format.Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}

			fmt.Fprintln(out, "\nCompression:")
			for _, alg := range compression.Algorithms() {
				fmt.Fprintf(out, "  %s\n", alg)
			}
		},
	}
}

func newConfigCmd(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configFile)
			if err != nil {
				return err
			}
			return config.Dump(cmd.OutOrStdout(), cfg)
		},
	}
}
