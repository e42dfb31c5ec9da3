package main

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/testutil"
	"github.com/ajitpratap0/datagen/pkg/verify"
)

func testConfig(t *testing.T, path string, count int64) *config.Config {
	t.Helper()
	cfg := config.Default()
	seed := uint64(7)
	cfg.Generator.Seed = &seed
	cfg.Generator.Count = count
	cfg.Output.Path = path
	cfg.Logging.Level = "error"
	return cfg
}

func TestRunGenerate_SmallDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	stats, err := runGenerate(testutil.TestContext(t), testConfig(t, path, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Records)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "name,email,age,salary,department", lines[0])
	assert.True(t, strings.HasSuffix(strings.Split(lines[3], ",")[1], "2@company.com"))
}

func TestRunGenerate_Reproducible(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")

	_, err := runGenerate(testutil.TestContext(t), testConfig(t, a, 200))
	require.NoError(t, err)
	_, err = runGenerate(testutil.TestContext(t), testConfig(t, b, 200))
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestRunGenerate_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	path := filepath.Join(dir, "out.csv")

	_, err := runGenerate(testutil.TestContext(t), testConfig(t, path, 10))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunGenerate_NegativeCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, err := runGenerate(testutil.TestContext(t), testConfig(t, path, -1))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRunGenerate_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, filepath.Join(dir, "out.csv"), 25)
	cfg.Observability.MetricsFile = filepath.Join(dir, "datagen.prom")

	_, err := runGenerate(testutil.TestContext(t), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Observability.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "datagen_records_generated_total")
}

func TestGenerateThenVerify_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.gz")
	cfg := testConfig(t, path, 100)
	cfg.Output.Compression = "gzip"

	_, err := runGenerate(testutil.TestContext(t), cfg)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = gzip.NewReader(f)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runVerify(&out, path, "auto", verify.Options{Count: 100}))
	assert.Contains(t, out.String(), "rows: 100")
	assert.Contains(t, out.String(), "ok")
}

func TestRunVerify_WrongCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, err := runGenerate(testutil.TestContext(t), testConfig(t, path, 5))
	require.NoError(t, err)

	var out bytes.Buffer
	err = runVerify(&out, path, "auto", verify.Options{Count: 6})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, out.String(), "violations: 1")
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"version"}, "datagen v"},
		{[]string{"list"}, "postgres"},
		{[]string{"list"}, "zstd"},
		{[]string{"config"}, "large-records.csv"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " ")+"/"+tt.want, func(t *testing.T) {
			root := newRootCmd()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs(tt.args)
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRootCommand_Generate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.csv")
	root := newRootCmd()
	root.SetArgs([]string{"generate", "--output", path, "--count", "4", "--seed", "3", "--log-level", "error"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(data), "\n"))
}
