package verify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/generator"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

type bufferTarget struct {
	bytes.Buffer
}

func (b *bufferTarget) Commit(context.Context) error  { return nil }
func (b *bufferTarget) Discard(context.Context) error { return nil }

func generate(t *testing.T, n int64, domain string) string {
	t.Helper()
	var target bufferTarget
	w, err := sink.NewEncodedWriter(&target, config.Default().Output)
	require.NoError(t, err)

	g := generator.New(
		generator.WithSampler(generator.NewSampler(42)),
		generator.WithEmailDomain(domain),
	)
	_, err = g.Run(context.Background(), w, n)
	require.NoError(t, err)
	return target.String()
}

func TestVerify_GeneratedDataset(t *testing.T) {
	data := generate(t, 500, "company.com")

	report, err := Verify(strings.NewReader(data), Options{Count: 500})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, int64(500), report.Rows)

	var total int64
	for _, n := range report.Departments {
		total += n
	}
	assert.Equal(t, int64(500), total)
}

func TestVerify_HeaderOnly(t *testing.T) {
	report, err := Verify(strings.NewReader("name,email,age,salary,department\n"), Options{Count: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Rows)
}

func TestVerify_AnyCount(t *testing.T) {
	data := generate(t, 3, "company.com")
	_, err := Verify(strings.NewReader(data), Options{Count: -1})
	require.NoError(t, err)
}

func TestVerify_CustomDomain(t *testing.T) {
	data := generate(t, 10, "example.org")

	_, err := Verify(strings.NewReader(data), Options{Count: 10, EmailDomain: "example.org"})
	require.NoError(t, err)

	report, err := Verify(strings.NewReader(data), Options{Count: 10})
	require.Error(t, err)
	assert.Equal(t, int64(10), report.Total)
}

func TestVerify_Violations(t *testing.T) {
	const header = "name,email,age,salary,department\n"
	tests := []struct {
		name   string
		data   string
		count  int64
		column string
	}{
		{"bad header", "name,mail,age,salary,department\n", 0, ""},
		{"row count", header + "Mary Smith,mary.smith0@company.com,30,50000,HR\n", 2, ""},
		{"column count", header + "Mary Smith,mary.smith0@company.com,30,50000\n", 1, ""},
		{"unknown first name", header + "Alice Smith,alice.smith0@company.com,30,50000,HR\n", 1, "name"},
		{"unknown last name", header + "Mary Lee,mary.lee0@company.com,30,50000,HR\n", 1, "name"},
		{"wrong index", header + "Mary Smith,mary.smith1@company.com,30,50000,HR\n", 1, "email"},
		{"age too low", header + "Mary Smith,mary.smith0@company.com,21,50000,HR\n", 1, "age"},
		{"age not a number", header + "Mary Smith,mary.smith0@company.com,old,50000,HR\n", 1, "age"},
		{"salary too high", header + "Mary Smith,mary.smith0@company.com,30,160001,HR\n", 1, "salary"},
		{"unknown department", header + "Mary Smith,mary.smith0@company.com,30,50000,Finance\n", 1, "department"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Verify(strings.NewReader(tt.data), Options{Count: tt.count})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			require.Len(t, report.Violations, 1)
			assert.Equal(t, tt.column, report.Violations[0].Column)
		})
	}
}

func TestVerify_Empty(t *testing.T) {
	_, err := Verify(strings.NewReader(""), Options{Count: -1})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestVerify_CapsViolations(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,email,age,salary,department\n")
	for i := 0; i < 150; i++ {
		b.WriteString("Mary Smith,x,30,50000,HR\n")
	}

	report, err := Verify(strings.NewReader(b.String()), Options{Count: 150})
	require.Error(t, err)
	assert.Len(t, report.Violations, maxViolations)
	assert.Equal(t, int64(150), report.Total)
}
