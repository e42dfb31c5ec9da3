package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("James Smith,james.smith0@company.com,30,50000,Engineering\n"), 500)

	for _, alg := range Algorithms() {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(string(alg)+"/"+level.String(), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, &Config{Algorithm: alg, Level: level})
				require.NoError(t, err)

				_, err = w.Write(original)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(original))
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				defer r.Close()

				got, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, original, got)
			})
		}
	}
}

func TestNewWriter_Unsupported(t *testing.T) {
	_, err := NewWriter(io.Discard, &Config{Algorithm: "brotli"})
	assert.Error(t, err)

	_, err = NewReader(bytes.NewReader(nil), "brotli")
	assert.Error(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"GZIP", Gzip, false},
		{"zstd", Zstd, false},
		{"brotli", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, Default, l)

	l, err = ParseLevel("best")
	require.NoError(t, err)
	assert.Equal(t, Best, l)

	_, err = ParseLevel("11")
	assert.Error(t, err)
}

func TestFromPath(t *testing.T) {
	assert.Equal(t, Gzip, FromPath("demo-data/large-records.csv.gz"))
	assert.Equal(t, Zstd, FromPath("out.csv.ZST"))
	assert.Equal(t, None, FromPath("out.csv"))
	assert.Equal(t, None, FromPath("out"))
	assert.Equal(t, ".lz4", LZ4.Extension())
	assert.Equal(t, "", None.Extension())
}
