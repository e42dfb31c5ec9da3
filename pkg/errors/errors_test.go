package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "nothing"))
}

func TestWrap_PreservesCauseAndStack(t *testing.T) {
	inner := New(ErrorTypeIO, "write failed")
	outer := Wrap(inner, ErrorTypeCanceled, "run aborted")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeCanceled))
	assert.Equal(t, "canceled: run aborted: io: write failed", outer.Error())

	var got *Error
	require.True(t, As(outer.Unwrap(), &got))
	assert.Equal(t, ErrorTypeIO, got.Type)
}

func TestWrap_StdlibCause(t *testing.T) {
	err := Wrap(io.ErrShortWrite, ErrorTypeIO, "short write")
	assert.True(t, Is(err, io.ErrShortWrite))
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeConfig, "unknown sink %q", "ftp")
	assert.Equal(t, `config: unknown sink "ftp"`, err.Error())
	assert.False(t, IsType(io.EOF, ErrorTypeConfig))
}
