package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/generator"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

type fakeUploader struct {
	body   bytes.Buffer
	input  *s3.PutObjectInput
	failOn int
	stored bool
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = input
	if f.failOn > 0 {
		_, _ = io.CopyN(&f.body, input.Body, int64(f.failOn))
		return nil, fmt.Errorf("connection reset")
	}
	if _, err := io.Copy(&f.body, input.Body); err != nil {
		return nil, err
	}
	f.stored = true
	return &manager.UploadOutput{Location: "s3://bucket/key"}, nil
}

func newInput() *s3.PutObjectInput {
	return &s3.PutObjectInput{Bucket: aws.String("bucket"), Key: aws.String("demo-data/large-records.csv")}
}

func TestTarget_Commit(t *testing.T) {
	ctx := context.Background()
	up := &fakeUploader{}
	target := NewTarget(ctx, up, newInput(), zaptest.NewLogger(t))

	w, err := sink.NewEncodedWriter(target, config.Default().Output)
	require.NoError(t, err)
	_, err = generator.New(generator.WithSampler(generator.NewSampler(1))).Run(ctx, w, 10)
	require.NoError(t, err)

	assert.True(t, up.stored)
	assert.Equal(t, "demo-data/large-records.csv", aws.ToString(up.input.Key))
	assert.Equal(t, 11, strings.Count(up.body.String(), "\n"))
	assert.True(t, strings.HasPrefix(up.body.String(), "name,email,age,salary,department\n"))
}

func TestTarget_Discard(t *testing.T) {
	ctx := context.Background()
	up := &fakeUploader{}
	target := NewTarget(ctx, up, newInput(), zaptest.NewLogger(t))

	_, err := target.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, target.Discard(ctx))
	assert.False(t, up.stored)
}

func TestTarget_UploadFailure(t *testing.T) {
	ctx := context.Background()
	up := &fakeUploader{failOn: 4}
	target := NewTarget(ctx, up, newInput(), zaptest.NewLogger(t))

	_, _ = target.Write([]byte("name"))
	// the reader is gone; further writes fail with the upload error
	_, err := target.Write([]byte(",email"))
	assert.Error(t, err)

	err = target.Commit(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), config.Default())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNew_Registered(t *testing.T) {
	assert.True(t, sink.Has("s3"))
}
