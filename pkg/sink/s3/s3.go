// Package s3 implements a sink that streams the encoded dataset into a
// single Amazon S3 object through the multipart upload manager.
package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

var errAborted = errors.New(errors.ErrorTypeCanceled, "upload aborted")

// Uploader is the subset of manager.Uploader used by the sink.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Target feeds an upload through a pipe. The upload runs in its own
// goroutine and completes when the pipe is closed.
type Target struct {
	pw     *io.PipeWriter
	done   chan error
	cancel context.CancelFunc
	bucket string
	key    string
	logger *zap.Logger
}

// NewTarget starts uploading input; its Body is replaced by a pipe fed
// through the returned target's Write.
func NewTarget(ctx context.Context, up Uploader, input *s3.PutObjectInput, log *zap.Logger) *Target {
	pr, pw := io.Pipe()
	uctx, cancel := context.WithCancel(ctx)
	input.Body = pr

	t := &Target{
		pw:     pw,
		done:   make(chan error, 1),
		cancel: cancel,
		bucket: aws.ToString(input.Bucket),
		key:    aws.ToString(input.Key),
		logger: log,
	}

	go func() {
		out, err := up.Upload(uctx, input)
		// unblock the writer if the upload stopped reading early
		_ = pr.CloseWithError(err)
		if err == nil && out != nil {
			log.Debug("s3 upload finished", zap.String("location", out.Location))
		}
		t.done <- err
	}()

	return t
}

// Write streams p into the upload
func (t *Target) Write(p []byte) (int, error) {
	return t.pw.Write(p)
}

// Commit closes the pipe and waits for the upload to complete.
func (t *Target) Commit(_ context.Context) error {
	defer t.cancel()
	_ = t.pw.Close()
	if err := <-t.done; err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "s3 upload failed").
			WithDetail("bucket", t.bucket).
			WithDetail("key", t.key)
	}
	t.logger.Info("object uploaded to s3", zap.String("bucket", t.bucket), zap.String("key", t.key))
	return nil
}

// Discard fails the pipe so the upload manager abandons the object.
func (t *Target) Discard(_ context.Context) error {
	_ = t.pw.CloseWithError(errAborted)
	t.cancel()
	<-t.done
	t.logger.Warn("s3 upload aborted", zap.String("bucket", t.bucket), zap.String("key", t.key))
	return nil
}

// New creates the s3 sink from cfg.Sinks.S3. The object key defaults to
// the output path.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	sc := cfg.Sinks.S3
	if sc.Bucket == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "s3 sink requires a bucket")
	}
	key := sc.Key
	if key == "" {
		key = cfg.Output.Path
	}
	if key == "" || key == "-" {
		return nil, errors.New(errors.ErrorTypeConfig, "s3 sink requires an object key")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(sc.Region))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to load AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
		}
		o.UsePathStyle = sc.UsePathStyle
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		if sc.PartSizeMB > 0 {
			u.PartSize = sc.PartSizeMB * 1024 * 1024
		}
		if sc.Concurrency > 0 {
			u.Concurrency = sc.Concurrency
		}
	})

	log := logger.WithContext(ctx).With(zap.String("bucket", sc.Bucket), zap.String("key", key))
	target := NewTarget(ctx, uploader, &s3.PutObjectInput{
		Bucket:      aws.String(sc.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(sink.ContentType(cfg.Output)),
		Metadata:    sink.ObjectMetadata(cfg.Output),
	}, log)

	w, err := sink.NewEncodedWriter(target, cfg.Output)
	if err != nil {
		_ = target.Discard(ctx)
		return nil, err
	}
	return w, nil
}
