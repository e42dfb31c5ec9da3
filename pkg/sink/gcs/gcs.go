// Package gcs implements a sink that streams the encoded dataset into a
// single Google Cloud Storage object.
package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

// Target writes through an object writer. The object is finalized only
// when the writer closes with its context still live.
type Target struct {
	w       io.WriteCloser
	cancel  context.CancelFunc
	release func() error
	object  string
	logger  *zap.Logger
}

// NewTarget wraps an object writer created under a context that cancel
// cancels. release, if non-nil, runs after the writer is closed.
func NewTarget(w io.WriteCloser, cancel context.CancelFunc, release func() error, object string, log *zap.Logger) *Target {
	return &Target{w: w, cancel: cancel, release: release, object: object, logger: log}
}

// Write streams p to the object
func (t *Target) Write(p []byte) (int, error) {
	return t.w.Write(p)
}

// Commit closes the writer, finalizing the object.
func (t *Target) Commit(_ context.Context) error {
	defer t.cancel()
	defer t.close()

	if err := t.w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "gcs upload failed").
			WithDetail("object", t.object)
	}
	t.logger.Info("object uploaded to gcs", zap.String("object", t.object))
	return nil
}

// Discard cancels the writer's context before closing it so the upload
// is abandoned.
func (t *Target) Discard(_ context.Context) error {
	t.cancel()
	_ = t.w.Close()
	t.close()
	t.logger.Warn("gcs upload aborted", zap.String("object", t.object))
	return nil
}

func (t *Target) close() {
	if t.release == nil {
		return
	}
	if err := t.release(); err != nil {
		t.logger.Debug("failed to close gcs client", zap.Error(err))
	}
	t.release = nil
}

// New creates the gcs sink from cfg.Sinks.GCS. The object name defaults
// to the output path.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	gc := cfg.Sinks.GCS
	if gc.Bucket == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "gcs sink requires a bucket")
	}
	object := gc.Object
	if object == "" {
		object = cfg.Output.Path
	}
	if object == "" || object == "-" {
		return nil, errors.New(errors.ErrorTypeConfig, "gcs sink requires an object name")
	}

	var opts []option.ClientOption
	if gc.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(gc.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create gcs client")
	}

	wctx, cancel := context.WithCancel(ctx)
	ow := client.Bucket(gc.Bucket).Object(object).NewWriter(wctx)
	ow.ContentType = sink.ContentType(cfg.Output)
	ow.Metadata = sink.ObjectMetadata(cfg.Output)
	if gc.ChunkSizeMB > 0 {
		ow.ChunkSize = gc.ChunkSizeMB * 1024 * 1024
	}

	log := logger.WithContext(ctx).With(zap.String("bucket", gc.Bucket))
	target := NewTarget(ow, cancel, client.Close, object, log)

	w, err := sink.NewEncodedWriter(target, cfg.Output)
	if err != nil {
		_ = target.Discard(ctx)
		return nil, err
	}
	return w, nil
}
