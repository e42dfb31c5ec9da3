// Package file implements the local file sink. Output goes to a temporary
// file next to the destination and is renamed into place on Close, so a
// failed run never leaves a partial file behind. The path "-" writes to
// standard output instead.
package file

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

// Stdout is the path that selects standard output.
const Stdout = "-"

// estimatedRowBytes approximates one encoded CSV row.
const estimatedRowBytes = 56

// Options configures a file target.
type Options struct {
	// Mkdir creates missing parent directories
	Mkdir bool
	// EstimatedBytes, when positive, is compared with free disk space
	EstimatedBytes int64
	Logger         *zap.Logger
}

// Target writes to a temporary file and renames it over Path on Commit.
type Target struct {
	path   string
	tmp    *os.File
	logger *zap.Logger
}

// Open creates the temporary file for path. The destination directory must
// exist unless opts.Mkdir is set.
func Open(path string, opts Options) (*Target, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	dir := filepath.Dir(path)
	if opts.Mkdir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create directory").
				WithDetail("dir", dir)
		}
	}

	if opts.EstimatedBytes > 0 {
		checkFreeSpace(log, dir, opts.EstimatedBytes)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open output file").
			WithDetail("path", path)
	}

	log.Debug("opened temporary file", zap.String("path", path), zap.String("tmp", tmp.Name()))
	return &Target{path: path, tmp: tmp, logger: log}, nil
}

// Write writes to the temporary file
func (t *Target) Write(p []byte) (int, error) {
	return t.tmp.Write(p)
}

// Commit syncs and closes the temporary file, then renames it over the
// destination.
func (t *Target) Commit(_ context.Context) error {
	name := t.tmp.Name()
	if err := t.tmp.Sync(); err != nil {
		t.cleanup()
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to sync output file")
	}
	if err := t.tmp.Close(); err != nil {
		_ = os.Remove(name)
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to close output file")
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to set file mode")
	}
	if err := os.Rename(name, t.path); err != nil {
		_ = os.Remove(name)
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to move output into place").
			WithDetail("path", t.path)
	}
	t.logger.Debug("output committed", zap.String("path", t.path))
	return nil
}

// Discard closes and removes the temporary file.
func (t *Target) Discard(_ context.Context) error {
	t.cleanup()
	return nil
}

func (t *Target) cleanup() {
	name := t.tmp.Name()
	_ = t.tmp.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		t.logger.Warn("failed to remove temporary file", zap.String("tmp", name), zap.Error(err))
	}
}

func checkFreeSpace(log *zap.Logger, dir string, need int64) {
	usage, err := disk.Usage(dir)
	if err != nil {
		log.Debug("free space check skipped", zap.String("dir", dir), zap.Error(err))
		return
	}
	if uint64(need) > usage.Free {
		log.Warn("estimated output exceeds free disk space",
			zap.String("dir", dir),
			zap.Int64("estimated_bytes", need),
			zap.Uint64("free_bytes", usage.Free))
	}
}

// stdoutTarget streams to a writer that cannot be rolled back.
type stdoutTarget struct {
	io.Writer
}

func (stdoutTarget) Commit(context.Context) error  { return nil }
func (stdoutTarget) Discard(context.Context) error { return nil }

// New creates the file sink from cfg.Output.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	out := cfg.Output
	if out.Path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "file sink requires an output path")
	}

	if out.Path == Stdout {
		return sink.NewEncodedWriter(stdoutTarget{os.Stdout}, out)
	}

	target, err := Open(out.Path, Options{
		Mkdir:          out.Mkdir,
		EstimatedBytes: cfg.Generator.Count * estimatedRowBytes,
		Logger:         logger.WithContext(ctx),
	})
	if err != nil {
		return nil, err
	}

	w, err := sink.NewEncodedWriter(target, out)
	if err != nil {
		_ = target.Discard(ctx)
		return nil, err
	}
	return w, nil
}
