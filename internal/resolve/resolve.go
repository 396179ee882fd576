// Package resolve turns a picked video (path, file:// or sftp:// URL) into a local file.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/logging"
	"github.com/joe/frame-exporter/pkg/fileops"
	"github.com/joe/frame-exporter/pkg/filesystem"
)

// Exported constants.
const (
	// StagingFolderName is the folder next to the scratch folder that remote videos are downloaded into
	StagingFolderName = "sourceTemp"
)

// Exported variables.
var (
	ErrUnresolved = errors.New("could not resolve video")
)

// FileSystemFactory opens the filesystem behind a remote URL.
type FileSystemFactory func(url string) (filesystem.FileSystem, string, func(), error)

// Resolver resolves sources against the local filesystem, downloading remote ones first.
type Resolver struct {
	local      filesystem.FileSystem
	stagingDir string
	remote     FileSystemFactory
	logger     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocalFileSystem replaces the local filesystem.
func WithLocalFileSystem(fs filesystem.FileSystem) Option {
	return func(r *Resolver) {
		r.local = fs
	}
}

// WithRemoteFactory replaces how sftp:// sources are opened.
func WithRemoteFactory(factory FileSystemFactory) Option {
	return func(r *Resolver) {
		r.remote = factory
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.OrNop(logger)
	}
}

// New creates a resolver that stages remote downloads in stagingDir.
func New(stagingDir string, opts ...Option) *Resolver {
	r := &Resolver{
		local:      filesystem.NewRealFileSystem(),
		stagingDir: stagingDir,
		remote:     filesystem.CreateFileSystem,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// StagingDirFor returns the staging folder that sits next to scratchDir.
func StagingDirFor(scratchDir string) string {
	return filepath.Join(filepath.Dir(scratchDir), StagingFolderName)
}

// Resolve returns a readable local copy of source and its display name.
func (r *Resolver) Resolve(ctx context.Context, source string) (exporter.Source, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return exporter.Source{}, fmt.Errorf("%w: no video was picked", ErrUnresolved)
	}

	parsed, err := filesystem.ParsePath(source)
	if err != nil {
		return exporter.Source{}, fmt.Errorf("%w: %w", ErrUnresolved, err)
	}

	if parsed.IsRemote {
		return r.resolveRemote(ctx, source, parsed)
	}

	localPath, err := expandHome(parsed.LocalPath)
	if err != nil {
		return exporter.Source{}, fmt.Errorf("%w: %w", ErrUnresolved, err)
	}

	if err := checkRegular(r.local, localPath); err != nil {
		return exporter.Source{}, err
	}

	r.logger.Debug("resolved local video", zap.String("path", localPath))

	return exporter.Source{Path: localPath, DisplayName: DisplayName(localPath)}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, source string, parsed *filesystem.ParsedPath) (exporter.Source, error) {
	if r.stagingDir == "" {
		return exporter.Source{}, fmt.Errorf("%w: no staging folder for remote videos", ErrUnresolved)
	}

	remoteFS, remotePath, closer, err := r.remote(source)
	if err != nil {
		return exporter.Source{}, fmt.Errorf("%w: %w", ErrUnresolved, err)
	}
	defer closer()

	if err := checkRegular(remoteFS, remotePath); err != nil {
		return exporter.Source{}, err
	}

	err = r.local.RemoveAll(r.stagingDir)
	if err != nil {
		return exporter.Source{}, fmt.Errorf("failed to clear staging folder: %w", err)
	}

	name := path.Base(remotePath)
	localPath := filepath.Join(r.stagingDir, name)

	r.logger.Info("downloading remote video",
		zap.String("source", parsed.String()),
		zap.String("staging", localPath))

	stats, err := fileops.NewDualFileOps(remoteFS, r.local).CopyFile(ctx, remotePath, localPath, nil)
	if err != nil {
		return exporter.Source{}, fmt.Errorf("%w: download failed: %w", ErrUnresolved, err)
	}

	r.logger.Debug("remote video downloaded", zap.Int64("bytes", stats.BytesCopied))

	return exporter.Source{Path: localPath, DisplayName: DisplayName(name)}, nil
}

// DisplayName is the file name without its extension.
func DisplayName(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkRegular(fs filesystem.FileSystem, p string) error {
	info, err := fs.Stat(p)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnresolved, p, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrUnresolved, p)
	}

	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
