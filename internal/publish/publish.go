// Package publish copies extracted frames into the downloads area (local folder or SFTP).
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/logging"
	"github.com/joe/frame-exporter/pkg/fileops"
	"github.com/joe/frame-exporter/pkg/filesystem"
)

// Exported constants.
const (
	// DefaultContentType tags frames whose extension is not a known image type
	DefaultContentType = "image/jpeg"
	// MaxNameAttempts bounds the "name (n).ext" search for a free file name
	MaxNameAttempts = 10000
)

// Exported variables.
var (
	ErrNoFreeName = errors.New("no free file name in downloads")
)

//nolint:gochecknoglobals // read-only lookup table
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".gif":  "image/gif",
}

// Publisher copies frames from the local scratch folder into a downloads folder.
type Publisher struct {
	source  filesystem.FileSystem
	dest    filesystem.FileSystem
	destDir string
	join    func(elem ...string) string
	logger  *zap.Logger

	// mu serializes name picking so two publishes never claim the same name
	mu sync.Mutex
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSourceFileSystem replaces the filesystem frames are read from.
func WithSourceFileSystem(fs filesystem.FileSystem) Option {
	return func(p *Publisher) {
		p.source = fs
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Publisher) {
		p.logger = logging.OrNop(logger)
	}
}

// withSlashPaths joins destination paths with forward slashes, as SFTP servers expect.
func withSlashPaths() Option {
	return func(p *Publisher) {
		p.join = path.Join
	}
}

// New creates a publisher writing into destDir on dest.
func New(dest filesystem.FileSystem, destDir string, opts ...Option) *Publisher {
	p := &Publisher{
		source:  filesystem.NewRealFileSystem(),
		dest:    dest,
		destDir: destDir,
		join:    filepath.Join,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Open creates a publisher for a downloads path or sftp:// URL.
// The returned closer releases any SFTP connection and is never nil.
func Open(downloads string, opts ...Option) (*Publisher, func(), error) {
	dest, destDir, closer, err := filesystem.CreateFileSystem(downloads)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open downloads %s: %w", downloads, err)
	}

	if filesystem.IsRemotePath(downloads) {
		opts = append([]Option{withSlashPaths()}, opts...)
	}

	return New(dest, destDir, opts...), closer, nil
}

// Destination describes where frames are published, for display.
func (p *Publisher) Destination() string {
	return p.destDir
}

// Publish copies framePath into the downloads folder under a free name.
func (p *Publisher) Publish(ctx context.Context, framePath string) (exporter.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return exporter.Receipt{}, err
	}

	name := filepath.Base(framePath)

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.dest.MkdirAll(p.destDir, fileops.DefaultDirPermissions)
	if err != nil {
		return exporter.Receipt{}, fmt.Errorf("failed to create downloads folder %s: %w", p.destDir, err)
	}

	target, err := p.freeName(name)
	if err != nil {
		return exporter.Receipt{}, err
	}

	stats, err := fileops.NewDualFileOps(p.source, p.dest).CopyFile(ctx, framePath, target, nil)
	if err != nil {
		return exporter.Receipt{}, fmt.Errorf("failed to publish %s: %w", name, err)
	}

	receipt := exporter.Receipt{
		Source:      framePath,
		Destination: target,
		Name:        path.Base(filepath.ToSlash(target)),
		ContentType: ContentType(name),
		Bytes:       stats.BytesCopied,
	}

	p.logger.Debug("published frame",
		zap.String("source", framePath),
		zap.String("destination", target),
		zap.String("content_type", receipt.ContentType))

	return receipt, nil
}

// freeName returns the first of name, "base (1).ext", "base (2).ext", ... not yet taken.
func (p *Publisher) freeName(name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 0; i < MaxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}

		target := p.join(p.destDir, candidate)

		_, err := p.dest.Stat(target)
		if errors.Is(err, os.ErrNotExist) {
			return target, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", target, err)
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoFreeName, name)
}

// ContentType returns the image MIME type for name's extension.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}

	return DefaultContentType
}
