// Package fileops copies files between filesystems with progress reporting and cancellation.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/joe/frame-exporter/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for file copy operations (32KB)
	BufferSize = 32 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
)

// Exported variables.
var (
	ErrCopyCancelled = errors.New("copy cancelled")
)

// CopyStats contains timing information about a copy operation
type CopyStats struct {
	BytesCopied int64
	ReadTime    time.Duration
	WriteTime   time.Duration
}

// ProgressCallback is called during file operations to report progress
type ProgressCallback func(bytesTransferred int64, totalBytes int64, currentFile string)

// FileOps copies files from SourceFS to DestFS.
// Both may be the same filesystem; a nil DestFS means SourceFS.
type FileOps struct {
	SourceFS filesystem.FileSystem
	DestFS   filesystem.FileSystem
}

// NewFileOps creates a FileOps that reads and writes on the same filesystem.
func NewFileOps(fs filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: fs, DestFS: fs}
}

// NewDualFileOps creates a FileOps with separate source and destination filesystems.
func NewDualFileOps(sourceFS, destFS filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: sourceFS, DestFS: destFS}
}

// CopyFile copies src on the source filesystem to dst on the destination filesystem.
// The destination directory is created when missing. A failed or cancelled copy removes
// the partial destination file.
func (fo *FileOps) CopyFile(ctx context.Context, src, dst string, progress ProgressCallback) (*CopyStats, error) {
	stats := &CopyStats{}
	dstFS := fo.destFS()

	sourceFile, err := fo.SourceFS.Open(src)
	if err != nil {
		return stats, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return stats, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	dstDir := filepath.Dir(dst)

	err = dstFS.MkdirAll(dstDir, DefaultDirPermissions)
	if err != nil {
		return stats, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	destFile, err := dstFS.Create(dst)
	if err != nil {
		return stats, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	closed := false
	completed := false

	defer func() {
		if !closed {
			_ = destFile.Close()
		}

		if !completed {
			_ = dstFS.Remove(dst)
		}
	}()

	written, err := copyLoop(ctx, sourceFile, destFile, stats, sourceInfo.Size(), src, progress)
	if err != nil {
		return stats, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	stats.BytesCopied = written

	closed = true

	err = destFile.Close()
	if err != nil {
		return stats, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	completed = true

	return stats, nil
}

func (fo *FileOps) destFS() filesystem.FileSystem {
	if fo.DestFS != nil {
		return fo.DestFS
	}

	return fo.SourceFS
}

func copyLoop(
	ctx context.Context,
	sourceFile, destFile filesystem.File,
	stats *CopyStats,
	sourceSize int64,
	srcPath string,
	progress ProgressCallback,
) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		if ctx.Err() != nil {
			return written, ErrCopyCancelled
		}

		readStart := time.Now()
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		stats.ReadTime += time.Since(readStart)

		if nr > 0 {
			writeStart := time.Now()
			nw, werr := destFile.Write(buf[:nr])
			stats.WriteTime += time.Since(writeStart)

			if werr != nil {
				return written, fmt.Errorf("failed to write to destination: %w", werr)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)

			if progress != nil {
				progress(written, sourceSize, srcPath)
			}
		}

		if errors.Is(err, io.EOF) {
			return written, nil
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}
}
