package filesystem

import (
	"fmt"
	"path"

	"github.com/pkg/sftp"
)

// sftpScanner implements FileScanner for SFTP directories.
type sftpScanner struct {
	client  *sftp.Client
	root    string
	inner   *sliceScanner
	scanned bool
}

// newSFTPScanner creates a new scanner for the given SFTP directory.
func newSFTPScanner(client *sftp.Client, root string) *sftpScanner {
	return &sftpScanner{client: client, root: root}
}

// Err returns any error that occurred during scanning.
func (s *sftpScanner) Err() error {
	if s.inner == nil {
		return nil
	}

	return s.inner.Err()
}

// Next advances to the next entry and returns its info.
func (s *sftpScanner) Next() (FileInfo, bool) {
	if !s.scanned {
		s.inner = newSliceScanner(s.walk())
		s.scanned = true
	}

	return s.inner.Next()
}

// walk collects the remote directory tree.
func (s *sftpScanner) walk() ([]FileInfo, error) {
	files := make([]FileInfo, 0)
	walker := s.client.Walk(s.root)

	for walker.Step() {
		if err := walker.Err(); err != nil { //nolint:noinlineerr // Inline error check is idiomatic for walker error handling
			return nil, fmt.Errorf("error scanning SFTP directory: %w", err)
		}

		fullPath := walker.Path()
		if path.Clean(fullPath) == path.Clean(s.root) {
			continue
		}

		relPath, err := relativePath(s.root, fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to get relative path for %s: %w", fullPath, err)
		}

		stat := walker.Stat()
		files = append(files, FileInfo{
			RelativePath: relPath,
			Size:         stat.Size(),
			ModTime:      stat.ModTime(),
			IsDir:        stat.IsDir(),
		})
	}

	return files, nil
}

// relativePath computes the relative path from root to target.
// Uses path package (not filepath) since SFTP always uses forward slashes.
func relativePath(root, target string) (string, error) {
	root = path.Clean(root)
	target = path.Clean(target)

	if root == "." {
		return target, nil
	}

	prefix := root
	if prefix != "/" {
		prefix += "/"
	}

	if len(target) <= len(prefix) || target[:len(prefix)] != prefix {
		return "", fmt.Errorf("target %s is not under root %s", target, root) //nolint:err113 // Path validation error with actual paths
	}

	return target[len(prefix):], nil
}
