package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/kr/fs"
)

// realFileScanner implements FileScanner on top of a kr/fs walker.
// The tree is walked lazily on the first call to Next.
type realFileScanner struct {
	root    string
	inner   *sliceScanner
	scanned bool
}

// newRealFileScanner creates a new scanner for the given directory.
func newRealFileScanner(root string) *realFileScanner {
	return &realFileScanner{root: root}
}

// Err returns any error that occurred during scanning.
func (s *realFileScanner) Err() error {
	if s.inner == nil {
		return nil
	}

	return s.inner.Err()
}

// Next advances to the next entry and returns its info.
func (s *realFileScanner) Next() (FileInfo, bool) {
	if !s.scanned {
		s.inner = newSliceScanner(s.walk())
		s.scanned = true
	}

	return s.inner.Next()
}

func (s *realFileScanner) walk() ([]FileInfo, error) {
	files := make([]FileInfo, 0)
	walker := fs.Walk(s.root)

	for walker.Step() {
		if err := walker.Err(); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", s.root, err)
		}

		relPath, err := filepath.Rel(s.root, walker.Path())
		if err != nil {
			return nil, fmt.Errorf("failed to get relative path for %s: %w", walker.Path(), err)
		}

		// Skip the root directory itself
		if relPath == "." {
			continue
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
