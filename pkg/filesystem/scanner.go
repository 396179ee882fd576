package filesystem

import (
	"sort"
	"time"
)

// FileScanner is an iterator over entries in a directory tree.
type FileScanner interface {
	// Next advances to the next entry and returns its info.
	// Returns (FileInfo{}, false) when done or on error.
	// Check Err() after Next() returns false to distinguish between end-of-scan and error.
	Next() (FileInfo, bool)

	// Err returns any error that occurred during scanning.
	Err() error
}

// FileInfo contains metadata about a scanned entry.
type FileInfo struct {
	// RelativePath is the path relative to the scan root, using the filesystem's separator.
	RelativePath string

	Size    int64
	ModTime time.Time
	IsDir   bool
}

// CollectFiles drains a scanner and returns the regular files it produced, sorted by
// relative path. Directories are skipped.
func CollectFiles(scanner FileScanner) ([]FileInfo, error) {
	var files []FileInfo

	for info, ok := scanner.Next(); ok; info, ok = scanner.Next() {
		if info.IsDir {
			continue
		}

		files = append(files, info)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})

	return files, nil
}

// sliceScanner walks a pre-collected list of entries.
type sliceScanner struct {
	files []FileInfo
	index int
	err   error
}

func newSliceScanner(files []FileInfo, err error) *sliceScanner {
	return &sliceScanner{files: files, index: -1, err: err}
}

// Err returns the error recorded when the entries were collected.
func (s *sliceScanner) Err() error {
	return s.err
}

// Next advances to the next entry.
func (s *sliceScanner) Next() (FileInfo, bool) {
	if s.err != nil {
		return FileInfo{}, false
	}

	s.index++
	if s.index >= len(s.files) {
		return FileInfo{}, false
	}

	return s.files[s.index], true
}
