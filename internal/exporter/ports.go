package exporter

import (
	"context"
)

// FrameExtractor splits a video into images written to outputDir.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoPath, outputDir, baseName string) error
}

// Publisher copies one frame into the public downloads area.
type Publisher interface {
	Publish(ctx context.Context, framePath string) (Receipt, error)
}

// ContentResolver turns a picked source into a readable local file.
type ContentResolver interface {
	Resolve(ctx context.Context, source string) (Source, error)
}

// Source is a resolved video.
type Source struct {
	Path        string
	DisplayName string
}

// Receipt describes one published frame.
type Receipt struct {
	Source      string
	Destination string
	Name        string
	ContentType string
	Bytes       int64
}

// PublishFailure is a frame that could not be published.
type PublishFailure struct {
	Frame Frame
	Err   error
}
