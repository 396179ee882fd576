package tui_test

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/pkg/filesystem"
)

const scratchDir = "/cache/framesTemp"

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, source string) (exporter.Source, error) {
	return exporter.Source{Path: source, DisplayName: "clip"}, nil
}

type stubExtractor struct {
	fs    *filesystem.MockFileSystem
	count int
}

func (e stubExtractor) ExtractFrames(_ context.Context, _, outputDir, baseName string) error {
	for i := 1; i <= e.count; i++ {
		name := fmt.Sprintf("%s_frame_%04d.png", baseName, i)
		e.fs.AddFile(filepath.Join(outputDir, name), []byte(name), time.Now())
	}

	return nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(_ context.Context, framePath string) (exporter.Receipt, error) {
	return exporter.Receipt{
		Source:      framePath,
		Destination: filepath.Join("/downloads", filepath.Base(framePath)),
		Name:        filepath.Base(framePath),
		ContentType: "image/png",
		Bytes:       1,
	}, nil
}

func newController(frames int) *exporter.Controller {
	fs := filesystem.NewMockFileSystem()

	return exporter.New(exporter.Deps{
		Extractor:  stubExtractor{fs: fs, count: frames},
		Publisher:  stubPublisher{},
		Resolver:   stubResolver{},
		Scratch:    fs,
		ScratchDir: scratchDir,
	})
}

func frameAt(i int) exporter.Frame {
	return exporter.Frame(filepath.Join(scratchDir, fmt.Sprintf("clip_frame_%04d.png", i)))
}
