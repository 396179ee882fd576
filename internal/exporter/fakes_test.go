//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package exporter_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/pkg/filesystem"
)

const scratchDir = "/cache/framesTemp"

var errBoom = errors.New("boom")

type fakeResolver struct {
	err error
}

func (r *fakeResolver) Resolve(_ context.Context, source string) (exporter.Source, error) {
	if r.err != nil {
		return exporter.Source{}, r.err
	}

	return exporter.Source{Path: source, DisplayName: "clip"}, nil
}

// fakeExtractor writes count frames into the scratch filesystem.
// When gate is set it blocks until gate is closed or ctx is cancelled.
type fakeExtractor struct {
	fs    *filesystem.MockFileSystem
	count int
	err   error
	gate  chan struct{}
	// nested also writes a file in a subfolder
	nested bool

	mu    sync.Mutex
	calls []string
}

func (e *fakeExtractor) ExtractFrames(ctx context.Context, videoPath, outputDir, baseName string) error {
	e.mu.Lock()
	e.calls = append(e.calls, videoPath)
	e.mu.Unlock()

	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if e.err != nil {
		return e.err
	}

	// Written in reverse to prove the controller sorts
	for i := e.count; i >= 1; i-- {
		name := fmt.Sprintf("%s_frame_%04d.png", baseName, i)
		e.fs.AddFile(filepath.Join(outputDir, name), []byte(name), time.Now())
	}

	if e.nested {
		e.fs.AddFile(filepath.Join(outputDir, "nested", "extra.png"), []byte("x"), time.Now())
	}

	return nil
}

func (e *fakeExtractor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.calls...)
}

type fakePublisher struct {
	fail map[string]bool
	gate chan struct{}

	mu        sync.Mutex
	published []string
}

func (p *fakePublisher) Publish(ctx context.Context, framePath string) (exporter.Receipt, error) {
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return exporter.Receipt{}, ctx.Err()
		}
	}

	if p.fail[filepath.Base(framePath)] {
		return exporter.Receipt{}, errBoom
	}

	p.mu.Lock()
	p.published = append(p.published, framePath)
	p.mu.Unlock()

	return exporter.Receipt{
		Source:      framePath,
		Destination: filepath.Join("/downloads", filepath.Base(framePath)),
		Name:        filepath.Base(framePath),
		ContentType: "image/png",
		Bytes:       10,
	}, nil
}

func (p *fakePublisher) Published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.published...)
}

type harness struct {
	fs        *filesystem.MockFileSystem
	extractor *fakeExtractor
	publisher *fakePublisher
	resolver  *fakeResolver
	ctrl      *exporter.Controller
}

func newHarness(frameCount int) *harness {
	fs := filesystem.NewMockFileSystem()
	h := &harness{
		fs:        fs,
		extractor: &fakeExtractor{fs: fs, count: frameCount},
		publisher: &fakePublisher{fail: map[string]bool{}},
		resolver:  &fakeResolver{},
	}

	h.ctrl = exporter.New(exporter.Deps{
		Extractor:  h.extractor,
		Publisher:  h.publisher,
		Resolver:   h.resolver,
		Scratch:    fs,
		ScratchDir: scratchDir,
	})

	return h
}

func frameAt(i int) exporter.Frame {
	return exporter.Frame(filepath.Join(scratchDir, fmt.Sprintf("clip_frame_%04d.png", i)))
}

// collect reads n states from sub, failing after a timeout.
func collect(sub *exporter.Subscription, n int) ([]exporter.State, error) {
	states := make([]exporter.State, 0, n)
	timeout := time.After(2 * time.Second)

	for len(states) < n {
		select {
		case s, ok := <-sub.C():
			if !ok {
				return states, errors.New("subscription closed")
			}

			states = append(states, s)
		case <-timeout:
			return states, fmt.Errorf("timed out after %d of %d states", len(states), n)
		}
	}

	return states, nil
}

func names(states []exporter.State) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, s.Name())
	}

	return out
}
