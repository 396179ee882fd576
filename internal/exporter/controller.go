package exporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/joe/frame-exporter/pkg/filesystem"
)

// Exported constants.
const (
	MsgExtractFailed  = "Failed to extract frames"
	MsgExportFailed   = "Failed to export frames"
	MsgExportComplete = "Frames exported successfully"

	// ScratchDirPermissions is the mode the scratch folder is recreated with
	ScratchDirPermissions = 0o750
)

// Exported variables.
var (
	ErrBusy       = errors.New("an extraction or export is already running")
	ErrClosed     = errors.New("controller is closed")
	ErrSuperseded = errors.New("operation was cleared before it finished")
)

// Deps are the collaborators a Controller drives.
type Deps struct {
	Extractor FrameExtractor
	Publisher Publisher
	Resolver  ContentResolver

	// Scratch holds ScratchDir, the folder frames are extracted into. It is wiped per pick.
	Scratch    filesystem.FileSystem
	ScratchDir string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the current State and runs commands against it.
// Every transition is emitted to all subscribers in order.
type Controller struct {
	deps   Deps
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	subs       map[*Subscription]struct{}
	generation uint64
	cancel     context.CancelFunc
	inflight   *Task
	closed     bool
}

// New creates a controller in the Start state.
func New(deps Deps, opts ...Option) *Controller {
	if deps.Scratch == nil {
		deps.Scratch = filesystem.NewRealFileSystem()
	}

	c := &Controller{
		deps:   deps,
		logger: zap.NewNop(),
		state:  Start{},
		subs:   make(map[*Subscription]struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe returns a stream that starts with the current state.
func (c *Controller) Subscribe() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		sub := newSubscription(c.state, nil)
		sub.Close()

		return sub
	}

	sub := newSubscription(c.state, c.unsubscribe)

	c.subs[sub] = struct{}{}

	return sub
}

// PickVideo extracts frames from source. Extracting is emitted before it returns.
func (c *Controller) PickVideo(ctx context.Context, source string) *Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.rejectLocked("pick_video"); err != nil {
		return finishedTask(err)
	}

	opCtx, gen, prev, task := c.beginLocked(ctx)
	c.setLocked(Extracting{Source: displaySource(source)})

	go c.runExtraction(opCtx, gen, prev, task, source)

	return task
}

// SelectFrame toggles frame. Outside ExtractionSuccess it does nothing.
func (c *Controller) SelectFrame(frame Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.state.(ExtractionSuccess)
	if !ok || c.closed {
		return
	}

	if !current.Contains(frame) {
		c.logger.Debug("select ignored, unknown frame", zap.String("frame", frame.Path()))
		return
	}

	c.setLocked(current.Toggle(frame))
}

// ClearSelection returns to Start from any state. Running work is cancelled and its
// result is discarded.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.generation++
	c.cancelLocked()
	c.setLocked(Start{})
}

// ExportFrames publishes frames in order. Exporting is emitted before it returns.
func (c *Controller) ExportFrames(ctx context.Context, frames []Frame) *Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.rejectLocked("export_frames"); err != nil {
		return finishedTask(err)
	}

	frames = append([]Frame(nil), frames...)

	opCtx, gen, prev, task := c.beginLocked(ctx)
	c.setLocked(Exporting{Total: len(frames)})

	go c.runExport(opCtx, gen, prev, task, frames)

	return task
}

// Close cancels running work and ends every subscription.
func (c *Controller) Close() {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	c.generation++
	c.cancelLocked()

	subs := make([]*Subscription, 0, len(c.subs))
	for sub := range c.subs {
		subs = append(subs, sub)
	}

	c.subs = map[*Subscription]struct{}{}
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (c *Controller) rejectLocked(command string) error {
	if c.closed {
		return ErrClosed
	}

	if IsBusy(c.state) {
		c.logger.Debug("command rejected", zap.String("command", command), zap.String("state", c.state.Name()))
		return ErrBusy
	}

	return nil
}

// beginLocked starts a new operation generation and returns what its goroutine needs.
func (c *Controller) beginLocked(parent context.Context) (context.Context, uint64, *Task, *Task) {
	c.cancelLocked()
	c.generation++

	opCtx, cancel := context.WithCancel(parent)
	c.cancel = cancel

	prev := c.inflight
	task := newTask()
	c.inflight = task

	return opCtx, c.generation, prev, task
}

func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// setLocked replaces the state and queues it for every subscriber.
func (c *Controller) setLocked(state State) {
	c.state = state

	for sub := range c.subs {
		sub.push(state)
	}
}

// commit sets state if gen is still current. It reports whether the state was applied.
func (c *Controller) commit(gen uint64, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.closed {
		c.logger.Debug("discarding stale result", zap.String("state", state.Name()))
		return false
	}

	c.setLocked(state)

	return true
}

// finishOperation releases gen's context if it is still the current one.
func (c *Controller) finishOperation(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.generation {
		c.cancelLocked()
	}
}

func (c *Controller) unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.subs, sub)
}

func (c *Controller) runExtraction(ctx context.Context, gen uint64, prev, task *Task, source string) {
	defer c.finishOperation(gen)

	if prev != nil {
		<-prev.Done()
	}

	frames, err := c.extract(ctx, source)
	if err != nil {
		c.logger.Warn("extraction failed", zap.String("source", source), zap.Error(err))

		if !c.commit(gen, Error{Message: MsgExtractFailed, Cause: err}) {
			err = ErrSuperseded
		}

		task.finish(err)

		return
	}

	c.logger.Info("frames extracted", zap.String("source", source), zap.Int("count", len(frames)))

	if !c.commit(gen, NewExtractionSuccess(frames)) {
		task.finish(ErrSuperseded)
		return
	}

	task.finish(nil)
}

func (c *Controller) extract(ctx context.Context, source string) ([]Frame, error) {
	scratch := c.deps.Scratch
	dir := c.deps.ScratchDir

	if dir == "" {
		return nil, fmt.Errorf("scratch folder is not configured")
	}

	if err := scratch.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear scratch folder %s: %w", dir, err)
	}

	if err := scratch.MkdirAll(dir, ScratchDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create scratch folder %s: %w", dir, err)
	}

	if c.deps.Resolver == nil || c.deps.Extractor == nil {
		return nil, fmt.Errorf("extraction is not configured")
	}

	resolved, err := c.deps.Resolver.Resolve(ctx, source)
	if err != nil {
		return nil, err
	}

	err = c.deps.Extractor.ExtractFrames(ctx, resolved.Path, dir, resolved.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := filesystem.CollectFiles(scratch.Scan(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted frames: %w", err)
	}

	frames := make([]Frame, 0, len(infos))

	for _, info := range infos {
		// Only the folder's own files count; ffmpeg writes flat output
		if strings.ContainsRune(info.RelativePath, filepath.Separator) {
			continue
		}

		frames = append(frames, Frame(filepath.Join(dir, info.RelativePath)))
	}

	return frames, nil
}

func (c *Controller) runExport(ctx context.Context, gen uint64, prev, task *Task, frames []Frame) {
	defer c.finishOperation(gen)

	if prev != nil {
		<-prev.Done()
	}

	var (
		exported []Receipt
		failed   []PublishFailure
		bytes    int64
	)

	for i, frame := range frames {
		receipt, err := c.publish(ctx, frame)
		if err != nil {
			c.logger.Warn("publish failed", zap.String("frame", frame.Path()), zap.Error(err))
			failed = append(failed, PublishFailure{Frame: frame, Err: err})
		} else {
			c.logger.Debug("frame published",
				zap.String("frame", frame.Path()),
				zap.String("destination", receipt.Destination),
				zap.Int64("bytes", receipt.Bytes))

			exported = append(exported, receipt)
			bytes += receipt.Bytes
		}

		if !c.commit(gen, Exporting{Done: i + 1, Total: len(frames)}) {
			task.finish(ErrSuperseded)
			return
		}
	}

	final, err := exportResult(len(frames), exported, failed, bytes)

	c.logger.Info("export finished",
		zap.Int("requested", len(frames)),
		zap.Int("exported", len(exported)),
		zap.Int("failed", len(failed)),
		zap.Int64("bytes", bytes))

	if !c.commit(gen, final) {
		err = ErrSuperseded
	}

	task.finish(err)
}

func (c *Controller) publish(ctx context.Context, frame Frame) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	if c.deps.Publisher == nil {
		return Receipt{}, fmt.Errorf("publishing is not configured")
	}

	return c.deps.Publisher.Publish(ctx, frame.Path())
}

// exportResult maps publish outcomes onto the final state and the task error.
func exportResult(total int, exported []Receipt, failed []PublishFailure, bytes int64) (State, error) {
	if total > 0 && len(exported) == 0 {
		errs := make([]error, 0, len(failed))
		for _, f := range failed {
			errs = append(errs, fmt.Errorf("%s: %w", f.Frame.Name(), f.Err))
		}

		cause := errors.Join(errs...)

		return Error{Message: MsgExportFailed, Cause: cause}, cause
	}

	message := MsgExportComplete
	if len(failed) > 0 {
		message = fmt.Sprintf("Exported %d of %d frames", len(exported), total)
	}

	return ExportSuccess{
		Message:  message,
		Exported: exported,
		Failed:   failed,
		Bytes:    bytes,
	}, nil
}

// displaySource shortens a picked path or URL for the Extracting screen.
func displaySource(source string) string {
	trimmed := strings.TrimRight(source, "/")
	if trimmed == "" {
		return source
	}

	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}

	return filepath.Base(trimmed)
}
