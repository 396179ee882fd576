// Package tui renders the controller's state and turns key presses into controller commands.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/tui/screens"
	"github.com/joe/frame-exporter/internal/tui/shared"
)

// Command names reported in TaskDoneMsg.
const (
	CommandPickVideo    = "pick_video"
	CommandExportFrames = "export_frames"
)

// Controller is the part of exporter.Controller the UI drives.
type Controller interface {
	State() exporter.State
	Subscribe() *exporter.Subscription
	PickVideo(ctx context.Context, source string) *exporter.Task
	SelectFrame(frame exporter.Frame)
	ClearSelection()
	ExportFrames(ctx context.Context, frames []exporter.Frame) *exporter.Task
}

// Options configure the app model.
type Options struct {
	Columns int
	// InitialVideo is picked as soon as the program starts
	InitialVideo string
	// Downloads is shown on the start and success screens
	Downloads string
	Logger    *zap.Logger
}

// typer is implemented by screens that own a text input.
type typer interface {
	Typing() bool
}

// AppModel is the top-level model. The controller owns the session state;
// each emission picks the screen.
type AppModel struct {
	ctrl       Controller
	bridge     *shared.StateBridge
	opts       Options
	logger     *zap.Logger
	ctx        context.Context //nolint:containedctx // commands outlive a single Update
	state      exporter.State
	screen     tea.Model
	lastSource string
	width      int
	height     int
}

// NewAppModel subscribes to ctrl and shows the screen for its current state.
func NewAppModel(ctx context.Context, ctrl Controller, opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := AppModel{
		ctrl:       ctrl,
		bridge:     shared.NewStateBridge(ctrl.Subscribe()),
		opts:       opts,
		logger:     logger,
		ctx:        ctx,
		lastSource: opts.InitialVideo,
	}
	app.state = ctrl.State()
	app.screen = app.newScreen(app.state)

	return app
}

// CurrentScreen returns the current screen (for testing)
func (a AppModel) CurrentScreen() tea.Model {
	return a.screen
}

// State returns the last state received from the controller.
func (a AppModel) State() exporter.State {
	return a.state
}

// Close stops listening to the controller.
func (a AppModel) Close() {
	a.bridge.Close()
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{a.bridge.ListenCmd(), a.screen.Init()}

	if source := a.opts.InitialVideo; source != "" {
		cmds = append(cmds, func() tea.Msg { return shared.PickVideoMsg{Source: source} })
	}

	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case tea.KeyMsg:
		if a.quitKey(msg) {
			return a, tea.Quit
		}
	case shared.StateChangedMsg:
		return a.handleStateChanged(msg.State)
	case shared.SubscriptionClosedMsg:
		return a, tea.Quit
	case shared.PickVideoMsg:
		a.lastSource = msg.Source
		task := a.ctrl.PickVideo(a.ctx, msg.Source)

		return a, shared.WaitCmd(CommandPickVideo, task)
	case shared.SelectFrameMsg:
		a.ctrl.SelectFrame(msg.Frame)
		return a, nil
	case shared.ClearSelectionMsg:
		a.ctrl.ClearSelection()
		return a, nil
	case shared.ExportFramesMsg:
		task := a.ctrl.ExportFrames(a.ctx, msg.Frames)
		return a, shared.WaitCmd(CommandExportFrames, task)
	case shared.TaskDoneMsg:
		a.logTask(msg)
		return a, nil
	}

	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)

	return a, cmd
}

// View implements tea.Model
func (a AppModel) View() string {
	return shared.RenderTimeline(shared.PhaseFor(a.state)) + "\n" + a.screen.View()
}

func (a AppModel) quitKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case shared.KeyCtrlC:
		return true
	case shared.KeyQuit:
		if t, ok := a.screen.(typer); ok && t.Typing() {
			return false
		}

		return true
	}

	return false
}

func (a AppModel) handleStateChanged(state exporter.State) (tea.Model, tea.Cmd) {
	prev := a.state
	a.state = state

	a.logger.Debug("state changed",
		zap.String("from", prev.Name()),
		zap.String("to", state.Name()))

	listen := a.bridge.ListenCmd()

	if next, ok := a.reuseScreen(prev, state); ok {
		a.screen = next
		return a, listen
	}

	a.screen = a.newScreen(state)
	cmd := a.screen.Init()

	if a.width > 0 || a.height > 0 {
		a.screen, _ = a.screen.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}

	return a, tea.Batch(listen, cmd)
}

// reuseScreen updates the current screen in place when the state only refines it,
// so typed input, the grid cursor and the progress spinner survive.
func (a AppModel) reuseScreen(prev, state exporter.State) (tea.Model, bool) {
	switch s := state.(type) {
	case exporter.Start:
		_, isStart := a.screen.(screens.StartScreen)
		if _, wasStart := prev.(exporter.Start); isStart && wasStart {
			return a.screen, true
		}
	case exporter.ExtractionSuccess:
		grid, ok := a.screen.(screens.GridScreen)
		if _, wasGrid := prev.(exporter.ExtractionSuccess); ok && wasGrid {
			return grid.WithState(s), true
		}
	case exporter.Exporting:
		progress, ok := a.screen.(screens.ProgressScreen)
		if ok && progress.Kind() == screens.ProgressExporting {
			return progress.WithProgress(s.Done, s.Total), true
		}
	}

	return nil, false
}

func (a AppModel) newScreen(state exporter.State) tea.Model {
	switch s := state.(type) {
	case exporter.Start:
		return screens.NewStartScreen(a.lastSource, a.opts.Downloads)
	case exporter.Extracting:
		return screens.NewProgressScreen(screens.ProgressExtracting, s.Source)
	case exporter.ExtractionSuccess:
		return screens.NewGridScreen(s, a.opts.Columns)
	case exporter.Exporting:
		return screens.NewProgressScreen(screens.ProgressExporting, "").WithProgress(s.Done, s.Total)
	case exporter.ExportSuccess:
		return screens.NewExportSuccessScreen(s, a.opts.Downloads)
	case exporter.Error:
		return screens.NewErrorScreen(s)
	}

	return screens.NewStartScreen(a.lastSource, a.opts.Downloads)
}

func (a AppModel) logTask(msg shared.TaskDoneMsg) {
	switch {
	case msg.Err == nil:
		a.logger.Debug("command finished", zap.String("command", msg.Command))
	case errors.Is(msg.Err, exporter.ErrBusy):
		a.logger.Info("command rejected while busy", zap.String("command", msg.Command))
	case errors.Is(msg.Err, exporter.ErrSuperseded):
		a.logger.Debug("command superseded", zap.String("command", msg.Command))
	default:
		a.logger.Warn("command failed", zap.String("command", msg.Command), zap.Error(msg.Err))
	}
}
