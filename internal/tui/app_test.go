//nolint:varnamelen // Test files use idiomatic short variable names (ok, etc.)
package tui_test

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // Dot import is idiomatic for Ginkgo
	. "github.com/onsi/gomega"    //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/tui"
	"github.com/joe/frame-exporter/internal/tui/screens"
	"github.com/joe/frame-exporter/internal/tui/shared"
)

func update(app tui.AppModel, msg tea.Msg) (tui.AppModel, tea.Cmd) {
	model, cmd := app.Update(msg)

	next, ok := model.(tui.AppModel)
	Expect(ok).To(BeTrue(), "Expected Update to return AppModel")

	return next, cmd
}

// drain runs cmd and every command it batches, collecting the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, drain(c)...)
	}

	return msgs
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var _ = Describe("AppModel", func() {
	var (
		ctrl *exporter.Controller
		app  tui.AppModel
	)

	BeforeEach(func() {
		ctrl = newController(3)
		app = tui.NewAppModel(context.Background(), ctrl, tui.Options{
			Columns:   2,
			Downloads: "/home/joe/Downloads",
		})
	})

	AfterEach(func() {
		app.Close()
		ctrl.Close()
	})

	Describe("Initial screen", func() {
		It("shows the start screen for the Start state", func() {
			_, ok := app.CurrentScreen().(screens.StartScreen)
			Expect(ok).To(BeTrue(), "Expected StartScreen")
			Expect(app.View()).To(ContainSubstring("/home/joe/Downloads"))
		})

		It("picks the initial video on Init", func() {
			starter := tui.NewAppModel(context.Background(), ctrl, tui.Options{InitialVideo: "/videos/clip.mp4"})
			defer starter.Close()

			start := starter.CurrentScreen().(screens.StartScreen)
			Expect(start.Value()).To(Equal("/videos/clip.mp4"))

			msgs := drain(starter.Init())
			Expect(msgs).To(ContainElement(shared.PickVideoMsg{Source: "/videos/clip.mp4"}))
			Expect(msgs).To(ContainElement(shared.StateChangedMsg{State: exporter.Start{}}))
		})
	})

	Describe("State changes", func() {
		It("shows extraction progress", func() {
			app, _ = update(app, shared.StateChangedMsg{State: exporter.Extracting{Source: "clip.mp4"}})

			progress, ok := app.CurrentScreen().(screens.ProgressScreen)
			Expect(ok).To(BeTrue(), "Expected ProgressScreen")
			Expect(progress.Kind()).To(Equal(screens.ProgressExtracting))
			Expect(app.View()).To(ContainSubstring("clip.mp4"))
		})

		It("keeps the grid cursor when the selection changes", func() {
			state := exporter.NewExtractionSuccess([]exporter.Frame{frameAt(1), frameAt(2), frameAt(3)})

			app, _ = update(app, shared.StateChangedMsg{State: state})
			app, _ = update(app, tea.KeyMsg{Type: tea.KeyRight})

			app, _ = update(app, shared.StateChangedMsg{State: state.Toggle(frameAt(1))})

			grid, ok := app.CurrentScreen().(screens.GridScreen)
			Expect(ok).To(BeTrue(), "Expected GridScreen")
			Expect(grid.Cursor()).To(Equal(frameAt(2)))
			Expect(grid.View()).To(ContainSubstring("1 selected"))
		})

		It("updates export progress in place", func() {
			app, _ = update(app, shared.StateChangedMsg{State: exporter.Exporting{Done: 0, Total: 4}})
			app, _ = update(app, shared.StateChangedMsg{State: exporter.Exporting{Done: 3, Total: 4}})

			progress, ok := app.CurrentScreen().(screens.ProgressScreen)
			Expect(ok).To(BeTrue(), "Expected ProgressScreen")
			Expect(progress.Kind()).To(Equal(screens.ProgressExporting))
			Expect(progress.View()).To(ContainSubstring("3 of 4 frames"))
		})

		It("shows the export outcome", func() {
			app, _ = update(app, shared.StateChangedMsg{State: exporter.ExportSuccess{Message: exporter.MsgExportComplete}})

			msg, ok := app.CurrentScreen().(screens.MessageScreen)
			Expect(ok).To(BeTrue(), "Expected MessageScreen")
			Expect(msg.Message()).To(Equal(exporter.MsgExportComplete))
		})

		It("shows errors", func() {
			state := exporter.Error{Message: exporter.MsgExtractFailed, Cause: errors.New("bad video")}
			app, _ = update(app, shared.StateChangedMsg{State: state})

			msg, ok := app.CurrentScreen().(screens.MessageScreen)
			Expect(ok).To(BeTrue(), "Expected MessageScreen")
			Expect(msg.Message()).To(Equal(exporter.MsgExtractFailed))
			Expect(app.State()).To(Equal(state))
		})

		It("keeps listening after each state", func() {
			_, cmd := update(app, shared.StateChangedMsg{State: exporter.Extracting{Source: "clip"}})
			Expect(cmd).NotTo(BeNil())
		})

		It("keeps typed input across repeated Start states", func() {
			app, _ = update(app, keyRunes("abc"))
			app, _ = update(app, shared.StateChangedMsg{State: exporter.Start{}})

			start := app.CurrentScreen().(screens.StartScreen)
			Expect(start.Value()).To(Equal("abc"))
		})
	})

	Describe("Quitting", func() {
		It("quits on ctrl+c from any screen", func() {
			_, cmd := update(app, tea.KeyMsg{Type: tea.KeyCtrlC})
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(Equal(tea.QuitMsg{}))
		})

		It("types q into the start screen", func() {
			app, cmd := update(app, keyRunes("q"))
			if cmd != nil {
				// Cursor blink commands are fine; a quit is not
				_, isQuit := cmd().(tea.QuitMsg)
				Expect(isQuit).To(BeFalse())
			}

			Expect(app.CurrentScreen().(screens.StartScreen).Value()).To(Equal("q"))
		})

		It("quits on q from the grid", func() {
			state := exporter.NewExtractionSuccess([]exporter.Frame{frameAt(1)})
			app, _ = update(app, shared.StateChangedMsg{State: state})

			_, cmd := update(app, keyRunes("q"))
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(Equal(tea.QuitMsg{}))
		})

		It("closes the preview on q instead of quitting", func() {
			state := exporter.NewExtractionSuccess([]exporter.Frame{frameAt(1)})
			app, _ = update(app, shared.StateChangedMsg{State: state})

			app, _ = update(app, keyRunes("p"))
			Expect(app.CurrentScreen().(screens.GridScreen).PreviewOpen()).To(BeTrue())

			app, cmd := update(app, keyRunes("q"))
			if cmd != nil {
				_, isQuit := cmd().(tea.QuitMsg)
				Expect(isQuit).To(BeFalse())
			}

			Expect(app.CurrentScreen().(screens.GridScreen).PreviewOpen()).To(BeFalse())
		})

		It("quits when the subscription closes", func() {
			_, cmd := update(app, shared.SubscriptionClosedMsg{})
			Expect(cmd()).To(Equal(tea.QuitMsg{}))
		})
	})

	Describe("Commands", func() {
		pick := func() {
			var cmd tea.Cmd
			app, cmd = update(app, shared.PickVideoMsg{Source: "/videos/clip.mp4"})
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(Equal(shared.TaskDoneMsg{Command: tui.CommandPickVideo}))
		}

		It("extracts frames on PickVideoMsg", func() {
			pick()

			state, ok := ctrl.State().(exporter.ExtractionSuccess)
			Expect(ok).To(BeTrue(), "Expected ExtractionSuccess")
			Expect(state.Frames()).To(Equal([]exporter.Frame{frameAt(1), frameAt(2), frameAt(3)}))
		})

		It("toggles selection on SelectFrameMsg", func() {
			pick()

			app, _ = update(app, shared.SelectFrameMsg{Frame: frameAt(2)})

			state := ctrl.State().(exporter.ExtractionSuccess)
			Expect(state.Selected()).To(Equal([]exporter.Frame{frameAt(2)}))
		})

		It("exports frames on ExportFramesMsg", func() {
			pick()

			var cmd tea.Cmd
			app, cmd = update(app, shared.ExportFramesMsg{Frames: []exporter.Frame{frameAt(1), frameAt(3)}})
			Expect(cmd()).To(Equal(shared.TaskDoneMsg{Command: tui.CommandExportFrames}))

			state, ok := ctrl.State().(exporter.ExportSuccess)
			Expect(ok).To(BeTrue(), "Expected ExportSuccess")
			Expect(state.Exported).To(HaveLen(2))
		})

		It("returns to Start on ClearSelectionMsg", func() {
			pick()

			app, _ = update(app, shared.ClearSelectionMsg{})
			Expect(ctrl.State()).To(Equal(exporter.Start{}))
		})

		It("reports rejected commands without changing screens", func() {
			ctrl.Close()

			var cmd tea.Cmd
			app, cmd = update(app, shared.ExportFramesMsg{Frames: []exporter.Frame{frameAt(1)}})

			msg, ok := cmd().(shared.TaskDoneMsg)
			Expect(ok).To(BeTrue(), "Expected TaskDoneMsg")
			Expect(msg.Err).To(MatchError(exporter.ErrClosed))

			app, _ = update(app, msg)
			_, isStart := app.CurrentScreen().(screens.StartScreen)
			Expect(isStart).To(BeTrue())
		})

		It("prefills the start screen with the last video after clearing", func() {
			pick()

			app, _ = update(app, shared.StateChangedMsg{State: exporter.Extracting{Source: "clip"}})
			app, _ = update(app, shared.StateChangedMsg{State: exporter.Start{}})

			start := app.CurrentScreen().(screens.StartScreen)
			Expect(start.Value()).To(Equal("/videos/clip.mp4"))
		})
	})
})
