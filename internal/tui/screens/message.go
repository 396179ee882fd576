package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/tui/shared"
)

// MessageScreen shows the outcome of an export, or an error, until dismissed.
type MessageScreen struct {
	title       string
	message     string
	isError     bool
	exported    []exporter.Receipt
	failed      []exporter.PublishFailure
	bytes       int64
	destination string
	cause       error
	width       int
}

// NewExportSuccessScreen shows a finished export. destination names the downloads area.
func NewExportSuccessScreen(state exporter.ExportSuccess, destination string) MessageScreen {
	title := "Export complete"
	if len(state.Failed) > 0 {
		title = "Export finished with errors"
	}

	return MessageScreen{
		title:       title,
		message:     state.Message,
		exported:    state.Exported,
		failed:      state.Failed,
		bytes:       state.Bytes,
		destination: destination,
	}
}

// NewErrorScreen shows an extraction or export failure.
func NewErrorScreen(state exporter.Error) MessageScreen {
	return MessageScreen{
		title:   "Something went wrong",
		message: state.Message,
		isError: true,
		cause:   state.Cause,
	}
}

// Message returns the headline shown to the user.
func (s MessageScreen) Message() string {
	return s.message
}

// Init implements tea.Model
func (s MessageScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s MessageScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			return s, func() tea.Msg { return shared.ClearSelectionMsg{} }
		}
	}

	return s, nil
}

// View implements tea.Model
func (s MessageScreen) View() string {
	maxWidth := 0
	if s.width > 0 {
		maxWidth = max(s.width-shared.BoxOverhead*2, shared.MinContentWidth)
	}

	var content string

	if s.isError {
		content = shared.RenderError(shared.ErrorSymbol()+" "+s.title) + "\n\n" +
			shared.RenderLabel(s.message) + "\n"

		if s.cause != nil {
			content += "\n" + shared.RenderCause(s.cause, "", maxWidth)
		}
	} else {
		content = shared.RenderSuccess(shared.SuccessSymbol()+" "+s.title) + "\n\n" +
			shared.RenderLabel(s.message) + "\n"

		if len(s.exported) > 0 {
			content += "\n" + fmt.Sprintf("%s %s, %s",
				shared.FormatCount(len(s.exported)), shared.Plural(len(s.exported), "frame"),
				shared.FormatBytes(s.bytes))

			if s.destination != "" {
				content += " saved to " + s.destination
			}

			content += "\n"
		}

		if len(s.failed) > 0 {
			content += "\n" + shared.RenderWarning("Not exported:") + "\n" +
				shared.RenderFailureList(s.failed, maxWidth)
		}
	}

	content += "\n" + shared.RenderSubtitle("Enter or Esc to start over • q to quit")

	return shared.RenderBox(content)
}
