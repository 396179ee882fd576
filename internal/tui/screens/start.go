package screens

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/frame-exporter/internal/tui/shared"
)

// StartScreen asks for a video to extract frames from.
type StartScreen struct {
	input           textinput.Model
	completions     []string
	completionIndex int
	showCompletions bool
	validationError string
	downloads       string
}

// NewStartScreen creates the start screen. initial pre-fills the input.
func NewStartScreen(initial, downloads string) StartScreen {
	input := textinput.New()
	input.Placeholder = "/path/to/video.mp4 or sftp://user@host/path/video.mp4"
	input.Prompt = shared.PromptArrow()
	input.SetValue(initial)
	input.CursorEnd()
	input.Focus()

	return StartScreen{
		input:     input,
		downloads: downloads,
	}
}

// Init implements tea.Model
func (s StartScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Typing reports that keys go to the text input.
func (s StartScreen) Typing() bool {
	return true
}

// Value returns the current input.
func (s StartScreen) Value() string {
	return s.input.Value()
}

// Update implements tea.Model
func (s StartScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.input.Width = max(msg.Width-shared.BoxOverhead*2, shared.MinContentWidth)
		return s, nil
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	return s, cmd
}

// View implements tea.Model
func (s StartScreen) View() string {
	content := shared.RenderTitle("Frame Exporter") + "\n\n" +
		shared.RenderSubtitle("Pick a video to split into frames") + "\n\n" +
		shared.RenderLabel("Video:") + "\n" +
		s.input.View() + "\n"

	if s.showCompletions && len(s.completions) > 0 {
		content += formatCompletionList(s.completions, s.completionIndex) + "\n"
	}

	if s.validationError != "" {
		content += "\n" + shared.RenderError("Error: "+s.validationError) + "\n"
	}

	if s.downloads != "" {
		content += "\n" + shared.RenderDim("Frames are exported to "+s.downloads) + "\n"
	}

	content += "\n" +
		shared.RenderSubtitle("Tab/Shift+Tab to complete • → to accept & continue • Enter to extract • Esc to clear • Ctrl+C to exit") //nolint:lll // Help text with keyboard shortcuts

	return shared.RenderBox(content)
}

func (s StartScreen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		s.input.SetValue("")
		s.showCompletions = false
		s.validationError = ""

		return s, nil
	case tea.KeyTab:
		return s.handleTabCompletion(), nil
	case tea.KeyShiftTab:
		return s.handleShiftTabCompletion(), nil
	case tea.KeyRight:
		if s.showCompletions {
			return s.handleRightArrow(), nil
		}
	case tea.KeyEnter:
		return s.handleEnter()
	default:
		s.showCompletions = false
		s.validationError = ""
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	return s, cmd
}

func (s StartScreen) handleEnter() (tea.Model, tea.Cmd) {
	s.showCompletions = false

	value := s.input.Value()
	if value == "" {
		s.validationError = "enter a video path"
		return s, nil
	}

	return s, func() tea.Msg {
		return shared.PickVideoMsg{Source: value}
	}
}

func (s StartScreen) applyCompletion(completion string) StartScreen {
	s.input.SetValue(completion)
	s.input.CursorEnd()

	return s
}

func (s StartScreen) handleTabCompletion() StartScreen {
	if !s.showCompletions {
		s.completions = getPathCompletions(s.input.Value())
		s.completionIndex = 0
		s.showCompletions = true

		// A single match completes immediately
		if len(s.completions) == 1 {
			s = s.applyCompletion(s.completions[0])
			s.showCompletions = false
		}
	} else if len(s.completions) > 0 {
		s.completionIndex = (s.completionIndex + 1) % len(s.completions)
		s = s.applyCompletion(s.completions[s.completionIndex])
	}

	return s
}

func (s StartScreen) handleShiftTabCompletion() StartScreen {
	if s.showCompletions && len(s.completions) > 0 {
		s.completionIndex--
		if s.completionIndex < 0 {
			s.completionIndex = len(s.completions) - 1
		}

		s = s.applyCompletion(s.completions[s.completionIndex])
	}

	return s
}

// handleRightArrow accepts the highlighted completion and lists the next segment.
func (s StartScreen) handleRightArrow() StartScreen {
	s.showCompletions = false

	if len(s.completions) == 0 {
		return s
	}

	current := s.completions[s.completionIndex]
	s = s.applyCompletion(current)

	s.completions = getPathCompletions(current)
	if len(s.completions) > 0 {
		s.completionIndex = 0
		s.showCompletions = true
		s = s.applyCompletion(s.completions[0])
	}

	return s
}
