package screens

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/frame-exporter/internal/tui/shared"
)

// ProgressKind selects the label and whether a bar is shown.
type ProgressKind int

// Progress kinds.
const (
	ProgressExtracting ProgressKind = iota
	ProgressExporting
)

// Label returns the fixed label for the kind.
func (k ProgressKind) Label() string {
	if k == ProgressExporting {
		return "Exporting"
	}

	return "Extracting"
}

// ProgressScreen shows a spinner while the controller works.
type ProgressScreen struct {
	kind    ProgressKind
	detail  string
	done    int
	total   int
	spinner spinner.Model
	bar     progress.Model
}

// NewProgressScreen creates a progress screen. detail is shown under the label.
func NewProgressScreen(kind ProgressKind, detail string) ProgressScreen {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = shared.LabelStyle()

	return ProgressScreen{
		kind:    kind,
		detail:  detail,
		spinner: spin,
		bar:     shared.NewProgressModel(shared.ProgressBarWidth),
	}
}

// Kind returns the screen's progress kind.
func (s ProgressScreen) Kind() ProgressKind {
	return s.kind
}

// WithProgress returns a copy showing done of total.
func (s ProgressScreen) WithProgress(done, total int) ProgressScreen {
	s.done = done
	s.total = total

	return s
}

// Init implements tea.Model
func (s ProgressScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update implements tea.Model
func (s ProgressScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.bar.Width = min(max(msg.Width-shared.BoxOverhead*2, shared.MinContentWidth), shared.MaxProgressBarWidth)
		return s, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)

		return s, cmd
	}

	return s, nil
}

// View implements tea.Model
func (s ProgressScreen) View() string {
	content := s.spinner.View() + " " + shared.RenderTitle(s.kind.Label()) + "\n"

	if s.detail != "" {
		content += shared.RenderDim(s.detail) + "\n"
	}

	if s.kind == ProgressExporting && s.total > 0 {
		percent := float64(s.done) / float64(s.total)
		content += "\n" + shared.RenderProgress(s.bar, percent) + "\n" +
			fmt.Sprintf("%s of %s %s", shared.FormatCount(s.done), shared.FormatCount(s.total), shared.Plural(s.total, "frame")) + "\n"
	}

	content += "\n" + shared.RenderSubtitle("Ctrl+C to exit")

	return shared.RenderBox(content)
}
