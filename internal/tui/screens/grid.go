package screens

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/internal/tui/shared"
	"github.com/joe/frame-exporter/internal/tui/widgets"
)

// Grid layout constants.
const (
	DefaultCellWidth = 24
	MinCellWidth     = 12
	// gridChromeLines is the height taken by title, counts, filter and help
	gridChromeLines = 14
	minGridRows     = 3
)

type gridKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Toggle         key.Binding
	Preview        key.Binding
	Filter         key.Binding
	Clear          key.Binding
	ExportAll      key.Binding
	ExportSelected key.Binding
	Quit           key.Binding
}

func newGridKeyMap() gridKeyMap {
	return gridKeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:           key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "select")),
		Preview:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Filter:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:          key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "start over")),
		ExportAll:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "export all")),
		ExportSelected: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export selected")),
		Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k gridKeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Preview, k.Filter, k.ExportSelected, k.ExportAll, k.Clear, k.Quit}
}

// previewLoadedMsg carries a rendered preview back to the grid.
type previewLoadedMsg struct {
	frame exporter.Frame
	view  string
	err   error
}

// GridScreen shows extracted frames and lets the user pick some.
// Cursor, filter and preview are screen-local; selection lives in the controller state.
type GridScreen struct {
	state   exporter.ExtractionSuccess
	frames  []exporter.Frame
	visible []int
	columns int
	cursor  int
	offset  int
	width   int
	height  int

	filtering   bool
	filterInput textinput.Model
	filter      string
	filterErr   string

	previewOpen  bool
	previewFrame exporter.Frame
	preview      string
	previewErr   string

	keys gridKeyMap
	help help.Model
}

// NewGridScreen creates a grid for state with the given column count.
func NewGridScreen(state exporter.ExtractionSuccess, columns int) GridScreen {
	filterInput := textinput.New()
	filterInput.Placeholder = "*_frame_00[0-4]*.png"
	filterInput.Prompt = "/ "

	s := GridScreen{
		state:       state,
		frames:      state.Frames(),
		columns:     max(columns, 1),
		filterInput: filterInput,
		keys:        newGridKeyMap(),
		help:        help.New(),
	}
	s.visible = allIndices(len(s.frames))

	return s
}

// WithState returns a copy showing state's selection. The frames are unchanged.
func (s GridScreen) WithState(state exporter.ExtractionSuccess) GridScreen {
	s.state = state
	return s
}

// Typing reports whether the screen consumes every key, which is the case
// while the filter input has focus or the preview is open.
func (s GridScreen) Typing() bool {
	return s.filtering || s.previewOpen
}

// Cursor returns the frame under the cursor, or "" when nothing is visible.
func (s GridScreen) Cursor() exporter.Frame {
	if len(s.visible) == 0 {
		return ""
	}

	return s.frames[s.visible[s.cursor]]
}

// VisibleFrames returns the frames that pass the filter, in order.
func (s GridScreen) VisibleFrames() []exporter.Frame {
	out := make([]exporter.Frame, 0, len(s.visible))
	for _, idx := range s.visible {
		out = append(out, s.frames[idx])
	}

	return out
}

// PreviewOpen reports whether the preview overlay is showing.
func (s GridScreen) PreviewOpen() bool {
	return s.previewOpen
}

// Init implements tea.Model
func (s GridScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s GridScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width
		s = s.scrollToCursor()

		return s, nil
	case previewLoadedMsg:
		if s.previewOpen && msg.frame == s.previewFrame {
			s.preview = msg.view
			s.previewErr = ""

			if msg.err != nil {
				s.previewErr = msg.err.Error()
			}
		}

		return s, nil
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}

	if s.filtering {
		var cmd tea.Cmd
		s.filterInput, cmd = s.filterInput.Update(msg)

		return s, cmd
	}

	return s, nil
}

func (s GridScreen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if s.previewOpen {
		s.previewOpen = false
		s.preview = ""
		s.previewErr = ""

		return s, nil
	}

	if s.filtering {
		return s.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, s.keys.Up):
		s = s.moveCursor(-s.columns)
	case key.Matches(msg, s.keys.Down):
		s = s.moveCursor(s.columns)
	case key.Matches(msg, s.keys.Left):
		s = s.moveCursor(-1)
	case key.Matches(msg, s.keys.Right):
		s = s.moveCursor(1)
	case key.Matches(msg, s.keys.Toggle):
		frame := s.Cursor()
		if frame == "" {
			return s, nil
		}

		return s, func() tea.Msg { return shared.SelectFrameMsg{Frame: frame} }
	case key.Matches(msg, s.keys.Preview):
		return s.openPreview()
	case key.Matches(msg, s.keys.Filter):
		s.filtering = true
		s.filterErr = ""
		s.filterInput.SetValue(s.filter)
		s.filterInput.CursorEnd()

		return s, s.filterInput.Focus()
	case key.Matches(msg, s.keys.Clear):
		return s, func() tea.Msg { return shared.ClearSelectionMsg{} }
	case key.Matches(msg, s.keys.ExportAll):
		frames := s.state.Frames()
		return s, func() tea.Msg { return shared.ExportFramesMsg{Frames: frames} }
	case key.Matches(msg, s.keys.ExportSelected):
		if s.state.SelectedCount() == 0 {
			return s, nil
		}

		frames := s.state.Selected()

		return s, func() tea.Msg { return shared.ExportFramesMsg{Frames: frames} }
	}

	return s, nil
}

func (s GridScreen) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return s.applyFilter(s.filterInput.Value()), nil
	case tea.KeyEsc:
		s.filterInput.Blur()
		s.filtering = false
		s.filterErr = ""

		return s, nil
	}

	var cmd tea.Cmd
	s.filterInput, cmd = s.filterInput.Update(msg)

	return s, cmd
}

// applyFilter narrows the visible cells to names matching pattern. A pattern without glob
// syntax matches as a substring. An empty pattern shows every frame.
func (s GridScreen) applyFilter(pattern string) GridScreen {
	pattern = strings.TrimSpace(pattern)

	if pattern == "" {
		s.filter = ""
		s.visible = allIndices(len(s.frames))
		s = s.closeFilter()

		return s
	}

	glob := pattern
	if !strings.ContainsAny(glob, "*?[{") {
		glob = "*" + glob + "*"
	}

	if !doublestar.ValidatePattern(glob) {
		s.filterErr = "invalid pattern: " + pattern
		return s
	}

	visible := make([]int, 0, len(s.frames))

	for i, frame := range s.frames {
		if ok, _ := doublestar.Match(glob, frame.Name()); ok {
			visible = append(visible, i)
		}
	}

	s.filter = pattern
	s.visible = visible
	s = s.closeFilter()

	return s
}

func (s GridScreen) closeFilter() GridScreen {
	s.filterInput.Blur()
	s.filtering = false
	s.filterErr = ""
	s.cursor = 0
	s.offset = 0

	return s
}

func (s GridScreen) openPreview() (tea.Model, tea.Cmd) {
	frame := s.Cursor()
	if frame == "" {
		return s, nil
	}

	s.previewOpen = true
	s.previewFrame = frame
	s.preview = ""
	s.previewErr = ""

	width, height := s.previewSize()
	colors := !shared.ColorsDisabled()

	return s, func() tea.Msg {
		view, err := widgets.LoadPreview(frame.Path(), width, height, colors)
		return previewLoadedMsg{frame: frame, view: view, err: err}
	}
}

func (s GridScreen) previewSize() (int, int) {
	width, height := DefaultCellWidth*shared.HalfDivisor, DefaultCellWidth/shared.HalfDivisor

	if s.width > 0 {
		width = max(s.width-shared.BoxOverhead, widgets.MinPreviewSize)
	}

	if s.height > 0 {
		height = max(s.height-gridChromeLines, widgets.MinPreviewSize)
	}

	return width, height
}

func (s GridScreen) moveCursor(delta int) GridScreen {
	next := s.cursor + delta
	if next < 0 || next >= len(s.visible) {
		return s
	}

	s.cursor = next

	return s.scrollToCursor()
}

func (s GridScreen) visibleRows() int {
	if s.height <= 0 {
		return max(len(s.visible)/s.columns+1, minGridRows)
	}

	return max(s.height-gridChromeLines, minGridRows)
}

func (s GridScreen) scrollToCursor() GridScreen {
	row := s.cursor / s.columns
	rows := s.visibleRows()

	if row < s.offset {
		s.offset = row
	}

	if row >= s.offset+rows {
		s.offset = row - rows + 1
	}

	return s
}

func (s GridScreen) cellWidth() int {
	if s.width <= 0 {
		return DefaultCellWidth
	}

	return max((s.width-shared.BoxOverhead)/s.columns, MinCellWidth)
}

// View implements tea.Model
func (s GridScreen) View() string {
	if s.previewOpen {
		return s.renderPreview()
	}

	counts := fmt.Sprintf("%s %s • %s selected",
		shared.FormatCount(len(s.frames)), shared.Plural(len(s.frames), "frame"),
		shared.FormatCount(s.state.SelectedCount()))

	if s.filter != "" {
		counts += fmt.Sprintf(" • filter %q shows %d", s.filter, len(s.visible))
	}

	content := shared.RenderTitle("Select frames") + "\n" +
		shared.RenderSubtitle(counts) + "\n" +
		s.renderGrid() + "\n"

	if s.filtering {
		content += "\n" + s.filterInput.View() + "\n"
	}

	if s.filterErr != "" {
		content += shared.RenderError(s.filterErr) + "\n"
	}

	keys := s.keys
	keys.ExportSelected.SetEnabled(s.state.SelectedCount() > 0)
	content += "\n" + s.help.ShortHelpView(keys.shortHelp())

	return shared.RenderBox(content)
}

func (s GridScreen) renderGrid() string {
	if len(s.frames) == 0 {
		return shared.RenderDim("No frames were extracted")
	}

	if len(s.visible) == 0 {
		return shared.RenderDim("No frames match the filter")
	}

	width := s.cellWidth()
	rows := s.visibleRows()
	totalRows := (len(s.visible) + s.columns - 1) / s.columns

	lines := make([]string, 0, rows+2)

	if s.offset > 0 {
		lines = append(lines, shared.RenderDim(fmt.Sprintf("  ↑ %d more rows", s.offset)))
	}

	for row := s.offset; row < min(s.offset+rows, totalRows); row++ {
		cells := make([]string, 0, s.columns)

		for col := 0; col < s.columns; col++ {
			pos := row*s.columns + col
			if pos >= len(s.visible) {
				break
			}

			cells = append(cells, s.renderCell(pos, width))
		}

		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if remaining := totalRows - (s.offset + rows); remaining > 0 {
		lines = append(lines, shared.RenderDim(fmt.Sprintf("  ↓ %d more rows", remaining)))
	}

	return strings.Join(lines, "\n")
}

func (s GridScreen) renderCell(pos, width int) string {
	frame := s.frames[s.visible[pos]]

	symbol := shared.UncheckedSymbol()
	style := shared.CellStyle()

	if s.state.IsSelected(frame) {
		symbol = shared.CheckSymbol()
		style = shared.SelectedCellStyle()
	}

	if pos == s.cursor {
		style = shared.CursorCellStyle()
	}

	const symbolGap = 4 // symbol, two spaces of padding and a separator

	label := symbol + " " + shared.TruncateMiddle(frame.Name(), width-symbolGap)

	return style.Width(width - 1).Render(label) + " "
}

func (s GridScreen) renderPreview() string {
	content := shared.RenderTitle(s.previewFrame.Name()) + "\n"

	switch {
	case s.previewErr != "":
		content += shared.RenderError("Preview unavailable: "+s.previewErr) + "\n"
	case s.preview == "":
		content += shared.RenderDim("Loading preview...") + "\n"
	default:
		content += s.preview + "\n"
	}

	content += "\n" + shared.RenderSubtitle("Press any key to close")

	return shared.RenderBox(content)
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
