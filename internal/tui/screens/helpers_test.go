//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package screens_test

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/frame-exporter/internal/exporter"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// run executes cmd and returns its message, or nil for a nil cmd.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}

	return cmd()
}

func sampleFrames(n int) []exporter.Frame {
	frames := make([]exporter.Frame, 0, n)
	for i := 1; i <= n; i++ {
		frames = append(frames, exporter.Frame(fmt.Sprintf("/scratch/clip_frame_%04d.png", i)))
	}

	return frames
}
