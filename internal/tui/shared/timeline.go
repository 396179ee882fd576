package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joe/frame-exporter/internal/exporter"
)

// Timeline phase keys, in order.
const (
	PhasePick    = "pick"
	PhaseExtract = "extract"
	PhaseSelect  = "select"
	PhaseExport  = "export"
	PhaseDone    = "done"

	// errorSuffix marks the phase an error happened in (e.g. "extract_error")
	errorSuffix = "_error"
)

// PhaseFor maps a controller state onto its timeline phase.
func PhaseFor(state exporter.State) string {
	switch s := state.(type) {
	case exporter.Start:
		return PhasePick
	case exporter.Extracting:
		return PhaseExtract
	case exporter.ExtractionSuccess:
		return PhaseSelect
	case exporter.Exporting:
		return PhaseExport
	case exporter.ExportSuccess:
		return PhaseDone
	case exporter.Error:
		if s.Message == exporter.MsgExportFailed {
			return PhaseExport + errorSuffix
		}

		return PhaseExtract + errorSuffix
	default:
		return PhasePick
	}
}

// RenderTimeline renders the phase progression timeline for the header.
// Shows 5 phases: Pick, Extract, Select, Export, Done
// Phases before current show ✓ (completed)
// Current phase shows ◉ (active)
// Phases after current show ○ (pending)
// Error phases (e.g., "extract_error") show ✗ at error point, ⊘ for skipped phases
func RenderTimeline(currentPhase string) string {
	phase := strings.ToLower(strings.TrimSpace(currentPhase))

	isError := strings.HasSuffix(phase, errorSuffix)
	if isError {
		phase = strings.TrimSuffix(phase, errorSuffix)
	}

	type phaseDefinition struct {
		name string
		key  string
	}

	phases := []phaseDefinition{
		{"Pick", PhasePick},
		{"Extract", PhaseExtract},
		{"Select", PhaseSelect},
		{"Export", PhaseExport},
		{"Done", PhaseDone},
	}

	currentIdx := 0

	for i, phaseInfo := range phases {
		if phaseInfo.key == phase {
			currentIdx = i
			break
		}
	}

	parts := make([]string, 0, len(phases))

	for phaseIdx, phaseInfo := range phases {
		var symbol string

		var style lipgloss.Style

		switch {
		case isError && phaseIdx == currentIdx:
			symbol = ErrorSymbol()
			style = lipgloss.NewStyle().Foreground(ErrorColor())
		case isError && phaseIdx > currentIdx:
			symbol = CancelledSymbol()
			style = DimStyle()
		case phaseIdx < currentIdx:
			symbol = SuccessSymbol()
			style = lipgloss.NewStyle().Foreground(SuccessColor())
		case phaseIdx == currentIdx && currentIdx == len(phases)-1:
			// "done" shows as complete, not active
			symbol = SuccessSymbol()
			style = lipgloss.NewStyle().Foreground(SuccessColor())
		case phaseIdx == currentIdx:
			symbol = ActiveSymbol()
			style = lipgloss.NewStyle().Foreground(PrimaryColor())
		default:
			symbol = PendingSymbol()
			style = DimStyle()
		}

		parts = append(parts, style.Render(symbol+" "+phaseInfo.name))
	}

	return strings.Join(parts, DimStyle().Render(" ── "))
}
