package shared

import (
	"github.com/joe/frame-exporter/internal/exporter"
)

// ============================================================================
// Intent Messages
// Screens send these; AppModel turns them into controller commands
// ============================================================================

// PickVideoMsg asks for frames to be extracted from Source
type PickVideoMsg struct {
	Source string
}

// SelectFrameMsg toggles one frame's selection
type SelectFrameMsg struct {
	Frame exporter.Frame
}

// ClearSelectionMsg returns to the start screen
type ClearSelectionMsg struct{}

// ExportFramesMsg publishes Frames to the downloads area
type ExportFramesMsg struct {
	Frames []exporter.Frame
}

// ============================================================================
// Controller Messages
// ============================================================================

// StateChangedMsg carries a state emitted by the controller
type StateChangedMsg struct {
	State exporter.State
}

// SubscriptionClosedMsg is sent once the controller stops emitting
type SubscriptionClosedMsg struct{}

// TaskDoneMsg reports the outcome of an asynchronous command
type TaskDoneMsg struct {
	Command string
	Err     error
}
