// Package exporter holds the frame exporter state machine and the controller that drives it.
package exporter

import (
	"path/filepath"
)

// State is the interface implemented by every controller state. Exactly one is current.
type State interface {
	// Name is a stable identifier for logs and tests.
	Name() string
	isState()
}

// Frame is the absolute path of one extracted image.
type Frame string

// Name returns the frame's file name.
func (f Frame) Name() string {
	return filepath.Base(string(f))
}

// Path returns the frame's path.
func (f Frame) Path() string {
	return string(f)
}

// Start is the initial state: nothing picked yet.
type Start struct{}

func (Start) isState() {}

// Name returns "start".
func (Start) Name() string { return "start" }

// Extracting is current while a video is being resolved and split into frames.
type Extracting struct {
	Source string
}

func (Extracting) isState() {}

// Name returns "extracting".
func (Extracting) Name() string { return "extracting" }

// ExtractionSuccess holds the extracted frames and the user's selection.
// Values are immutable; Toggle returns a new value.
type ExtractionSuccess struct {
	frames   []Frame
	selected map[Frame]struct{}
}

func (ExtractionSuccess) isState() {}

// Name returns "extraction_success".
func (ExtractionSuccess) Name() string { return "extraction_success" }

// NewExtractionSuccess builds the state with an empty selection.
func NewExtractionSuccess(frames []Frame) ExtractionSuccess {
	return ExtractionSuccess{
		frames:   append([]Frame(nil), frames...),
		selected: map[Frame]struct{}{},
	}
}

// Frames returns a copy of the frames in order.
func (s ExtractionSuccess) Frames() []Frame {
	return append([]Frame(nil), s.frames...)
}

// Selected returns the selected frames in frame order.
func (s ExtractionSuccess) Selected() []Frame {
	selected := make([]Frame, 0, len(s.selected))

	for _, f := range s.frames {
		if _, ok := s.selected[f]; ok {
			selected = append(selected, f)
		}
	}

	return selected
}

// IsSelected reports whether f is selected.
func (s ExtractionSuccess) IsSelected(f Frame) bool {
	_, ok := s.selected[f]
	return ok
}

// SelectedCount returns how many frames are selected.
func (s ExtractionSuccess) SelectedCount() int {
	return len(s.selected)
}

// Contains reports whether f is one of the extracted frames.
func (s ExtractionSuccess) Contains(f Frame) bool {
	for _, frame := range s.frames {
		if frame == f {
			return true
		}
	}

	return false
}

// Toggle returns a copy with f's selection flipped. Frames that were not extracted are ignored.
func (s ExtractionSuccess) Toggle(f Frame) ExtractionSuccess {
	if !s.Contains(f) {
		return s
	}

	selected := make(map[Frame]struct{}, len(s.selected)+1)
	for k := range s.selected {
		selected[k] = struct{}{}
	}

	if _, ok := selected[f]; ok {
		delete(selected, f)
	} else {
		selected[f] = struct{}{}
	}

	return ExtractionSuccess{frames: s.frames, selected: selected}
}

// Exporting is current while frames are being published.
type Exporting struct {
	Done  int
	Total int
}

func (Exporting) isState() {}

// Name returns "exporting".
func (Exporting) Name() string { return "exporting" }

// ExportSuccess reports a finished export where at least one frame was published
// (or nothing was requested).
type ExportSuccess struct {
	Message  string
	Exported []Receipt
	Failed   []PublishFailure
	Bytes    int64
}

func (ExportSuccess) isState() {}

// Name returns "export_success".
func (ExportSuccess) Name() string { return "export_success" }

// Error reports a failed extraction or export. Cause carries the detail.
type Error struct {
	Message string
	Cause   error
}

func (Error) isState() {}

// Name returns "error".
func (Error) Name() string { return "error" }

// IsBusy reports whether s is a state that rejects new work.
func IsBusy(s State) bool {
	switch s.(type) {
	case Extracting, Exporting:
		return true
	default:
		return false
	}
}
