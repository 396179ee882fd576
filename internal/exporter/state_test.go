//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package exporter_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/frame-exporter/internal/exporter"
)

func TestStateNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    exporter.State
		expected string
	}{
		{exporter.Start{}, "start"},
		{exporter.Extracting{}, "extracting"},
		{exporter.NewExtractionSuccess(nil), "extraction_success"},
		{exporter.Exporting{}, "exporting"},
		{exporter.ExportSuccess{}, "export_success"},
		{exporter.Error{}, "error"},
	}

	for _, tt := range tests {
		if got := tt.state.Name(); got != tt.expected {
			t.Errorf("%T.Name() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestIsBusy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(exporter.IsBusy(exporter.Extracting{})).To(BeTrue())
	g.Expect(exporter.IsBusy(exporter.Exporting{})).To(BeTrue())
	g.Expect(exporter.IsBusy(exporter.Start{})).To(BeFalse())
	g.Expect(exporter.IsBusy(exporter.NewExtractionSuccess(nil))).To(BeFalse())
	g.Expect(exporter.IsBusy(exporter.ExportSuccess{})).To(BeFalse())
	g.Expect(exporter.IsBusy(exporter.Error{})).To(BeFalse())
}

func TestFrameName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := exporter.Frame("/cache/framesTemp/clip_frame_0001.png")
	g.Expect(f.Name()).To(Equal("clip_frame_0001.png"))
	g.Expect(f.Path()).To(Equal("/cache/framesTemp/clip_frame_0001.png"))
}

func TestExtractionSuccess_ToggleIsImmutable(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	frames := []exporter.Frame{"/a.png", "/b.png", "/c.png"}
	empty := exporter.NewExtractionSuccess(frames)

	withB := empty.Toggle("/b.png")
	g.Expect(empty.SelectedCount()).To(Equal(0), "original value must not change")
	g.Expect(withB.IsSelected("/b.png")).To(BeTrue())
	g.Expect(withB.SelectedCount()).To(Equal(1))

	withBA := withB.Toggle("/a.png")
	g.Expect(withBA.Selected()).To(Equal([]exporter.Frame{"/a.png", "/b.png"}), "selected follows frame order")
	g.Expect(withB.SelectedCount()).To(Equal(1))
}

func TestExtractionSuccess_ToggleTwiceRestores(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	s := exporter.NewExtractionSuccess([]exporter.Frame{"/a.png", "/b.png"})

	back := s.Toggle("/a.png").Toggle("/a.png")
	g.Expect(back.SelectedCount()).To(Equal(0))
	g.Expect(back.Frames()).To(Equal(s.Frames()))
}

func TestExtractionSuccess_ToggleUnknownFrameIgnored(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	s := exporter.NewExtractionSuccess([]exporter.Frame{"/a.png"})

	g.Expect(s.Toggle("/elsewhere.png").SelectedCount()).To(Equal(0))
}

func TestExtractionSuccess_FramesReturnsCopy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	input := []exporter.Frame{"/a.png", "/b.png"}
	s := exporter.NewExtractionSuccess(input)

	input[0] = "/changed.png"
	got := s.Frames()
	got[1] = "/also-changed.png"

	g.Expect(s.Frames()).To(Equal([]exporter.Frame{"/a.png", "/b.png"}))
}
