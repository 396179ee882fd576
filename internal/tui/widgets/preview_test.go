//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package widgets_test

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/frame-exporter/internal/tui/widgets"
)

// twoTone is black on the left half and white on the right.
func twoTone(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			if x >= w/2 {
				v = 255
			}

			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	return img
}

func TestRenderPreview_HalfBlocks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	rendered := widgets.RenderPreview(gradient(40, 20), 20, 5, true)

	lines := strings.Split(rendered, "\n")
	g.Expect(lines).To(HaveLen(5))
	g.Expect(strings.Count(lines[0], widgets.HalfBlock)).To(Equal(20))
}

func TestRenderPreview_ASCII(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	rendered := widgets.RenderPreview(twoTone(10, 10), 10, 5, false)

	lines := strings.Split(rendered, "\n")
	g.Expect(lines).To(HaveLen(5))
	g.Expect(lines[0]).To(HaveLen(5))
	g.Expect(string(lines[0][0])).To(BeElementOf(" ", "."), "black maps to the start of the ramp")
	g.Expect(string(lines[0][len(lines[0])-1])).To(BeElementOf("%", "@"), "white maps to the end of the ramp")
}

func TestLoadPreview(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "frame.png")
	g.Expect(imaging.Save(gradient(8, 8), path)).To(Succeed())

	rendered, err := widgets.LoadPreview(path, 8, 4, true)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(rendered).To(ContainSubstring(widgets.HalfBlock))

	_, err = widgets.LoadPreview(filepath.Join(t.TempDir(), "missing.png"), 8, 4, true)
	g.Expect(err).Should(HaveOccurred())
}
