// Package widgets holds reusable TUI pieces that render without a screen of their own.
package widgets

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// Exported constants.
const (
	// HalfBlock draws two vertically stacked pixels per cell (top in fg, bottom in bg)
	HalfBlock = "▀"
	// MinPreviewSize is the smallest preview box in cells
	MinPreviewSize = 4
)

//nolint:gochecknoglobals // read-only luminance ramp
var asciiRamp = []byte(" .:-=+*#%@")

// LoadPreview decodes the image at path and renders it to fit width x height cells.
func LoadPreview(path string, width, height int, colors bool) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return RenderPreview(img, width, height, colors), nil
}

// RenderPreview renders img with half-block cells, or an ASCII ramp when colors is false.
func RenderPreview(img image.Image, width, height int, colors bool) string {
	width = max(width, MinPreviewSize)
	height = max(height, MinPreviewSize)

	if !colors {
		return renderASCII(imaging.Fit(img, width, height, imaging.Box))
	}

	// Each cell shows two pixel rows
	fitted := imaging.Fit(img, width, height*2, imaging.Lanczos) //nolint:mnd // two pixels per cell
	bounds := fitted.Bounds()

	var builder strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := fitted.At(x, y)

			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = fitted.At(x, y+1)
			}

			builder.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render(HalfBlock))
		}

		if y+2 < bounds.Max.Y {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func renderASCII(img image.Image) string {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()

	var builder strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			lum := gray.NRGBAAt(x, y).R
			builder.WriteByte(asciiRamp[int(lum)*(len(asciiRamp)-1)/255])
		}

		if y+1 < bounds.Max.Y {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()

	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)) //nolint:mnd // 16 to 8 bit channels
}
