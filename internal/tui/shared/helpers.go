package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// FormatBytes formats bytes into human-readable format (e.g., "1.5 MiB")
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	return humanize.IBytes(uint64(bytes))
}

// FormatCount formats a count with thousands separators (e.g., "1,024")
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Plural returns word with an "s" unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}

// TruncateMiddle shortens text to width cells, keeping both ends.
func TruncateMiddle(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	if width <= EllipsisLength {
		return strings.Repeat(".", width)
	}

	runes := []rune(text)
	keep := width - EllipsisLength
	head := keep / HalfDivisor
	tail := keep - head

	return string(runes[:head]) + "..." + string(runes[len(runes)-tail:])
}
