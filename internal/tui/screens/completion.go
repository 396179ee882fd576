package screens

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joe/frame-exporter/internal/tui/shared"
)

// maxCompletionsShown is how many completions are listed before windowing.
const maxCompletionsShown = 8

func calculateCompletionWindow(currentIndex, maxShow, totalCount int) (start, end int) {
	start = max(currentIndex-maxShow/shared.HalfDivisor, 0)

	end = start + maxShow
	if end > totalCount {
		end = totalCount
		start = max(end-maxShow, 0)
	}

	return start, end
}

func formatCompletionList(completions []string, currentIndex int) string {
	if len(completions) == 0 {
		return ""
	}

	if len(completions) == 1 {
		return shared.CompletionStyle().Render("  → " + getBaseName(completions[0]))
	}

	lines := []string{shared.CompletionStyle().Render("  " + strings.Repeat("─", shared.ProgressBarWidth))}

	start, end := calculateCompletionWindow(currentIndex, maxCompletionsShown, len(completions))

	if start > 0 {
		lines = append(lines, shared.CompletionStyle().Render("    ..."))
	}

	for i := start; i < end; i++ {
		base := getBaseName(completions[i])
		if i == currentIndex {
			lines = append(lines, shared.CompletionSelectedStyle().Render("  "+shared.PromptArrow()+base))
		} else {
			lines = append(lines, shared.CompletionStyle().Render("    "+base))
		}
	}

	if end < len(completions) {
		lines = append(lines, shared.CompletionStyle().Render("    ..."))
	}

	return strings.Join(lines, "\n")
}

func expandHomePath(input string) string {
	if input == "" {
		return "."
	}

	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, input[1:])
		}
	}

	return input
}

func getBaseName(path string) string {
	trimmed := strings.TrimSuffix(path, "/")

	idx := strings.LastIndex(trimmed, "/")
	if idx == -1 {
		if strings.HasSuffix(path, "/") {
			return trimmed + "/"
		}

		return path
	}

	base := trimmed[idx+1:]
	if strings.HasSuffix(path, "/") {
		return base + "/"
	}

	return base
}

// getPathCompletions lists directory entries matching input. Remote URLs are not completed.
func getPathCompletions(input string) []string {
	if strings.Contains(input, "://") {
		return nil
	}

	input = expandHomePath(input)
	dir, prefix := parseCompletionPath(input)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	completions := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()

		if !shouldIncludeEntry(name, prefix) {
			continue
		}

		fullPath := filepath.Join(dir, name)

		if entry.IsDir() {
			fullPath += string(filepath.Separator)
		}

		completions = append(completions, fullPath)
	}

	sort.Strings(completions)

	return completions
}

func parseCompletionPath(input string) (dir, prefix string) {
	dir = filepath.Dir(input)
	prefix = filepath.Base(input)

	// Trailing separator completes inside that directory
	if strings.HasSuffix(input, string(filepath.Separator)) {
		dir = input
		prefix = ""
	}

	return dir, prefix
}

func shouldIncludeEntry(name, prefix string) bool {
	// Hidden entries only when asked for
	if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
		return false
	}

	return prefix == "" || strings.HasPrefix(name, prefix)
}
