package shared

import (
	"fmt"
	"strings"

	"github.com/joe/frame-exporter/internal/exporter"
	"github.com/joe/frame-exporter/pkg/errors"
)

// Exported constants.
const (
	// FailureListLimit is how many failed frames the message screen lists
	FailureListLimit = 5
)

// RenderCause renders an error cause with actionable suggestions.
// affectedPath may be empty; a path is then taken from the message when present.
func RenderCause(cause error, affectedPath string, maxWidth int) string {
	if cause == nil {
		return ""
	}

	enriched := errors.NewEnricher().Enrich(cause, affectedPath)

	msg := enriched.Error()
	if maxWidth > EllipsisLength && len(msg) > maxWidth {
		msg = msg[:maxWidth-EllipsisLength] + "..."
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "%s %s\n", ErrorSymbol(), msg)

	if suggestions := errors.FormatSuggestions(enriched); suggestions != "" {
		builder.WriteString("\n" + RenderLabel("Suggestions:") + "\n")
		builder.WriteString(suggestions + "\n")
	}

	return builder.String()
}

// RenderFailureList lists frames that failed to publish, up to FailureListLimit.
func RenderFailureList(failures []exporter.PublishFailure, maxWidth int) string {
	if len(failures) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, failure := range failures {
		if i >= FailureListLimit {
			fmt.Fprintf(&builder, "... and %d more error(s)\n", len(failures)-FailureListLimit)
			break
		}

		name := failure.Frame.Name()
		if maxWidth > 0 {
			name = TruncateMiddle(name, maxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n", ErrorSymbol(), ErrorStyle().Render(name))

		errMsg := failure.Err.Error()
		if maxWidth > EllipsisLength && len(errMsg) > maxWidth {
			errMsg = errMsg[:maxWidth-EllipsisLength] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", errMsg)
	}

	return builder.String()
}
