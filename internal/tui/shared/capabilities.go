package shared

import (
	"os"
)

// unexported variables.
var (
	//nolint:gochecknoglobals // terminal capabilities are process-wide
	colorsDisabled = detectColorsDisabled()
	//nolint:gochecknoglobals // terminal capabilities are process-wide
	unicodeDisabled = detectUnicodeDisabled()
)

// ColorsDisabled reports whether NO_COLOR is set or the terminal is dumb.
func ColorsDisabled() bool {
	return colorsDisabled
}

// UnicodeDisabled reports whether symbols fall back to ASCII.
func UnicodeDisabled() bool {
	return unicodeDisabled
}

func detectColorsDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	return os.Getenv("TERM") == "dumb"
}

func detectUnicodeDisabled() bool {
	if os.Getenv("TERM") == "dumb" {
		return true
	}

	locale := os.Getenv("LC_ALL")
	if locale == "" {
		locale = os.Getenv("LANG")
	}

	return locale == "C" || locale == "POSIX"
}
