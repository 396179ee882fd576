package shared

// ActiveSymbol returns a circled dot symbol with ASCII fallback
func ActiveSymbol() string {
	if unicodeDisabled {
		return "[*]"
	}

	return "◉"
}

// CancelledSymbol returns a cancelled/prohibited symbol with ASCII fallback
func CancelledSymbol() string {
	if unicodeDisabled {
		return "[!]"
	}

	return "⊘"
}

// CheckSymbol marks a selected frame
func CheckSymbol() string {
	if unicodeDisabled {
		return "[x]"
	}

	return "✔"
}

// ErrorSymbol returns a cross symbol with ASCII fallback
func ErrorSymbol() string {
	if unicodeDisabled {
		return "[X]"
	}

	return "✗"
}

// PendingSymbol returns a hollow circle with ASCII fallback
func PendingSymbol() string {
	if unicodeDisabled {
		return "[ ]"
	}

	return "○"
}

// SuccessSymbol returns a check mark with ASCII fallback
func SuccessSymbol() string {
	if unicodeDisabled {
		return "[+]"
	}

	return "✓"
}

// UncheckedSymbol marks an unselected frame
func UncheckedSymbol() string {
	if unicodeDisabled {
		return "[ ]"
	}

	return "□"
}
