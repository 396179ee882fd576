package errors_test

import (
	"testing"

	"github.com/joe/frame-exporter/pkg/errors"
)

func TestPatternMatcher_CaseInsensitive(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		errorMsg string
		expected errors.ErrorCategory
	}{
		{
			name:     "uppercase permission denied",
			errorMsg: "PERMISSION DENIED",
			expected: errors.CategoryPermission,
		},
		{
			name:     "mixed case no space left",
			errorMsg: "No Space Left On Device",
			expected: errors.CategoryDiskSpace,
		},
		{
			name:     "mixed case moov atom",
			errorMsg: "Moov Atom Not Found",
			expected: errors.CategoryMedia,
		},
	}

	matcher := errors.NewPatternMatcher()

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			category := matcher.Match(testCase.errorMsg)
			if category != testCase.expected {
				t.Errorf("expected category %q, got %q for error: %q",
					testCase.expected, category, testCase.errorMsg)
			}
		})
	}
}

func TestPatternMatcher_FirstRuleWins(t *testing.T) {
	t.Parallel()

	// An SFTP failure that also mentions a permission problem is reported as a connection issue
	msg := "SSH connection failed: ssh: unable to authenticate, permission denied"

	if got := errors.NewPatternMatcher().Match(msg); got != errors.CategoryConnection {
		t.Errorf("expected %q, got %q", errors.CategoryConnection, got)
	}
}
