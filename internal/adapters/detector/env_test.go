package detector_test

import (
	"testing"

	"go.trai.ch/crest/internal/adapters/detector"
)

func TestDetectEnvironmentCI(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
	}{
		{name: "CI=true forces JSON", ciValue: "true"},
		{name: "CI=1 forces JSON", ciValue: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)

			if format := detector.DetectEnvironment(); format != detector.FormatJSON {
				t.Errorf("Expected FormatJSON with CI=%s, got %v", tt.ciValue, format)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.LogFormat
		userFlag     string
		expected     detector.LogFormat
	}{
		{
			name:         "auto respects auto-detection (pretty)",
			autoDetected: detector.FormatPretty,
			userFlag:     "auto",
			expected:     detector.FormatPretty,
		},
		{
			name:         "auto respects auto-detection (json)",
			autoDetected: detector.FormatJSON,
			userFlag:     "auto",
			expected:     detector.FormatJSON,
		},
		{
			name:         "empty flag respects auto-detection",
			autoDetected: detector.FormatJSON,
			userFlag:     "",
			expected:     detector.FormatJSON,
		},
		{
			name:         "pretty overrides auto-detection",
			autoDetected: detector.FormatJSON,
			userFlag:     "pretty",
			expected:     detector.FormatPretty,
		},
		{
			name:         "json overrides auto-detection",
			autoDetected: detector.FormatPretty,
			userFlag:     "json",
			expected:     detector.FormatJSON,
		},
		{
			name:         "unknown flag falls back to auto-detection",
			autoDetected: detector.FormatPretty,
			userFlag:     "fancy",
			expected:     detector.FormatPretty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.ResolveFormat(tt.autoDetected, tt.userFlag); got != tt.expected {
				t.Errorf("ResolveFormat(%v, %q) = %v, want %v", tt.autoDetected, tt.userFlag, got, tt.expected)
			}
		})
	}
}
