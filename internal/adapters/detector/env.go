// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"go.trai.ch/precheckout/internal/core/domain"
	"golang.org/x/term"
)

// DetectLogFormat returns the recommended log format for output written to f.
// It checks if f is a TTY and if CI environment variables are set.
func DetectLogFormat(f *os.File) domain.LogFormat {
	isTTY := f != nil && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return domain.LogFormatJSON
	}
	return domain.LogFormatPretty
}

// ResolveFormat applies an explicit format over auto-detection.
// Unknown values fall back to the detected format.
func ResolveFormat(autoDetected, requested domain.LogFormat) domain.LogFormat {
	switch requested {
	case domain.LogFormatPretty, domain.LogFormatJSON:
		return requested
	default:
		return autoDetected
	}
}
