package detector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precheckout/internal/adapters/detector"
	"go.trai.ch/precheckout/internal/core/domain"
)

func TestDetectLogFormat(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
	}{
		{name: "CI=true", ciValue: "true"},
		{name: "CI=1", ciValue: "1"},
		{name: "CI=false", ciValue: "false"},
		{name: "no CI", ciValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)

			// A regular file is never a terminal.
			f, err := os.Create(filepath.Join(t.TempDir(), "log"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = f.Close() })

			assert.Equal(t, domain.LogFormatJSON, detector.DetectLogFormat(f))
		})
	}
}

func TestDetectLogFormat_NilFile(t *testing.T) {
	assert.Equal(t, domain.LogFormatJSON, detector.DetectLogFormat(nil))
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name      string
		detected  domain.LogFormat
		requested domain.LogFormat
		expected  domain.LogFormat
	}{
		{name: "pretty overrides", detected: domain.LogFormatJSON, requested: domain.LogFormatPretty, expected: domain.LogFormatPretty},
		{name: "json overrides", detected: domain.LogFormatPretty, requested: domain.LogFormatJSON, expected: domain.LogFormatJSON},
		{name: "auto uses detected", detected: domain.LogFormatPretty, requested: domain.LogFormatAuto, expected: domain.LogFormatPretty},
		{name: "empty uses detected", detected: domain.LogFormatJSON, requested: "", expected: domain.LogFormatJSON},
		{name: "unknown uses detected", detected: domain.LogFormatJSON, requested: "xml", expected: domain.LogFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveFormat(tt.detected, tt.requested))
		})
	}
}
