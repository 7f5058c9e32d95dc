package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precheckout/internal/adapters/logger"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "dispatch finished", goldenName: "info_basic"},
		{name: "empty message", msg: "", goldenName: "info_empty"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple warning", msg: "store read failed", goldenName: "warn_basic"},
		{name: "empty warning", msg: "", goldenName: "warn_empty"},
		{name: "multiline warning", msg: "warn1\nwarn2", goldenName: "warn_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Warn(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Debug(t *testing.T) {
	t.Run("filtered at info", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.Debug("duplicate invocation skipped")

		g := goldie.New(t)
		g.Assert(t, "debug_filtered", buf.Bytes())
	})

	t.Run("emitted at debug", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.SetLevel(slog.LevelDebug)
		lg.Debug("duplicate invocation skipped")

		g := goldie.New(t)
		g.Assert(t, "debug_enabled", buf.Bytes())
	})

	t.Run("level survives output switch", func(t *testing.T) {
		lg, _ := newTestLogger(t)
		lg.SetLevel(slog.LevelDebug)

		buf := &bytes.Buffer{}
		lg.SetOutput(buf)
		lg.Debug("still visible")
		assert.Contains(t, buf.String(), "still visible")
	})
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{name: "simple error", err: os.ErrPermission, goldenName: "error_simple"},
		{name: "not found error", err: os.ErrNotExist, goldenName: "error_notfound"},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("connection refused"), "failed to launch pre-checkout script"),
				"failed to dispatch pre-checkout command",
			),
			goldenName: "error_chain_zerr_three",
		},
		{
			name:       "two level chain",
			err:        zerr.Wrap(errors.New("underlying cause"), "wrapped message"),
			goldenName: "error_chain_zerr_two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	// fmt.Errorf chains are printed as one message.
	innerErr := errors.New("connection refused")
	middleErr := fmt.Errorf("failed to dial agent: %w", innerErr)
	outerErr := fmt.Errorf("failed to open channel: %w", middleErr)

	lg, buf := newTestLogger(t)
	lg.Error(outerErr)

	g := goldie.New(t)
	g.Assert(t, "error_chain_stdlib", buf.Bytes())
}

func TestLogger_Error_WithMetadata(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "single metadata field",
			err:        zerr.With(domain.ErrMalformedAxis, "segment", "os"),
			goldenName: "error_metadata_single",
		},
		{
			name: "metadata on main error",
			err: func() error {
				outer := zerr.Wrap(errors.New("connection refused"), "agent channel unavailable")
				outer = zerr.With(outer, "retry_count", 3)
				return zerr.With(outer, "node", "builder-1")
			}(),
			goldenName: "error_metadata_main",
		},
		{
			name: "standard cause",
			err: zerr.With(
				zerr.Wrap(os.ErrPermission, "failed to delete pre-checkout script"),
				"path", "/tmp/precheckout-1.sh",
			),
			goldenName: "error_metadata_std_cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String(), "Expected no output for nil error")
}

func TestLogger_SetJSON_WithErrorChain(t *testing.T) {
	innerErr := errors.New("connection refused")
	middleErr := zerr.Wrap(innerErr, "failed to launch pre-checkout script")
	outerErr := zerr.With(middleErr, "node", "builder-1")

	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(outerErr)

	output := buf.String()
	assert.Contains(t, output, `"error"`)
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.Contains(t, output, "failed to launch pre-checkout script")
	assert.Contains(t, output, "builder-1")
	assert.NotContains(t, output, "✗", "JSON format should not have pretty markers")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("error in pretty mode"))
	prettyOutput := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Error(errors.New("error in json mode"))
	jsonOutput := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Error(errors.New("error back in pretty mode"))
	backToPrettyOutput := buf.String()

	assert.Contains(t, prettyOutput, "✗")
	assert.NotContains(t, prettyOutput, `"error"`)

	assert.Contains(t, jsonOutput, `"error"`)
	assert.NotContains(t, jsonOutput, "✗")

	assert.Contains(t, backToPrettyOutput, "✗")
	assert.NotContains(t, backToPrettyOutput, `"error"`)
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestParseLevel(t *testing.T) {
	level, err := logger.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = logger.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logger.ParseLevel("loud")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	ops := []func(){
		func() { lg.Debug("concurrent debug") },
		func() { lg.Info("concurrent info") },
		func() { lg.Warn("concurrent warn") },
		func() { lg.Error(errors.New("concurrent error")) },
		func() { lg.SetJSON(true) },
		func() { lg.SetJSON(false) },
		func() { lg.SetLevel(slog.LevelDebug) },
		func() { lg.SetOutput(&bytes.Buffer{}) },
	}
	for _, op := range ops {
		wg.Add(1)
		go func() {
			defer wg.Done()
			op()
		}()
	}
	wg.Wait()
}
