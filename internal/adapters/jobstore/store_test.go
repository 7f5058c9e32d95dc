package jobstore_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precheckout/internal/adapters/jobstore"
	"go.trai.ch/precheckout/internal/adapters/watcher"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/precheckout/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T) (*jobstore.Store, string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	return jobstore.New(root, mockLogger), root
}

func writeJob(t *testing.T, root, project, file, content string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(project))
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
}

func TestStore_Snapshot_YAML(t *testing.T) {
	store, root := newStore(t)
	writeJob(t, root, "web", domain.JobFileYAML, `
properties:
  - kind: parameters
    settings: {retention: "10"}
  - kind: pre-checkout
    enabled: false
    command: echo old
  - kind: pre-checkout
    command: echo hello $BUILD_NUMBER
`)

	snap, err := store.Snapshot(t.Context(), domain.Project{Name: "web"})
	require.NoError(t, err)

	assert.Equal(t, domain.PropertySnapshot{Properties: []domain.Property{
		{Kind: "parameters", Settings: map[string]string{"retention": "10"}},
		{Kind: domain.KindPreCheckout, Command: &domain.CommandConfig{Enabled: false, Command: "echo old"}},
		{Kind: domain.KindPreCheckout, Command: &domain.CommandConfig{Enabled: true, Command: "echo hello $BUILD_NUMBER"}},
	}}, snap)

	cmd, ok := snap.PreCheckout()
	require.True(t, ok)
	assert.Equal(t, "echo hello $BUILD_NUMBER", cmd.Command)
}

func TestStore_Snapshot_JSONC(t *testing.T) {
	store, root := newStore(t)
	writeJob(t, root, "folder/api", domain.JobFileJSONC, `{
  // runs before checkout
  "properties": [
    {"kind": "pre-checkout", "enabled": true, "command": "make prepare"},
  ],
}`)

	snap, err := store.Snapshot(t.Context(), domain.Project{Name: "folder/api"})
	require.NoError(t, err)

	cmd, ok := snap.PreCheckout()
	require.True(t, ok)
	assert.Equal(t, domain.CommandConfig{Enabled: true, Command: "make prepare"}, cmd)
}

func TestStore_Snapshot_NeverSaved(t *testing.T) {
	store, root := newStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o750))

	for _, name := range []string{"absent", "empty"} {
		snap, err := store.Snapshot(t.Context(), domain.Project{Name: name})
		require.NoError(t, err)
		assert.True(t, snap.IsEmpty(), name)
	}
}

func TestStore_Snapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		project string
		setup   func(t *testing.T, root string)
		wantErr error
	}{
		{
			name:    "both formats",
			project: "both",
			setup: func(t *testing.T, root string) {
				writeJob(t, root, "both", domain.JobFileYAML, "properties: []\n")
				writeJob(t, root, "both", domain.JobFileJSONC, `{"properties": []}`)
			},
			wantErr: domain.ErrAmbiguousJobConfig,
		},
		{
			name:    "invalid yaml",
			project: "bad",
			setup: func(t *testing.T, root string) {
				writeJob(t, root, "bad", domain.JobFileYAML, "properties: [")
			},
			wantErr: domain.ErrJobParseFailed,
		},
		{
			name:    "invalid jsonc",
			project: "bad",
			setup: func(t *testing.T, root string) {
				writeJob(t, root, "bad", domain.JobFileJSONC, `{"properties": {`)
			},
			wantErr: domain.ErrJobParseFailed,
		},
		{
			name:    "missing kind",
			project: "nokind",
			setup: func(t *testing.T, root string) {
				writeJob(t, root, "nokind", domain.JobFileYAML, "properties:\n  - command: echo\n")
			},
			wantErr: domain.ErrUnknownPropertyKind,
		},
		{
			name:    "escaping name",
			project: "../outside",
			setup:   func(*testing.T, string) {},
			wantErr: domain.ErrJobReadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, root := newStore(t)
			tt.setup(t, root)

			_, err := store.Snapshot(t.Context(), domain.Project{Name: tt.project})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_NoCacheWithoutWatch(t *testing.T) {
	store, root := newStore(t)
	writeJob(t, root, "web", domain.JobFileYAML, "properties:\n  - kind: pre-checkout\n    command: echo one\n")

	snap, err := store.Snapshot(t.Context(), domain.Project{Name: "web"})
	require.NoError(t, err)
	cmd, _ := snap.PreCheckout()
	assert.Equal(t, "echo one", cmd.Command)

	writeJob(t, root, "web", domain.JobFileYAML, "properties:\n  - kind: pre-checkout\n    command: echo two\n")

	snap, err = store.Snapshot(t.Context(), domain.Project{Name: "web"})
	require.NoError(t, err)
	cmd, _ = snap.PreCheckout()
	assert.Equal(t, "echo two", cmd.Command)
}

func TestStore_WatchInvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	store := jobstore.New(root, mockLogger)
	writeJob(t, root, "web", domain.JobFileYAML, "properties:\n  - kind: pre-checkout\n    command: echo one\n")

	w, err := watcher.NewWatcher(mockLogger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, w) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	project := domain.Project{Name: "web"}
	require.Eventually(t, func() bool {
		snap, err := store.Snapshot(t.Context(), project)
		return err == nil && !snap.IsEmpty()
	}, 5*time.Second, 10*time.Millisecond)

	writeJob(t, root, "web", domain.JobFileYAML, "properties:\n  - kind: pre-checkout\n    command: echo two\n")

	require.Eventually(t, func() bool {
		snap, err := store.Snapshot(t.Context(), project)
		if err != nil {
			return false
		}
		cmd, _ := snap.PreCheckout()
		return cmd.Command == "echo two"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStore_WatchEventsDriveInvalidation(t *testing.T) {
	store, root := newStore(t)
	writeJob(t, root, "web", domain.JobFileYAML, "properties:\n  - kind: pre-checkout\n    command: echo one\n")

	events := make(chan ports.WatchEvent)
	watching := make(chan struct{})

	w := mocks.NewMockWatcher(gomock.NewController(t))
	w.EXPECT().Start(gomock.Any(), root).Return(nil)
	w.EXPECT().Events().DoAndReturn(func() iter.Seq[ports.WatchEvent] {
		close(watching)
		return func(yield func(ports.WatchEvent) bool) {
			for e := range events {
				if !yield(e) {
					return
				}
			}
		}
	})
	w.EXPECT().Stop().Return(nil)

	done := make(chan error, 1)
	go func() { done <- store.Watch(t.Context(), w) }()
	<-watching

	command := func() string {
		snap, err := store.Snapshot(t.Context(), domain.Project{Name: "web"})
		if err != nil {
			return err.Error()
		}
		cmd, _ := snap.PreCheckout()
		return cmd.Command
	}

	assert.Equal(t, "echo one", command())

	// Without an event the cached snapshot is served.
	writeJob(t, root, "web", domain.JobFileYAML, "properties:\n  - kind: pre-checkout\n    command: echo two\n")
	assert.Equal(t, "echo one", command())

	events <- ports.WatchEvent{Path: filepath.Join(root, "web", domain.JobFileYAML), Operation: ports.OpWrite}
	assert.Eventually(t, func() bool { return command() == "echo two" }, 5*time.Second, 10*time.Millisecond)

	close(events)
	require.NoError(t, <-done)
}

func TestStore_WatchStartError(t *testing.T) {
	store, root := newStore(t)
	startErr := errors.New("inotify limit reached")

	w := mocks.NewMockWatcher(gomock.NewController(t))
	w.EXPECT().Start(gomock.Any(), root).Return(startErr)

	err := store.Watch(t.Context(), w)
	require.ErrorIs(t, err, startErr)
}

func TestStore_Invalidate(t *testing.T) {
	store, _ := newStore(t)
	assert.NotPanics(t, func() { store.Invalidate("web", "api") })
}
