package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precheckout/internal/adapters/envresolver"
	"go.trai.ch/precheckout/internal/adapters/logger"
	"go.trai.ch/precheckout/internal/adapters/propcache"
	"go.trai.ch/precheckout/internal/adapters/telemetry"
	"go.trai.ch/precheckout/internal/adapters/tracker"
	"go.trai.ch/precheckout/internal/app"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app      *app.App
	loader   *mocks.MockConfigLoader
	tracker  *tracker.Tracker
	logs     *bytes.Buffer
	settings *domain.Settings
	cwd      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logs := &bytes.Buffer{}
	log := logger.New()
	log.(*logger.Logger).SetOutput(logs)

	cwd := t.TempDir()
	settings := domain.DefaultSettings()
	settings.JobsDir = filepath.Join(cwd, "jobs")
	settings.Script.TempDir = t.TempDir()
	settings.LogFormat = domain.LogFormatJSON

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		tracker:  tracker.New(),
		logs:     logs,
		settings: settings,
		cwd:      cwd,
	}
	f.app = app.New(f.loader, log, f.tracker, propcache.New(), envresolver.New(), telemetry.NewNoOpTracer())
	return f
}

// configure loads the fixture settings into the app.
func (f *fixture) configure(t *testing.T) {
	t.Helper()
	f.loader.EXPECT().Load(f.cwd, "").Return(f.settings, nil)
	require.NoError(t, f.app.Configure(f.cwd, app.GlobalOptions{}))
}

func (f *fixture) writeJob(t *testing.T, project, content string) {
	t.Helper()
	dir := filepath.Join(f.settings.JobsDir, project)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.JobFileYAML), []byte(content), 0o600))
}

func jobWith(command string) string {
	return "properties:\n  - kind: pre-checkout\n    command: " + command + "\n"
}

func TestRequestOptions_BuildRequest(t *testing.T) {
	t.Run("missing project", func(t *testing.T) {
		_, err := app.RequestOptions{}.BuildRequest()
		require.ErrorIs(t, err, domain.ErrMissingProject)
	})

	t.Run("fills host variables", func(t *testing.T) {
		req, err := app.RequestOptions{
			Project:  "web",
			BuildID:  "12",
			Executor: "node-1#0",
			Node:     "node-1",
		}.BuildRequest()
		require.NoError(t, err)

		assert.Equal(t, "web", req.Project.Name)
		assert.False(t, req.Project.IsMatrixChild())
		assert.Equal(t, domain.LocalAgent, req.AgentAddress)
		assert.Equal(t, map[string]string{
			"JOB_NAME":     "web",
			"BUILD_ID":     "12",
			"BUILD_NUMBER": "12",
			"NODE_NAME":    "node-1",
		}, req.Environment)
	})

	t.Run("explicit variables win", func(t *testing.T) {
		env := map[string]string{"BUILD_NUMBER": "99", "EXTRA": "x"}
		req, err := app.RequestOptions{
			Project: "web",
			BuildID: "12",
			Env:     env,
			Agent:   "unix:///tmp/agent.sock",
		}.BuildRequest()
		require.NoError(t, err)

		assert.Equal(t, "99", req.Environment["BUILD_NUMBER"])
		assert.Equal(t, "x", req.Environment["EXTRA"])
		assert.NotContains(t, req.Environment, "NODE_NAME")
		assert.Equal(t, "unix:///tmp/agent.sock", req.AgentAddress)
		assert.Len(t, env, 2, "caller map must not be modified")
	})

	t.Run("matrix child", func(t *testing.T) {
		req, err := app.RequestOptions{Project: "suite/os=linux", MatrixParent: "suite"}.BuildRequest()
		require.NoError(t, err)

		require.True(t, req.Project.IsMatrixChild())
		assert.Equal(t, "suite", req.Project.Parent.Name)
		assert.Equal(t, "suite/os=linux", req.Environment["JOB_NAME"])
	})
}

func TestApp_Configure(t *testing.T) {
	t.Run("flags override settings", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(f.cwd, "custom.yaml").Return(f.settings, nil)

		err := f.app.Configure(f.cwd, app.GlobalOptions{
			ConfigPath: "custom.yaml",
			LogFormat:  "json",
			LogLevel:   "debug",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.LogFormatJSON, f.app.Settings().LogFormat)
		assert.Equal(t, "debug", f.app.Settings().LogLevel)
	})

	t.Run("invalid level", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(f.cwd, "").Return(f.settings, nil)

		err := f.app.Configure(f.cwd, app.GlobalOptions{LogLevel: "loud"})
		require.ErrorIs(t, err, domain.ErrInvalidSettings)
	})

	t.Run("load error", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(f.cwd, "").Return(nil, domain.ErrSettingsParseFailed)

		err := f.app.Configure(f.cwd, app.GlobalOptions{})
		require.ErrorIs(t, err, domain.ErrSettingsParseFailed)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}

func TestApp_Run(t *testing.T) {
	t.Run("pair executes once", func(t *testing.T) {
		f := newFixture(t)
		f.configure(t)
		f.writeJob(t, "web", jobWith("echo hello $BUILD_NUMBER"))

		console := &bytes.Buffer{}
		results, err := f.app.Run(t.Context(), app.RunOptions{
			RequestOptions: app.RequestOptions{Project: "web", BuildID: "3", Executor: "local#0", Node: "local"},
			Invocations:    2,
		}, console)
		require.NoError(t, err)

		assert.Equal(t, []domain.SetUpResult{
			{Outcome: domain.OutcomeExecuted, ExitCode: 0},
			{Outcome: domain.OutcomeDuplicate},
		}, results)
		assert.Contains(t, console.String(), domain.MsgWillExecute("echo hello $BUILD_NUMBER"))
		assert.Contains(t, console.String(), "hello 3")
		assert.Contains(t, console.String(), domain.MsgExitCode(0))
		assert.Contains(t, f.logs.String(), "executed (exit code 0)")

		entries, err := os.ReadDir(f.settings.Script.TempDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("matrix child sees its axes", func(t *testing.T) {
		f := newFixture(t)
		f.configure(t)
		f.writeJob(t, "parentJob", jobWith(`echo "axes $test-$config"`))

		console := &bytes.Buffer{}
		results, err := f.app.Run(t.Context(), app.RunOptions{
			RequestOptions: app.RequestOptions{
				Project:      "parentJob/test=1,config=A",
				MatrixParent: "parentJob",
				BuildID:      "1",
				Executor:     "local#0",
			},
		}, console)
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, domain.OutcomeExecuted, results[0].Outcome)
		assert.Contains(t, console.String(), "axes 1-A")
	})

	t.Run("non-zero exit", func(t *testing.T) {
		f := newFixture(t)
		f.configure(t)
		f.writeJob(t, "web", jobWith("nonexistent-binary-xyz"))

		console := &bytes.Buffer{}
		results, err := f.app.Run(t.Context(), app.RunOptions{
			RequestOptions: app.RequestOptions{Project: "web", BuildID: "1", Executor: "local#0"},
		}, console)
		require.NoError(t, err)

		assert.Equal(t, []domain.SetUpResult{{Outcome: domain.OutcomeExecuted, ExitCode: 127}}, results)
		assert.Contains(t, console.String(), domain.MsgExitCode(127))
	})

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t)
		f.configure(t)

		console := &bytes.Buffer{}
		results, err := f.app.Run(t.Context(), app.RunOptions{
			RequestOptions: app.RequestOptions{Project: "web", BuildID: "1", Executor: "local#0"},
		}, console)
		require.NoError(t, err)

		assert.Equal(t, []domain.SetUpResult{{Outcome: domain.OutcomeNotConfigured}}, results)
		assert.Contains(t, console.String(), domain.MsgNotConfigured)
	})

	t.Run("node is the controller", func(t *testing.T) {
		f := newFixture(t)
		f.configure(t)
		f.writeJob(t, "web", jobWith("echo never"))

		console := &bytes.Buffer{}
		results, err := f.app.Run(t.Context(), app.RunOptions{
			RequestOptions: app.RequestOptions{
				Project:  "web",
				BuildID:  "1",
				Executor: "controller#0",
				Node:     f.settings.ControllerName,
			},
		}, console)
		require.NoError(t, err)

		assert.Equal(t, domain.OutcomeRefused, results[0].Outcome)
		assert.Contains(t, console.String(), domain.MsgRefused)
		assert.NotContains(t, console.String(), "never\n")
	})

	t.Run("missing project", func(t *testing.T) {
		f := newFixture(t)
		f.configure(t)

		_, err := f.app.Run(t.Context(), app.RunOptions{}, &bytes.Buffer{})
		require.ErrorIs(t, err, domain.ErrMissingProject)
	})
}

func TestApp_Validate(t *testing.T) {
	tests := []struct {
		name    string
		job     string
		project string
		wantErr error
		wantLog string
	}{
		{name: "program on path", job: jobWith("sh -c true"), project: "web", wantLog: "runs"},
		{name: "absolute program", job: jobWith("/bin/sh -c true"), project: "web", wantLog: "/bin/sh"},
		{name: "unknown program", job: jobWith("nonexistent-binary-xyz --flag"), project: "web", wantErr: domain.ErrCommandNotExecutable},
		{
			name:    "disabled command",
			job:     "properties:\n  - kind: pre-checkout\n    enabled: false\n    command: nonexistent-binary-xyz\n",
			project: "web",
			wantLog: "no enabled pre-checkout command",
		},
		{name: "never saved", project: "web", wantLog: "no enabled pre-checkout command"},
		{name: "missing project", wantErr: domain.ErrMissingProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.configure(t)
			if tt.job != "" {
				f.writeJob(t, "web", tt.job)
			}

			err := f.app.Validate(t.Context(), app.ValidateOptions{Project: tt.project})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, f.logs.String(), tt.wantLog)
		})
	}
}

// socketAddress returns a unix address short enough for the socket path limit.
func socketAddress(t *testing.T, name string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "pc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return "unix://" + filepath.Join(dir, name)
}

func waitForSocket(t *testing.T, address string) {
	t.Helper()
	path := address[len("unix://"):]
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestApp_ServeController_RefusesInProcessAgent(t *testing.T) {
	f := newFixture(t)
	f.settings.Listen = socketAddress(t, "controller.sock")
	f.configure(t)

	marker := filepath.Join(t.TempDir(), "ran-on-controller")
	f.writeJob(t, "web", jobWith("touch "+marker))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app.ServeController(ctx, app.ControllerOptions{})
	}()
	waitForSocket(t, f.settings.Listen)

	for _, agentAddr := range []string{"", domain.LocalAgent} {
		console := &bytes.Buffer{}
		result, err := f.app.Setup(t.Context(), app.SetupOptions{RequestOptions: app.RequestOptions{
			Project:  "web",
			BuildID:  "5-" + agentAddr,
			Executor: "builder1#0",
			Node:     "builder1",
			Agent:    agentAddr,
		}}, console)
		require.NoError(t, err)

		assert.Equal(t, domain.OutcomeRefused, result.Outcome, "agent %q", agentAddr)
		assert.Contains(t, console.String(), domain.MsgRefused)
		assert.NoFileExists(t, marker)
	}

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop")
	}
}

func TestApp_ServeController_SweepsExpiredKeys(t *testing.T) {
	f := newFixture(t)
	f.settings.Listen = socketAddress(t, "controller.sock")
	f.settings.TrackerTTL = time.Millisecond
	f.settings.SweepInterval = 10 * time.Millisecond
	f.configure(t)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app.ServeController(ctx, app.ControllerOptions{})
	}()
	waitForSocket(t, f.settings.Listen)

	opts := app.SetupOptions{RequestOptions: app.RequestOptions{
		Project:  "web",
		BuildID:  "1",
		Executor: "node-1#0",
	}}

	// The first call of a pair marks the key in flight.
	result, err := f.app.Setup(t.Context(), opts, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeNotConfigured, result.Outcome)

	require.Eventually(t, func() bool { return f.tracker.Len() == 0 }, 5*time.Second, 10*time.Millisecond)

	// With the key swept the next call starts a new attempt instead of closing the pair.
	result, err = f.app.Setup(t.Context(), opts, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotConfigured, result.Outcome)

	cancel()
	require.NoError(t, <-errCh)
}

func TestApp_ServeController_IdleTimeout(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	err := f.app.ServeController(t.Context(), app.ControllerOptions{
		Listen:      socketAddress(t, "idle.sock"),
		IdleTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
}

func TestApp_ServeController_InvalidAddress(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	err := f.app.ServeController(t.Context(), app.ControllerOptions{Listen: "not an address"})
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestApp_ServeAgent_Setup(t *testing.T) {
	f := newFixture(t)
	f.settings.Listen = socketAddress(t, "controller.sock")
	f.configure(t)
	f.writeJob(t, "web", jobWith("echo via agent $BUILD_NUMBER"))

	agentAddr := socketAddress(t, "agent.sock")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	agentErr := make(chan error, 1)
	go func() {
		agentErr <- f.app.ServeAgent(ctx, app.AgentOptions{Name: "node-2", Listen: agentAddr})
	}()
	controllerErr := make(chan error, 1)
	go func() {
		controllerErr <- f.app.ServeController(ctx, app.ControllerOptions{})
	}()
	waitForSocket(t, agentAddr)
	waitForSocket(t, f.settings.Listen)

	opts := app.SetupOptions{RequestOptions: app.RequestOptions{
		Project:  "web",
		BuildID:  "9",
		Executor: "node-2#1",
		Node:     "node-2",
		Agent:    agentAddr,
	}}

	console := &bytes.Buffer{}
	result, err := f.app.Setup(t.Context(), opts, console)
	require.NoError(t, err)

	assert.Equal(t, domain.SetUpResult{Outcome: domain.OutcomeExecuted}, result)
	assert.Contains(t, console.String(), "via agent 9")
	assert.Contains(t, console.String(), domain.MsgAboutToLaunch("node-2"))

	result, err = f.app.Setup(t.Context(), opts, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDuplicate, result.Outcome)

	cancel()
	require.NoError(t, <-agentErr)
	require.NoError(t, <-controllerErr)
}

func TestApp_Setup_ControllerUnreachable(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	_, err := f.app.Setup(t.Context(), app.SetupOptions{
		RequestOptions: app.RequestOptions{Project: "web", BuildID: "1", Executor: "e#0"},
		Controller:     socketAddress(t, "missing.sock"),
	}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set-up call failed")
}
