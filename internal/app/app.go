// Package app implements the application layer for precheckout.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.trai.ch/precheckout/internal/adapters/agent"
	"go.trai.ch/precheckout/internal/adapters/controller"
	"go.trai.ch/precheckout/internal/adapters/daemon"
	"go.trai.ch/precheckout/internal/adapters/detector"
	"go.trai.ch/precheckout/internal/adapters/dispatcher"
	"go.trai.ch/precheckout/internal/adapters/host"
	"go.trai.ch/precheckout/internal/adapters/jobstore"
	"go.trai.ch/precheckout/internal/adapters/logger"
	"go.trai.ch/precheckout/internal/adapters/telemetry"
	"go.trai.ch/precheckout/internal/adapters/tracker"
	"go.trai.ch/precheckout/internal/adapters/watcher"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/precheckout/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// logConfigurer is implemented by loggers whose format and level can change at runtime.
type logConfigurer interface {
	SetJSON(enable bool)
	SetLevel(level slog.Level)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracker      *tracker.Tracker
	cache        ports.PropertyCache
	env          ports.EnvironmentResolver
	tracer       ports.Tracer

	settings   *domain.Settings
	newWatcher func() (ports.Watcher, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	attempts *tracker.Tracker,
	cache ports.PropertyCache,
	env ports.EnvironmentResolver,
	tracer ports.Tracer,
) *App {
	a := &App{
		configLoader: loader,
		logger:       log,
		tracker:      attempts,
		cache:        cache,
		env:          env,
		tracer:       tracer,
		settings:     domain.DefaultSettings(),
	}
	a.newWatcher = func() (ports.Watcher, error) {
		return watcher.NewWatcher(a.logger)
	}
	return a
}

// WithWatcherFactory replaces the file watcher used by the controller daemon.
// This is primarily used for testing.
func (a *App) WithWatcherFactory(factory func() (ports.Watcher, error)) *App {
	a.newWatcher = factory
	return a
}

// Settings returns the settings loaded by the last Configure call.
func (a *App) Settings() *domain.Settings {
	return a.settings
}

// GlobalOptions are the settings shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogFormat  string
	LogLevel   string
}

// Configure loads the settings for cwd and applies the logging options.
// Non-empty flag values win over the settings file.
func (a *App) Configure(cwd string, opts GlobalOptions) error {
	settings, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if opts.LogFormat != "" {
		settings.LogFormat = domain.LogFormat(opts.LogFormat)
	}
	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}

	if lc, ok := a.logger.(logConfigurer); ok {
		format := detector.ResolveFormat(detector.DetectLogFormat(os.Stderr), settings.LogFormat)
		lc.SetJSON(format == domain.LogFormatJSON)
		lc.SetLevel(level)
	}

	// Spans finished anywhere in the process are reported through the logger.
	otel.SetTracerProvider(telemetry.NewProvider(a.logger))

	a.settings = settings
	return nil
}

// RequestOptions describe one build at its pre-checkout point.
type RequestOptions struct {
	Project      string
	MatrixParent string
	BuildID      string
	DisplayName  string
	Executor     string
	Node         string
	Agent        string
	Env          map[string]string
}

// BuildRequest converts the options to a wire request. Build variables the
// host normally provides are filled in when absent.
func (o RequestOptions) BuildRequest() (domain.BuildRequest, error) {
	if o.Project == "" {
		return domain.BuildRequest{}, domain.ErrMissingProject
	}

	project := domain.Project{Name: o.Project}
	if o.MatrixParent != "" {
		project.Parent = &domain.Project{Name: o.MatrixParent}
	}

	env := make(map[string]string, len(o.Env)+4)
	maps.Copy(env, o.Env)
	setDefault(env, domain.JobNameVar, o.Project)
	setDefault(env, "BUILD_ID", o.BuildID)
	setDefault(env, "BUILD_NUMBER", o.BuildID)
	setDefault(env, "NODE_NAME", o.Node)

	agentAddr := o.Agent
	if agentAddr == "" {
		agentAddr = domain.LocalAgent
	}

	return domain.BuildRequest{
		BuildID:      o.BuildID,
		DisplayName:  o.DisplayName,
		Project:      project,
		Executor:     o.Executor,
		Environment:  env,
		NodeName:     o.Node,
		AgentAddress: agentAddr,
	}, nil
}

func setDefault(env map[string]string, key, value string) {
	if value == "" {
		return
	}
	if _, ok := env[key]; !ok {
		env[key] = value
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	RequestOptions
	// Invocations is how many times the hook is called for the build.
	// The host calls it twice per attempt.
	Invocations int
	TTY         bool
}

// Run invokes the pre-checkout hook in process against a local agent.
// It returns one result per invocation.
func (a *App) Run(ctx context.Context, opts RunOptions, console io.Writer) ([]domain.SetUpResult, error) {
	req, err := opts.BuildRequest()
	if err != nil {
		return nil, err
	}

	invocations := max(opts.Invocations, 1)
	orch := a.newOrchestrator(jobstore.New(a.settings.JobsDir, a.logger))
	build := host.NewBuild(req)
	node := host.NewNode(req, host.DialAgent(agent.WithTTY(opts.TTY)))

	results := make([]domain.SetUpResult, 0, invocations)
	for range invocations {
		result := orch.SetUp(ctx, build, node, console)
		a.logResult(build.DisplayName(), result)
		results = append(results, result)
	}
	return results, nil
}

// SetupOptions configuration for the Setup method.
type SetupOptions struct {
	RequestOptions
	Controller string
}

// Setup sends one hook invocation to a controller daemon and streams its
// console output to console.
func (a *App) Setup(ctx context.Context, opts SetupOptions, console io.Writer) (domain.SetUpResult, error) {
	req, err := opts.BuildRequest()
	if err != nil {
		return domain.SetUpResult{}, err
	}

	addr := opts.Controller
	if addr == "" {
		addr = a.settings.Listen
	}

	client, err := controller.Dial(addr)
	if err != nil {
		return domain.SetUpResult{}, err
	}
	defer func() { _ = client.Close() }()

	result, err := client.SetUp(ctx, req, console)
	if err != nil {
		return domain.SetUpResult{}, zerr.With(zerr.Wrap(err, "set-up call failed"), "controller", addr)
	}
	a.logResult(host.NewBuild(req).DisplayName(), result)
	return result, nil
}

// ControllerOptions configuration for the ServeController method.
type ControllerOptions struct {
	Listen      string
	IdleTimeout time.Duration
}

// ServeController runs the controller daemon until ctx is cancelled or the
// idle timeout expires. Alongside the hook service it sweeps expired attempt
// keys and watches the jobs directory for configuration changes.
func (a *App) ServeController(ctx context.Context, opts ControllerOptions) error {
	listen := opts.Listen
	if listen == "" {
		listen = a.settings.Listen
	}

	lis, lifecycle, err := a.listen(listen, opts.IdleTimeout)
	if err != nil {
		return err
	}

	store := jobstore.New(a.settings.JobsDir, a.logger)
	orch := a.newOrchestrator(store)

	srv := grpc.NewServer(lifecycle.ServerOptions()...)
	controller.NewServer(orch, host.DialFromController(a.settings.ControllerName), a.logger).Register(srv)

	w, err := a.newWatcher()
	if err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to create jobs directory watcher")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The helpers stop with the server.
		defer cancel()
		a.logger.Info(fmt.Sprintf("controller %q listening on %s", a.settings.ControllerName, listen))
		return daemon.Serve(ctx, srv, lis, lifecycle)
	})

	g.Go(func() error {
		return store.Watch(ctx, w)
	})

	if ttl := a.settings.TrackerTTL; ttl > 0 {
		g.Go(func() error {
			a.sweep(ctx, ttl, a.settings.SweepInterval)
			return nil
		})
	}

	return g.Wait()
}

// sweep drops attempt keys older than ttl every interval until ctx is done.
func (a *App) sweep(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.tracker.Sweep(ttl); n > 0 {
				a.logger.Debug(fmt.Sprintf("swept %d expired attempt keys", n))
			}
		}
	}
}

// AgentOptions configuration for the ServeAgent method.
type AgentOptions struct {
	Name        string
	Listen      string
	TTY         bool
	IdleTimeout time.Duration
}

// ServeAgent runs an agent daemon that executes scripts for the controller.
func (a *App) ServeAgent(ctx context.Context, opts AgentOptions) error {
	name := opts.Name
	if name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return zerr.Wrap(err, "failed to resolve agent name")
		}
		name = hostname
	}

	listen := opts.Listen
	if listen == "" {
		listen = domain.DefaultAgentAddress()
	}

	lis, lifecycle, err := a.listen(listen, opts.IdleTimeout)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(lifecycle.ServerOptions()...)
	agent.NewServer(agent.NewLocal(name, agent.WithTTY(opts.TTY)), a.logger).Register(srv)

	a.logger.Info(fmt.Sprintf("agent %q listening on %s", name, listen))
	return daemon.Serve(ctx, srv, lis, lifecycle)
}

// ValidateOptions configuration for the Validate method.
type ValidateOptions struct {
	Project string
}

// Validate checks that the enabled pre-checkout command of a project starts
// with a program that can be executed.
func (a *App) Validate(ctx context.Context, opts ValidateOptions) error {
	if opts.Project == "" {
		return domain.ErrMissingProject
	}

	store := jobstore.New(a.settings.JobsDir, a.logger)
	snapshot, err := store.Snapshot(ctx, domain.Project{Name: opts.Project})
	if err != nil {
		return err
	}

	command, ok := snapshot.PreCheckout()
	if !ok {
		a.logger.Info(fmt.Sprintf("project %q has no enabled pre-checkout command", opts.Project))
		return nil
	}

	program, _, _ := strings.Cut(strings.TrimSpace(command.Command), " ")
	if program == "" {
		return zerr.With(zerr.Wrap(domain.ErrCommandNotExecutable, "command is empty"), "project", opts.Project)
	}

	path, err := exec.LookPath(program)
	if err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrCommandNotExecutable, err.Error()), "project", opts.Project)
		return zerr.With(err, "program", program)
	}

	a.logger.Info(fmt.Sprintf("project %q runs %s", opts.Project, path))
	return nil
}

func (a *App) newOrchestrator(store ports.PropertyStore) *orchestrator.Orchestrator {
	s := a.settings
	return orchestrator.New(
		store,
		a.cache,
		a.tracker,
		a.env,
		dispatcher.New(s.ControllerName, s.Script, a.logger, a.tracer),
		a.logger,
		a.tracer,
	)
}

func (a *App) listen(raw string, idle time.Duration) (net.Listener, *daemon.Lifecycle, error) {
	addr, err := daemon.ParseAddress(raw)
	if err != nil {
		return nil, nil, err
	}
	lis, err := daemon.Listen(addr)
	if err != nil {
		return nil, nil, err
	}
	return lis, daemon.NewLifecycle(idle), nil
}

func (a *App) logResult(build string, result domain.SetUpResult) {
	msg := fmt.Sprintf("pre-checkout for %s: %s", build, result.Outcome)
	if result.Outcome == domain.OutcomeExecuted {
		msg += fmt.Sprintf(" (exit code %d)", result.ExitCode)
	}
	a.logger.Info(msg)
}
