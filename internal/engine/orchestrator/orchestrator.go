// Package orchestrator implements the pre-checkout hook: it decides which of
// the paired invocations of a build attempt acts, finds the project's command
// and hands it to the dispatcher.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
)

// Orchestrator runs the pre-checkout hook.
type Orchestrator struct {
	store      ports.PropertyStore
	cache      ports.PropertyCache
	tracker    ports.Tracker
	env        ports.EnvironmentResolver
	dispatcher ports.Dispatcher
	logger     ports.Logger
	tracer     ports.Tracer
}

// New creates a new Orchestrator with the given dependencies.
func New(
	store ports.PropertyStore,
	cache ports.PropertyCache,
	tracker ports.Tracker,
	env ports.EnvironmentResolver,
	dispatcher ports.Dispatcher,
	logger ports.Logger,
	tracer ports.Tracer,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		cache:      cache,
		tracker:    tracker,
		env:        env,
		dispatcher: dispatcher,
		logger:     logger,
		tracer:     tracer,
	}
}

// SetUp handles one hook invocation for build on node. The host calls it twice
// per build attempt; only the first call of each pair dispatches. Failures are
// logged and reported through the result, never returned or raised.
func (o *Orchestrator) SetUp(
	ctx context.Context,
	build ports.Build,
	node ports.Node,
	console io.Writer,
) (result domain.SetUpResult) {
	ctx, span := o.tracer.Start(ctx, "precheckout.setup")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(zerr.New(fmt.Sprintf("pre-checkout hook panicked: %v", r)), "build", build.DisplayName())
			o.logger.Error(err)
			span.RecordError(err)
			result = domain.SetUpResult{Outcome: domain.OutcomeFailed, ExitCode: -1}
		}
		span.SetAttribute("outcome", result.Outcome.String())
	}()

	return o.setUp(ctx, build, node, console, span)
}

func (o *Orchestrator) setUp(
	ctx context.Context,
	build ports.Build,
	node ports.Node,
	console io.Writer,
	span ports.Span,
) domain.SetUpResult {
	project := build.Project()
	name := project.AttemptName()
	span.SetAttribute("project", name)
	span.SetAttribute("build", build.DisplayName())

	// Only the first invocation of a pair sees the saved configuration.
	snapshot, err := o.store.Snapshot(ctx, project.PropertySource())
	if err != nil {
		o.logger.Error(zerr.With(zerr.Wrap(err, "failed to read project configuration"), "project", name))
	} else {
		o.cache.Put(name, snapshot)
	}

	executor, ok := resolveExecutor(build, node)
	if !ok {
		o.logger.Debug("no executor for " + build.DisplayName() + ", skipping pre-checkout")
		return domain.SetUpResult{Outcome: domain.OutcomeNoExecutor}
	}

	key := domain.BuildAttemptKey{Project: name, Executor: executor}
	span.SetAttribute("executor", executor)

	if !o.tracker.ShouldRun(key) {
		o.cache.Evict(name)
		o.logger.Debug("duplicate invocation skipped for " + key.String())
		return domain.SetUpResult{Outcome: domain.OutcomeDuplicate}
	}

	snapshot, ok = o.cache.Take(name)
	if !ok || snapshot.IsEmpty() {
		_, _ = fmt.Fprintln(console, domain.MsgNotConfigured)
		return domain.SetUpResult{Outcome: domain.OutcomeNotConfigured}
	}

	command, ok := snapshot.PreCheckout()
	if !ok {
		o.logger.Debug("pre-checkout command disabled for " + name)
		return domain.SetUpResult{Outcome: domain.OutcomeDisabled}
	}

	buildEnv, err := build.Environment(ctx)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to read build environment"), "build", build.DisplayName())
		o.logger.Error(err)
		span.RecordError(err)
		return domain.SetUpResult{Outcome: domain.OutcomeFailed, ExitCode: -1}
	}

	env, err := o.env.Resolve(buildEnv, project.IsMatrixChild())
	if err != nil {
		o.logger.Error(zerr.With(err, "project", name))
		span.RecordError(err)
		_, _ = fmt.Fprintln(console, domain.MsgMisconfiguredAxes)
		return domain.SetUpResult{Outcome: domain.OutcomeMisconfiguredAxes}
	}

	_, _ = fmt.Fprintln(console, domain.MsgWillExecute(command.Command))

	code, err := o.dispatcher.Dispatch(ctx, ports.DispatchRequest{
		Command:     command.Command,
		Environment: env,
		Build:       build.DisplayName(),
		Executor:    executor,
	}, node, console)
	if err != nil {
		if errors.Is(err, domain.ErrControllerExecution) {
			_, _ = fmt.Fprintln(console, domain.MsgRefused)
			return domain.SetUpResult{Outcome: domain.OutcomeRefused, ExitCode: -1}
		}
		o.logger.Error(err)
		return domain.SetUpResult{Outcome: domain.OutcomeFailed, ExitCode: -1}
	}

	return domain.SetUpResult{Outcome: domain.OutcomeExecuted, ExitCode: code}
}

// resolveExecutor names the executor slot running build. Builds on one-off
// executors are found by their build id.
func resolveExecutor(build ports.Build, node ports.Node) (string, bool) {
	if name, ok := build.Executor(); ok {
		return name, true
	}
	for _, e := range node.OneOffExecutors() {
		if e.BuildID == build.ID() {
			return e.Name, true
		}
	}
	return "", false
}
