// Package dispatcher runs pre-checkout commands on build agents through a
// temporary script.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Dispatcher = (*Dispatcher)(nil)

// Dispatcher implements ports.Dispatcher.
type Dispatcher struct {
	controllerID string
	layout       domain.ScriptLayout
	logger       ports.Logger
	tracer       ports.Tracer
}

// New creates a dispatcher that refuses to run anything on the channel
// identified as controllerID.
func New(controllerID string, layout domain.ScriptLayout, logger ports.Logger, tracer ports.Tracer) *Dispatcher {
	return &Dispatcher{
		controllerID: controllerID,
		layout:       layout,
		logger:       logger,
		tracer:       tracer,
	}
}

// Dispatch writes req.Command to a temporary script on the node's agent, runs
// it with req.Environment and removes the script again. Output goes to console.
// A non-zero exit code is returned without error.
func (d *Dispatcher) Dispatch(ctx context.Context, req ports.DispatchRequest, node ports.Node, console io.Writer) (int, error) {
	ctx, span := d.tracer.Start(ctx, "precheckout.dispatch")
	defer span.End()

	span.SetAttribute("build", req.Build)
	span.SetAttribute("executor", req.Executor)
	span.SetAttribute("node", node.DisplayName())
	span.SetAttribute("command.fingerprint", xxhash.Sum64String(req.Command))

	code, err := d.dispatch(ctx, req, node, span, console)
	if err != nil {
		span.RecordError(err)
		return -1, err
	}
	span.SetAttribute("exit_code", code)
	return code, nil
}

func (d *Dispatcher) dispatch(
	ctx context.Context,
	req ports.DispatchRequest,
	node ports.Node,
	span ports.Span,
	console io.Writer,
) (int, error) {
	ch, err := node.Channel(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrChannelUnavailable) {
			err = zerr.Wrap(err, "failed to open agent channel")
		} else {
			err = zerr.Wrap(domain.ErrChannelUnavailable, err.Error())
		}
		return -1, zerr.With(err, "node", node.DisplayName())
	}
	defer func() { _ = ch.Close() }()

	if ch.ID() == d.controllerID {
		err := zerr.With(zerr.Wrap(domain.ErrControllerExecution, "build is assigned to the controller"),
			"build", req.Build)
		d.logger.Error(err)
		return -1, err
	}

	path, err := ch.CreateTempFile(ctx, d.layout.TempDir, d.layout.Prefix, d.layout.Suffix, req.Command)
	if err != nil {
		return -1, zerr.With(zerr.Wrap(domain.ErrScriptCreateFailed, err.Error()), "node", node.DisplayName())
	}
	span.SetAttribute("script", path)

	defer func() {
		// Cleanup must outlive an aborted build.
		if err := ch.Delete(context.WithoutCancel(ctx), path); err != nil {
			d.logger.Warn(fmt.Sprintf("failed to delete pre-checkout script %s on %s: %v", path, node.DisplayName(), err))
		}
	}()

	_, _ = fmt.Fprintln(console, domain.MsgAboutToLaunch(node.DisplayName()))

	code, err := ch.Launch(ctx, d.layout.Launch(path, req.Environment), console)
	if err != nil {
		return -1, zerr.With(zerr.Wrap(domain.ErrLaunchFailed, err.Error()), "node", node.DisplayName())
	}

	msg := domain.MsgExitCode(code)
	_, _ = fmt.Fprintln(console, msg)
	d.logger.Info(msg)

	return code, nil
}
