package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precheckout/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/precheckout/internal/adapters/envresolver" //nolint:depguard // Wired in app layer
	"go.trai.ch/precheckout/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/precheckout/internal/adapters/propcache"   //nolint:depguard // Wired in app layer
	"go.trai.ch/precheckout/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/precheckout/internal/adapters/tracker"     //nolint:depguard // Wired in app layer
	"go.trai.ch/precheckout/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			tracker.NodeID,
			propcache.NodeID,
			envresolver.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	attempts, err := graft.Dep[*tracker.Tracker](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.PropertyCache](ctx)
	if err != nil {
		return nil, err
	}

	env, err := graft.Dep[ports.EnvironmentResolver](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, attempts, cache, env, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
