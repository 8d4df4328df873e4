package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/eject/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/eject/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/eject/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/eject/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/eject/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/eject/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized components the CLI needs.
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
			fs.NodeID,
			logger.NodeID,
			progrock.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.SandboxLoader](ctx)
			if err != nil {
				return nil, err
			}

			emitter, err := graft.Dep[ports.Emitter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, emitter, log, telemetry, w), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}
