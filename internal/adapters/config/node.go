package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/eject/internal/adapters/logger"
	"go.trai.ch/eject/internal/core/ports"
)

// NodeID is the unique identifier for the sandbox loader Graft node.
const NodeID graft.ID = "adapter.sandbox_loader"

func init() {
	graft.Register(graft.Node[ports.SandboxLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SandboxLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
