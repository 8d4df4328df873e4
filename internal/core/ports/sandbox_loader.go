package ports

import "go.trai.ch/eject/internal/core/domain"

// SandboxLoader defines the interface for loading a resolved sandbox from a lockfile.
//
//go:generate mockgen -source=sandbox_loader.go -destination=mocks/mock_sandbox_loader.go -package=mocks
type SandboxLoader interface {
	// Load reads the lockfile at path and returns the sandbox with its dependency graph.
	Load(path string) (*domain.Sandbox, error)

	// Discover returns the path of the lockfile found in dir.
	Discover(dir string) (string, error)
}
