// Package store computes store, sandbox and plan paths.
//
// Every function here is pure. Roots are usually variable references ("$(ESY_EJECT__STORE)" in
// Makefile context, "$ESY_EJECT__STORE" in shell context) that resolve when the plan runs.
package store

import (
	"path/filepath"

	"go.trai.ch/eject/internal/core/domain"
)

// Resolver joins path segments onto the configured roots.
type Resolver struct {
	cfg domain.Config
}

// New creates a Resolver over the roots of cfg.
func New(cfg domain.Config) Resolver {
	return Resolver{cfg: cfg}
}

// MakeVars returns a Resolver whose roots are Makefile variable references.
func MakeVars() Resolver {
	return New(domain.Config{
		SandboxPath: "$(" + domain.SandboxVar + ")",
		StorePath:   "$(" + domain.StoreVar + ")",
		PlanPath:    "$(" + domain.PlanRootVar + ")",
	})
}

// ShellVars returns a Resolver whose roots are shell variable references.
func ShellVars() Resolver {
	return New(domain.DefaultConfig())
}

// Config returns the configuration the resolver was built from.
func (r Resolver) Config() domain.Config {
	return r.cfg
}

// StorePath joins segments onto the global store root.
func (r Resolver) StorePath(segments ...string) string {
	return join(r.cfg.StorePath, segments)
}

// SandboxPath joins segments onto the sandbox root.
func (r Resolver) SandboxPath(segments ...string) string {
	return join(r.cfg.SandboxPath, segments)
}

// LocalStorePath joins segments onto the sandbox-local store mirror.
// The mirror always lives inside the sandbox, whatever the global store is.
func (r Resolver) LocalStorePath(segments ...string) string {
	return join(r.SandboxPath(domain.LocalStorePath()), segments)
}

// PlanPath joins segments onto the directory the plan is emitted into.
func (r Resolver) PlanPath(segments ...string) string {
	return join(r.cfg.PlanPath, segments)
}

// storeFor picks the store a package builds into.
// Only immutable packages are shared through the global store.
func (r Resolver) storeFor(st domain.SourceType, segments ...string) string {
	if st == domain.SourceTypeImmutable {
		return r.StorePath(segments...)
	}
	return r.LocalStorePath(segments...)
}

// BuildPath returns the directory the package is built in.
func (r Resolver) BuildPath(spec *domain.BuildSpec, taskID string) string {
	if spec.BuildType == domain.BuildTypeRoot {
		return r.SourcePath(spec)
	}
	return r.storeFor(spec.SourceType, domain.StoreBuildTree, taskID)
}

// StagePath returns the directory the package installs into before it is moved to its final place.
func (r Resolver) StagePath(spec *domain.BuildSpec, taskID string) string {
	return r.storeFor(spec.SourceType, domain.StoreStageTree, taskID)
}

// InstallPath returns the final install path of the package.
func (r Resolver) InstallPath(spec *domain.BuildSpec, taskID string) string {
	cfg := r.cfg
	cfg.StorePath = r.storeFor(spec.SourceType)
	return cfg.FinalInstallPath(spec, taskID)
}

// SourcePath returns the absolute source root of the package.
func (r Resolver) SourcePath(spec *domain.BuildSpec) string {
	return r.SandboxPath(spec.SourcePath)
}

// Trees returns the six store subtrees: global build, install, stage, then the local ones.
func (r Resolver) Trees() []string {
	trees := []string{domain.StoreBuildTree, domain.StoreInstallTree, domain.StoreStageTree}
	paths := make([]string, 0, 2*len(trees))
	for _, t := range trees {
		paths = append(paths, r.StorePath(t))
	}
	for _, t := range trees {
		paths = append(paths, r.LocalStorePath(t))
	}
	return paths
}

func join(root string, segments []string) string {
	return filepath.Join(append([]string{root}, segments...)...)
}
