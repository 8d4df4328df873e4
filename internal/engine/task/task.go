// Package task derives content-addressed build tasks from a resolved sandbox.
package task

import (
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/store"
	"go.trai.ch/zerr"
)

type options struct {
	exposeOwnPath bool
}

// Option configures FromSandbox.
type Option func(*options)

// WithExposeOwnPath prepends every task's own bin directory to PATH.
// It is meant for the interactive environment, never for package builds.
func WithExposeOwnPath() Option {
	return func(o *options) {
		o.exposeOwnPath = true
	}
}

// FromSandbox folds the sandbox graph into a DAG of build tasks and returns the root task.
// A package reachable through several parents becomes a single task.
func FromSandbox(sandbox *domain.Sandbox, cfg domain.Config, opts ...Option) (*domain.BuildTask, error) {
	if sandbox == nil || sandbox.Root == nil {
		return nil, domain.ErrNoSandbox
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := store.New(cfg)
	base := BaseBindings(cfg)
	owners := make(map[string]string)

	return domain.Fold(sandbox.Root, func(direct, all []*domain.BuildTask, pkg *domain.Package) (*domain.BuildTask, error) {
		spec := pkg.Spec
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		command := RenderCommand(&spec)

		id := idFunc(&spec, base, specBindings(&spec, all, r, command), direct)
		if owner, ok := owners[id]; ok && owner != spec.ID {
			err := zerr.With(domain.ErrTaskIDCollision, "task_id", id)
			err = zerr.With(err, "package", spec.ID)
			return nil, zerr.With(err, "other_package", owner)
		}
		owners[id] = spec.ID

		env := make(domain.Environment, 0, len(base)+16)
		env = append(env, base...)
		env = append(env, PackageBindings(&spec, id, all, r, command)...)
		if o.exposeOwnPath {
			env = append(env, domain.Set("PATH", binDir(r, &spec, id)+":$PATH"))
		}

		return &domain.BuildTask{
			ID:           id,
			Spec:         spec,
			Env:          env,
			Dependencies: direct,
		}, nil
	})
}
