package task

import (
	"strings"

	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/store"
)

// Shell is the interpreter every recipe runs under.
const Shell = "env -i /bin/bash --norc --noprofile"

// BaseBindings returns the variables passed through into every build environment.
func BaseBindings(cfg domain.Config) domain.Environment {
	ci := domain.Unset("CI")
	if cfg.CI != nil {
		ci = domain.SetLiteral("CI", *cfg.CI)
	}
	return domain.Environment{
		ci,
		domain.Set("TMPDIR", "$TMPDIR"),
		domain.Set(domain.StoreVar, cfg.StorePath),
		domain.Set(domain.SandboxVar, cfg.SandboxPath),
		domain.Set(domain.PlanRootVar, cfg.PlanPath),
		domain.Set("SHELL", Shell),
	}
}

// PackageBindings returns the variables describing one package build.
// deps is the transitive dependency closure; command is the already rendered build command.
func PackageBindings(
	spec *domain.BuildSpec,
	id string,
	deps []*domain.BuildTask,
	r store.Resolver,
	command string,
) domain.Environment {
	env := domain.Environment{
		domain.Set("esy_build__eject", r.PlanPath(domain.PackagesDirName, id)),
		domain.Set("esy_build__key", id),
		domain.Set("esy_build__install", r.InstallPath(spec, id)),
		domain.Set("esy_build__build_root", r.BuildPath(spec, id)),
		domain.Set("esy_build__stage", r.StagePath(spec, id)),
	}
	return append(env, specBindings(spec, deps, r, command)...)
}

// specBindings are the package bindings that do not depend on the task's own ID.
// They take part in computing it.
func specBindings(spec *domain.BuildSpec, deps []*domain.BuildTask, r store.Resolver, command string) domain.Environment {
	return domain.Environment{
		domain.Set("esy_build__type", string(spec.BuildType)),
		domain.Set("esy_build__source_type", string(spec.SourceType)),
		domain.SetLiteral("esy_build__command", command),
		domain.Set("esy_build__source_root", r.SourcePath(spec)),
		domain.Set("PATH", dependencyPath(deps, r)),
	}
}

// dependencyPath puts the bin directory of every dependency on PATH, in closure order.
func dependencyPath(deps []*domain.BuildTask, r store.Resolver) string {
	dirs := make([]string, 0, len(deps)+1)
	for _, dep := range deps {
		dirs = append(dirs, binDir(r, &dep.Spec, dep.ID))
	}
	dirs = append(dirs, "$PATH")
	return strings.Join(dirs, ":")
}

func binDir(r store.Resolver, spec *domain.BuildSpec, id string) string {
	return r.InstallPath(spec, id) + "/" + domain.BinDirName
}
