package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// BuildType describes where a package build writes its intermediate artifacts.
type BuildType string

const (
	// BuildTypeOutOfSource builds into a separate build tree, leaving sources untouched.
	BuildTypeOutOfSource BuildType = "out-of-source"
	// BuildTypeInSource builds inside a copy of the source tree.
	BuildTypeInSource BuildType = "in-source"
	// BuildTypeRoot builds inside the sandbox root itself.
	BuildTypeRoot BuildType = "_root_"
)

// ParseBuildType validates a build type read from a lockfile.
func ParseBuildType(s string) (BuildType, error) {
	switch bt := BuildType(s); bt {
	case BuildTypeOutOfSource, BuildTypeInSource, BuildTypeRoot:
		return bt, nil
	default:
		return "", zerr.With(ErrInvalidBuildType, "build_type", s)
	}
}

// SourceType describes whether a package's sources may change between builds.
type SourceType string

const (
	// SourceTypeImmutable marks sources fetched from a registry.
	SourceTypeImmutable SourceType = "immutable"
	// SourceTypeMutable marks linked sources that may change at any time.
	SourceTypeMutable SourceType = "mutable"
	// SourceTypeRoot marks the sandbox root package.
	SourceTypeRoot SourceType = "root"
)

// ParseSourceType validates a source type read from a lockfile.
func ParseSourceType(s string) (SourceType, error) {
	switch st := SourceType(s); st {
	case SourceTypeImmutable, SourceTypeMutable, SourceTypeRoot:
		return st, nil
	default:
		return "", zerr.With(ErrInvalidSourceType, "source_type", s)
	}
}

// Command is a single build step.
// It is either a raw shell line or an argument vector that needs quoting.
type Command struct {
	Line string
	Args []string
}

// ShellCommand creates a Command from a raw shell line.
func ShellCommand(line string) Command {
	return Command{Line: line}
}

// ArgvCommand creates a Command from an argument vector.
func ArgvCommand(args ...string) Command {
	return Command{Args: args}
}

// BuildSpec is the immutable, resolved description of how to build one package.
type BuildSpec struct {
	// ID uniquely identifies the package within the sandbox (e.g. "pkg@1.0.0").
	ID string
	// Name is the package name. When empty, it is derived from ID.
	Name string
	// Version is the resolved package version.
	Version string
	// SourcePath is relative to the sandbox root; empty for the sandbox itself.
	SourcePath string
	BuildType  BuildType
	SourceType SourceType
	// Command is the ordered list of build steps.
	Command []Command
	// InstallPath is a template for the final install location.
	// It understands %store% and %id% and defaults to DefaultInstallPathTemplate.
	InstallPath string
}

// PackageName returns the package name, falling back to the ID without its version suffix.
func (s *BuildSpec) PackageName() string {
	if s.Name != "" {
		return s.Name
	}
	// Keep a leading '@' of scoped names.
	for i := len(s.ID) - 1; i > 0; i-- {
		if s.ID[i] == '@' {
			return s.ID[:i]
		}
	}
	return s.ID
}

const (
	// shellUnsafe would expand or break out of a double quoted shell value.
	shellUnsafe = "$`\"\\\n"
	// makeUnsafe would split or pattern match a make target.
	makeUnsafe = " \t:#%;=\r"
)

// Validate rejects paths that cannot be embedded in the generated environment and Makefile.
// Both paths end up inside double quoted shell values; the source path is also part of make targets.
func (s *BuildSpec) Validate() error {
	if strings.ContainsAny(s.SourcePath, shellUnsafe+makeUnsafe) {
		return unsafePath(s.ID, "source_path", s.SourcePath)
	}
	if strings.ContainsAny(s.InstallPath, shellUnsafe) {
		return unsafePath(s.ID, "install_path", s.InstallPath)
	}
	return nil
}

func unsafePath(id, field, path string) error {
	err := zerr.With(ErrUnsafePath, "package", id)
	err = zerr.With(err, "field", field)
	return zerr.With(err, "path", path)
}

// Package is a node of the resolved dependency graph.
type Package struct {
	Spec         BuildSpec
	Dependencies []*Package
}

// FoldKey identifies a package by its spec ID.
func (p *Package) FoldKey() string {
	return p.Spec.ID
}

// FoldDeps returns the direct dependencies in declaration order.
func (p *Package) FoldDeps() []*Package {
	return p.Dependencies
}

// Sandbox is the resolved project plus its full dependency graph.
type Sandbox struct {
	Root *Package
}
