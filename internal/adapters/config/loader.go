// Package config provides the sandbox lockfile loader for eject.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.SandboxLoader for YAML and TOML lockfiles.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Discover walks up from dir and returns the first lockfile found.
// Within one directory, names are tried in the order of domain.LockfileNames.
func (l *Loader) Discover(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "dir", dir)
	}

	for {
		for _, name := range domain.LockfileNames {
			candidate := filepath.Join(current, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached root
			break
		}
		current = parent
	}

	return "", zerr.With(domain.ErrConfigNotFound, "dir", dir)
}

// Load reads the lockfile at path and links its packages into a sandbox.
func (l *Loader) Load(path string) (*domain.Sandbox, error) {
	var lockfile Lockfile
	if err := readAndUnmarshal(path, &lockfile); err != nil {
		return nil, err
	}

	if lockfile.Root == "" {
		return nil, zerr.With(domain.ErrMissingRoot, "file", path)
	}

	// First pass: create every package so dependencies can be linked in any order.
	ids := make([]string, 0, len(lockfile.Packages))
	for id := range lockfile.Packages {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	packages := make(map[string]*domain.Package, len(ids))
	for _, id := range ids {
		spec, err := buildSpec(id, lockfile.Packages[id])
		if err != nil {
			return nil, zerr.With(err, "package", id)
		}
		packages[id] = &domain.Package{Spec: spec}
	}

	// Second pass: link dependencies in declaration order.
	for _, id := range ids {
		dto := lockfile.Packages[id]
		if dto == nil {
			continue
		}
		deps := make([]*domain.Package, 0, len(dto.Dependencies))
		for _, depID := range dto.Dependencies {
			dep, ok := packages[depID]
			if !ok {
				err := zerr.With(domain.ErrMissingDependency, "package", id)
				return nil, zerr.With(err, "missing_dependency", depID)
			}
			deps = append(deps, dep)
		}
		packages[id].Dependencies = deps
	}

	root, ok := packages[lockfile.Root]
	if !ok {
		err := zerr.With(domain.ErrMissingRoot, "root", lockfile.Root)
		return nil, zerr.With(err, "file", path)
	}

	l.warnUnreachable(root, packages)

	return &domain.Sandbox{Root: root}, nil
}

// warnUnreachable reports packages the root never depends on; they are not part of the plan.
func (l *Loader) warnUnreachable(root *domain.Package, packages map[string]*domain.Package) {
	reachable := make(map[string]bool, len(packages))
	stack := []*domain.Package{root}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[p.Spec.ID] {
			continue
		}
		reachable[p.Spec.ID] = true
		stack = append(stack, p.Dependencies...)
	}

	ids := make([]string, 0)
	for id := range packages {
		if !reachable[id] {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	for _, id := range ids {
		l.Logger.Warn(fmt.Sprintf("package %s is not reachable from the root and will not be built", id))
	}
}

func buildSpec(id string, dto *PackageDTO) (domain.BuildSpec, error) {
	if dto == nil {
		dto = &PackageDTO{}
	}

	buildType, err := domain.ParseBuildType(orDefault(dto.BuildType, string(domain.BuildTypeOutOfSource)))
	if err != nil {
		return domain.BuildSpec{}, err
	}

	sourceType, err := domain.ParseSourceType(orDefault(dto.SourceType, string(domain.SourceTypeImmutable)))
	if err != nil {
		return domain.BuildSpec{}, err
	}

	commands, err := parseCommands(dto.Command)
	if err != nil {
		return domain.BuildSpec{}, err
	}

	spec := domain.BuildSpec{
		ID:          id,
		Name:        dto.Name,
		Version:     dto.Version,
		SourcePath:  filepath.ToSlash(filepath.Clean("/" + dto.SourcePath))[1:],
		BuildType:   buildType,
		SourceType:  sourceType,
		Command:     commands,
		InstallPath: dto.InstallPath,
	}
	if err := spec.Validate(); err != nil {
		return domain.BuildSpec{}, err
	}
	return spec, nil
}

// parseCommands converts decoded build steps. A step is a shell line or a list of arguments.
func parseCommands(raw []any) ([]domain.Command, error) {
	commands := make([]domain.Command, 0, len(raw))
	for i, step := range raw {
		switch v := step.(type) {
		case string:
			commands = append(commands, domain.ShellCommand(v))
		case []any:
			args := make([]string, 0, len(v))
			for _, arg := range v {
				s, ok := arg.(string)
				if !ok {
					return nil, zerr.With(domain.ErrInvalidCommand, "step", i)
				}
				args = append(args, s)
			}
			if len(args) == 0 {
				return nil, zerr.With(domain.ErrInvalidCommand, "step", i)
			}
			commands = append(commands, domain.ArgvCommand(args...))
		default:
			return nil, zerr.With(domain.ErrInvalidCommand, "step", i)
		}
	}
	return commands, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// readAndUnmarshal reads a lockfile and decodes it according to its extension.
func readAndUnmarshal(path string, out *Lockfile) error {
	//nolint:gosec // path is provided by the caller or discovered from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", path)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	case ".toml":
		err = toml.Unmarshal(data, out)
	default:
		return zerr.With(domain.ErrUnsupportedFormat, "file", path)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", path)
	}
	return nil
}
