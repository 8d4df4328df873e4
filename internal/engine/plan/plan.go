// Package plan compiles a sandbox into a Makefile-based build plan and its supporting files.
package plan

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/env"
	"go.trai.ch/eject/internal/engine/makefile"
	"go.trai.ch/eject/internal/engine/sandbox"
	"go.trai.ch/eject/internal/engine/store"
	"go.trai.ch/eject/internal/engine/task"
	"go.trai.ch/zerr"
)

const (
	sandboxEnvName   = "shell_env_sandbox"
	packageEnvPrefix = "shell_env_for__"

	// Top-level targets.
	BuildTarget      = "build"
	BuildShellTarget = "build-shell"
	CleanTarget      = "clean"
	BootstrapTarget  = "bootstrap"
	StoreTarget      = "esy-store"
	RootTarget       = "esy-root"
)

// Plan is the compiled build plan.
type Plan struct {
	// Root is the task of the sandbox's root package.
	Root *domain.BuildTask
	// Files holds every artifact, the Makefile included, sorted by path.
	Files []domain.File

	goals map[string]*makefile.Rule
}

// Goal returns the top-level rule named target: build, build-shell or clean.
func (p *Plan) Goal(target string) (*makefile.Rule, bool) {
	r, ok := p.goals[target]
	return r, ok
}

// File returns the file at the given path.
func (p *Plan) File(segments ...string) (domain.File, bool) {
	want := path.Join(segments...)
	for _, f := range p.Files {
		if path.Join(f.Path...) == want {
			return f, true
		}
	}
	return domain.File{}, false
}

// packageRules are the rules the fold yields for one task.
type packageRules struct {
	build, shell, clean *makefile.Rule
	// shells holds the shell rules of every transitive dependency, so that rendering the
	// group reaches every package rule.
	shells *makefile.Group
}

// builder accumulates files and install paths over one compile.
type builder struct {
	cfg domain.Config
	// mk resolves paths used as Makefile targets; sh resolves paths inside generated files.
	mk, sh store.Resolver

	files        []domain.File
	seen         map[string]struct{}
	installPaths []string
	// targets maps each package target name to the package that owns it.
	targets map[string]string

	esyRoot   *makefile.Rule
	esyStore  *makefile.Rule
	bootstrap *makefile.Rule
	goals     map[string]*makefile.Rule
}

// Compile derives the build tasks of sandbox and renders the plan.
// cfg supplies the roots written into generated files and the CI pass-through.
func Compile(sb *domain.Sandbox, cfg domain.Config) (*Plan, error) {
	root, err := task.FromSandbox(sb, cfg)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompileFailed.Error())
	}

	b := newBuilder(cfg)

	rules, err := domain.Fold(root, b.visit)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompileFailed.Error())
	}

	if err := b.finish(sb, rules); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompileFailed.Error())
	}

	slices.SortFunc(b.files, func(x, y domain.File) int {
		return strings.Compare(path.Join(x.Path...), path.Join(y.Path...))
	})

	return &Plan{Root: root, Files: b.files, goals: b.goals}, nil
}

func newBuilder(cfg domain.Config) *builder {
	b := &builder{
		cfg:  cfg,
		mk:   store.MakeVars(),
		sh:   store.New(cfg),
		seen:    make(map[string]struct{}),
		targets: make(map[string]string),
	}

	b.esyRoot = &makefile.Rule{
		Target: RootTarget,
		Phony:  true,
		Dependencies: []makefile.Item{
			b.compileRule("realpath", "realpath.c", "@gcc -o $(@) -x c $(<) 2> /dev/null"),
			b.compileRule("fastreplacestring.exe", "fastreplacestring.cpp", "@g++ -Ofast -o $(@) $(<) 2> /dev/null"),
		},
	}

	trees := b.mk.Trees()
	mkdirs := make([]makefile.Item, 0, len(trees))
	for _, tree := range trees {
		mkdirs = append(mkdirs, &makefile.Rule{Target: tree, Command: []string{"@mkdir -p $(@)"}})
	}
	b.esyStore = &makefile.Rule{Target: StoreTarget, Phony: true, Dependencies: mkdirs}

	b.bootstrap = &makefile.Rule{
		Target: BootstrapTarget,
		Phony:  true,
		Dependencies: []makefile.Item{
			b.metadataRule("final-install-path-set.txt"),
			b.metadataRule("store-path.txt"),
			&makefile.Define{Name: sandboxEnvName, Lines: envLines(b.sandboxEnv())},
			b.esyRoot,
			b.esyStore,
		},
	}

	return b
}

func (b *builder) compileRule(target, source, command string) *makefile.Rule {
	return &makefile.Rule{
		Target:       b.mk.PlanPath(domain.BinDirName, target),
		Dependencies: []makefile.Item{makefile.File(b.mk.PlanPath(domain.BinDirName, source))},
		Shell:        "/bin/bash",
		Command:      []string{command},
	}
}

func (b *builder) metadataRule(name string) *makefile.Rule {
	return b.substitutionRule(
		b.mk.PlanPath(domain.RecordsDirName, name+domain.TemplateSuffix),
		b.mk.PlanPath(domain.RecordsDirName, name),
	)
}

// visit emits the files and rules of one task. The fold guarantees every dependency was
// visited first and that a shared task is visited once.
func (b *builder) visit(direct, all []*packageRules, t *domain.BuildTask) (*packageRules, error) {
	name := TargetName(&t.Spec)
	if owner, ok := b.targets[name]; ok {
		err := zerr.With(domain.ErrDuplicateTarget, "target", name)
		err = zerr.With(err, "package", t.Spec.ID)
		return nil, zerr.With(err, "other_package", owner)
	}
	b.targets[name] = t.Spec.ID

	pkgDir := []string{domain.PackagesDirName, t.ID}

	if err := b.addFile(domain.File{
		Path:     append(slices.Clone(pkgDir), domain.EnvFileName),
		Contents: env.Render(t.Env),
	}); err != nil {
		return nil, err
	}

	profile := sandbox.RenderProfile(t, b.sh, sandbox.Options{
		AllowFileWrite: []string{"$TMPDIR", "$TMPDIR_GLOBAL"},
	})
	if err := b.addTemplate(domain.File{
		Path:     append(slices.Clone(pkgDir), domain.SandboxProfileTemplateName),
		Contents: profile,
	}); err != nil {
		return nil, err
	}

	define := b.packageDefine(t)
	profileRule := b.substitutionRule(
		b.mk.PlanPath(append(slices.Clone(pkgDir), domain.SandboxProfileTemplateName)...),
		b.mk.PlanPath(append(slices.Clone(pkgDir), domain.SandboxProfileName)...),
	)

	buildDeps := []makefile.Item{b.bootstrap, define, profileRule}
	cleanDeps := []makefile.Item{b.bootstrap}
	for _, dep := range direct {
		buildDeps = append(buildDeps, dep.build)
		cleanDeps = append(cleanDeps, dep.clean)
	}

	shells := make([]makefile.Item, 0, len(all))
	for _, dep := range all {
		shells = append(shells, dep.shell)
	}

	b.installPaths = append(b.installPaths, b.sh.InstallPath(&t.Spec, t.ID))

	return &packageRules{
		build: &makefile.Rule{
			Target:       name + ".build",
			Dependencies: buildDeps,
			Phony:        true,
			Command:      []string{packageRecipe(define.Name, "esy-build", b.mk)},
		},
		shell: &makefile.Rule{
			Target:       name + ".shell",
			Dependencies: buildDeps,
			Phony:        true,
			Command:      []string{packageRecipe(define.Name, "esy-shell", b.mk)},
		},
		clean: &makefile.Rule{
			Target:       name + ".clean",
			Dependencies: cleanDeps,
			Phony:        true,
			Command:      []string{"@rm -f " + profileRule.Target},
		},
		shells: makefile.NewGroup(shells...),
	}, nil
}

// packageDefine holds the global bindings, the package's env file and its package bindings.
// Package bindings are escaped for make so that they expand in the recipe shell.
func (b *builder) packageDefine(t *domain.BuildTask) *makefile.Define {
	lines := envLines(b.globalEnv())
	lines = append(lines, "source "+b.mk.PlanPath(domain.PackagesDirName, t.ID, domain.EnvFileName))

	bindings := task.PackageBindings(&t.Spec, t.ID, nil, b.sh, task.RenderCommand(&t.Spec)).Without("PATH")
	for _, bnd := range bindings {
		lines = append(lines, escapeMake(env.Line(bnd)))
	}

	return &makefile.Define{Name: DefineName(t.ID), Lines: lines}
}

// finish aggregates the root rules and adds the Makefile, the metadata templates,
// the interactive environment and the static helpers.
func (b *builder) finish(sb *domain.Sandbox, root *packageRules) error {
	clean := &makefile.Rule{
		Target:       CleanTarget,
		Phony:        true,
		Dependencies: []makefile.Item{root.clean},
		Command: []string{
			"rm -f " + b.mk.SandboxPath(domain.BuildTreeSymlink),
			"rm -f " + b.mk.SandboxPath(domain.InstallTreeSymlink),
		},
	}

	build := &makefile.Rule{Target: BuildTarget, Phony: true, Dependencies: []makefile.Item{root.build}}
	buildShell := &makefile.Rule{Target: BuildShellTarget, Phony: true, Dependencies: []makefile.Item{root.shell}}
	b.goals = map[string]*makefile.Rule{
		BuildTarget:      build,
		BuildShellTarget: buildShell,
		CleanTarget:      clean,
	}

	items := []makefile.Item{
		&makefile.Raw{Line: "SHELL := " + task.Shell},
		&makefile.Raw{Line: domain.PlanRootVar + " := $(dir $(realpath $(lastword $(MAKEFILE_LIST))))"},
		&makefile.Raw{Line: domain.PrefixVar + " ?= " + domain.DefaultStorePrefix},
		&makefile.Raw{Line: domain.StoreVar + " = $(shell " + b.mk.PlanPath(domain.BinDirName, "get-store-path") + " $(" + domain.PrefixVar + "))"},
		&makefile.Raw{Line: domain.SandboxVar + " ?= $(CURDIR)"},
		&makefile.Raw{},
		build,
		buildShell,
		clean,
		root.shells,
	}

	contents, err := makefile.Render(items...)
	if err != nil {
		return err
	}
	if err := b.addFile(domain.File{Path: []string{domain.PlanFileName}, Contents: contents}); err != nil {
		return err
	}

	if err := b.addTemplate(domain.File{
		Path:     []string{domain.RecordsDirName, "final-install-path-set.txt" + domain.TemplateSuffix},
		Contents: strings.Join(b.installPaths, "\n") + "\n",
	}); err != nil {
		return err
	}
	if err := b.addTemplate(domain.File{
		Path:     []string{domain.RecordsDirName, "store-path.txt" + domain.TemplateSuffix},
		Contents: "$" + domain.StoreVar + "\n",
	}); err != nil {
		return err
	}

	commandEnv, err := b.commandEnv(sb)
	if err != nil {
		return err
	}
	if err := b.addFile(commandEnv); err != nil {
		return err
	}

	for _, f := range staticFiles() {
		if err := b.addFile(f); err != nil {
			return err
		}
	}
	return nil
}

// commandEnv renders the standalone interactive environment of the root package.
// It exposes the root's own bin directory and leaves SHELL alone.
func (b *builder) commandEnv(sb *domain.Sandbox) (domain.File, error) {
	root, err := task.FromSandbox(sb, b.cfg, task.WithExposeOwnPath())
	if err != nil {
		return domain.File{}, err
	}

	var builder strings.Builder
	builder.WriteString(storeUtil())
	builder.WriteString("\n")
	builder.WriteString("if [ -z ${" + domain.StoreVar + "+x} ]; then\n")
	builder.WriteString("  export " + domain.StoreVar + "=$(esyGetStorePathFromPrefix \"$HOME/.esy\")\n")
	builder.WriteString("fi\n")
	builder.WriteString("if [ -z ${" + domain.SandboxVar + "+x} ]; then\n")
	builder.WriteString("  export " + domain.SandboxVar + "=\"$PWD\"\n")
	builder.WriteString("fi\n")
	builder.WriteString("if [ -z ${" + domain.PlanRootVar + "+x} ]; then\n")
	builder.WriteString("  export " + domain.PlanRootVar + "=\"$(cd \"$(dirname \"${BASH_SOURCE[0]}\")\" && pwd)\"\n")
	builder.WriteString("fi\n\n")
	builder.WriteString(env.Render(root.Env.Without("SHELL")))

	return domain.File{Path: []string{domain.CommandEnvFileName}, Contents: builder.String()}, nil
}

func (b *builder) addTemplate(f domain.File) error {
	if err := checkTemplate(path.Join(f.Path...), f.Contents); err != nil {
		return err
	}
	return b.addFile(f)
}

func (b *builder) addFile(f domain.File) error {
	key := path.Join(f.Path...)
	if _, ok := b.seen[key]; ok {
		return zerr.With(domain.ErrDuplicateFile, "path", key)
	}
	b.seen[key] = struct{}{}
	b.files = append(b.files, f)
	return nil
}

// globalEnv is the environment every package recipe starts from, in Makefile terms.
func (b *builder) globalEnv() domain.Environment {
	return domain.Environment{
		ciBinding(b.cfg),
		domain.Set("TMPDIR", "$(TMPDIR)"),
		domain.Set(domain.StoreVar, b.mk.StorePath()),
		domain.Set(domain.SandboxVar, b.mk.SandboxPath()),
		domain.Set(domain.PlanRootVar, b.mk.PlanPath()),
	}
}

// sandboxEnv is the environment template substitution runs in.
func (b *builder) sandboxEnv() domain.Environment {
	return domain.Environment{
		ciBinding(b.cfg),
		domain.Set("TMPDIR", "$(TMPDIR)"),
		domain.Set(domain.PrefixVar, "$("+domain.PrefixVar+")"),
		domain.Set(domain.StoreVar, b.mk.StorePath()),
		domain.Set(domain.SandboxVar, b.mk.SandboxPath()),
		domain.Set(domain.PlanRootVar, b.mk.PlanPath()),
	}
}

func ciBinding(cfg domain.Config) domain.Binding {
	if cfg.CI != nil {
		return domain.SetLiteral("CI", *cfg.CI)
	}
	return domain.Unset("CI")
}

// envLines renders bindings inside a Makefile define.
// Set values are meant to expand make variables; literal values must survive make untouched.
func envLines(e domain.Environment) []string {
	lines := make([]string, 0, len(e))
	for _, bnd := range e {
		line := env.Line(bnd)
		if bnd.Literal {
			line = escapeMake(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func escapeMake(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// packageRecipe sources the package environment and the runtime, then runs entry in the source root.
func packageRecipe(defineName, entry string, mk store.Resolver) string {
	return "@$(" + defineName + ") source " + mk.PlanPath(domain.BinDirName, "runtime.sh") + "; \\\n" +
		"cd \"$$esy_build__source_root\"; \\\n" +
		entry
}

// TargetName namespaces a package's targets by its normalized name and its location in the sandbox.
func TargetName(spec *domain.BuildSpec) string {
	location := "sandbox"
	if spec.SourcePath != "" {
		location += "/" + filepath.ToSlash(filepath.Clean(spec.SourcePath))
	}
	return task.NormalizeName(spec.PackageName()) + "." + location
}

// DefineName is the Makefile variable holding a task's environment.
func DefineName(taskID string) string {
	return packageEnvPrefix + strings.ReplaceAll(taskID, "-", "_")
}
