// Package app implements the application layer for eject.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/eject/internal/adapters/watcher"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/core/ports"
	"go.trai.ch/eject/internal/engine/makefile"
	"go.trai.ch/eject/internal/engine/plan"
	"go.trai.ch/eject/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ciVar is passed through from the process environment into every build environment.
const ciVar = "CI"

// App represents the main application logic.
type App struct {
	loader    ports.SandboxLoader
	emitter   ports.Emitter
	logger    ports.Logger
	telemetry ports.Telemetry
	watcher   ports.Watcher

	lookupEnv func(string) (string, bool)
	getwd     func() (string, error)
	debounce  time.Duration
}

// New creates a new App instance.
func New(
	loader ports.SandboxLoader,
	emitter ports.Emitter,
	log ports.Logger,
	telemetry ports.Telemetry,
	w ports.Watcher,
) *App {
	return &App{
		loader:    loader,
		emitter:   emitter,
		logger:    log,
		telemetry: telemetry,
		watcher:   w,
		lookupEnv: os.LookupEnv,
		getwd:     os.Getwd,
		debounce:  watcher.DefaultDebounceWindow,
	}
}

// WithEnv replaces the process environment lookup. Used for testing.
func (a *App) WithEnv(lookup func(string) (string, bool)) *App {
	a.lookupEnv = lookup
	return a
}

// WithWorkingDir fixes the directory lockfile discovery starts from. Used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithDebounceWindow sets how long watch mode waits for the lockfile to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// EjectOptions configures one compilation.
type EjectOptions struct {
	// Sandbox is the lockfile path. When empty, the lockfile is discovered from the working directory.
	Sandbox string
	// Output is the plan directory. When empty, domain.DefaultOutputDir is used.
	Output string
}

// Result describes an emitted plan.
type Result struct {
	Lockfile string
	Output   string
	// RootID is the task ID of the sandbox root; it changes whenever anything in the plan does.
	RootID string
	Files  int
	// Unchanged is set in watch mode when the plan matched the previous one and nothing was written.
	Unchanged bool
}

// Eject loads the sandbox, compiles it and writes the plan.
func (a *App) Eject(ctx context.Context, opts EjectOptions) (*Result, error) {
	lockfile, output, err := a.resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	return a.eject(ctx, lockfile, output, "")
}

// Watch ejects once, then again every time the lockfile changes, until ctx is canceled.
// Failed runs are logged and watching continues. report receives every successful result.
func (a *App) Watch(ctx context.Context, opts EjectOptions, report func(*Result)) error {
	lockfile, output, err := a.resolvePaths(opts)
	if err != nil {
		return err
	}

	checkWatcher := func() {
		if err := a.watcher.Err(); err != nil {
			a.logger.Warn(fmt.Sprintf("lockfile watcher reported an error: %v", err))
		}
	}

	var last string
	run := func() {
		defer checkWatcher()
		res, err := a.eject(ctx, lockfile, output, last)
		if err != nil {
			a.logger.Error(err)
			return
		}
		last = res.RootID
		if report != nil {
			report(res)
		}
	}

	if err := a.watcher.Start(ctx, lockfile); err != nil {
		return zerr.Wrap(err, "failed to watch sandbox lockfile")
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to stop watcher: %v", err))
		}
	}()

	run()

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	stopped := make(chan struct{})

	g.Go(func() error {
		defer close(stopped)
		for ev := range a.watcher.Events() {
			a.logger.Debug("lockfile changed: " + ev.Path)
			debouncer.Add(ev.Path)
		}
		// The stream ended; a change still inside the debounce window is not dropped.
		debouncer.Flush()
		checkWatcher()
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-trigger:
				run()
			case <-stopped:
				select {
				case <-trigger:
					if ctx.Err() == nil {
						run()
					}
				default:
				}
				return nil
			}
		}
	})

	return g.Wait()
}

// DryRun compiles the sandbox without writing it and walks the build goal the way make
// would, one recipe at a time. report receives every target that has a recipe, each after
// all of its prerequisites.
func (a *App) DryRun(ctx context.Context, opts EjectOptions, report func(target string)) (*Result, error) {
	lockfile, output, err := a.resolvePaths(opts)
	if err != nil {
		return nil, err
	}

	p, err := a.compile(ctx, lockfile)
	if err != nil {
		return nil, err
	}

	goal, ok := p.Goal(plan.BuildTarget)
	if !ok {
		return nil, zerr.With(domain.ErrCompileFailed, "goal", plan.BuildTarget)
	}

	schedCtx, sched := a.telemetry.Record(ctx, "schedule "+plan.BuildTarget)
	s := scheduler.NewScheduler(func(_ context.Context, rule *makefile.Rule) error {
		if len(rule.Command) == 0 {
			return nil
		}
		_, _ = fmt.Fprintln(sched.Stdout(), rule.Target)
		if report != nil {
			report(rule.Target)
		}
		return nil
	})
	err = s.Run(schedCtx, []*makefile.Rule{goal}, 1)
	sched.Complete(err)
	if err != nil {
		return nil, err
	}

	return &Result{
		Lockfile: lockfile,
		Output:   output,
		RootID:   p.Root.ID,
		Files:    len(p.Files),
	}, nil
}

func (a *App) resolvePaths(opts EjectOptions) (lockfile, output string, err error) {
	lockfile = opts.Sandbox
	if lockfile == "" {
		cwd, err := a.getwd()
		if err != nil {
			return "", "", zerr.Wrap(err, domain.ErrConfigNotFound.Error())
		}
		if lockfile, err = a.loader.Discover(cwd); err != nil {
			return "", "", err
		}
	}

	output = opts.Output
	if output == "" {
		output = domain.DefaultOutputDir
	}
	if !filepath.IsAbs(output) {
		cwd, err := a.getwd()
		if err != nil {
			return "", "", zerr.Wrap(err, domain.ErrEmitFailed.Error())
		}
		output = filepath.Join(cwd, output)
	}

	return lockfile, output, nil
}

// compile runs the load and compile phases.
func (a *App) compile(ctx context.Context, lockfile string) (*plan.Plan, error) {
	_, load := a.telemetry.Record(ctx, "load "+filepath.Base(lockfile))
	sb, err := a.loader.Load(lockfile)
	load.Complete(err)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load sandbox")
	}

	cfg := domain.DefaultConfig()
	if ci, ok := a.lookupEnv(ciVar); ok {
		cfg = cfg.WithCI(ci)
	}

	_, compile := a.telemetry.Record(ctx, "compile")
	p, err := plan.Compile(sb, cfg)
	compile.Complete(err)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(compile.Stdout(), "%s: %d files\n", p.Root.ID, len(p.Files))
	a.logger.Debug(fmt.Sprintf("compiled %s into %d files", p.Root.ID, len(p.Files)))

	return p, nil
}

// eject runs the load, compile and emit phases. Emission is skipped when the compiled
// root task ID equals previous.
func (a *App) eject(ctx context.Context, lockfile, output, previous string) (*Result, error) {
	p, err := a.compile(ctx, lockfile)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Lockfile: lockfile,
		Output:   output,
		RootID:   p.Root.ID,
		Files:    len(p.Files),
	}

	emitCtx, emit := a.telemetry.Record(ctx, "emit "+output)
	if previous != "" && previous == p.Root.ID {
		emit.Cached()
		emit.Complete(nil)
		res.Unchanged = true
		return res, nil
	}

	err = a.emitter.Emit(emitCtx, output, p.Files)
	emit.Complete(err)
	if err != nil {
		return nil, err
	}

	return res, nil
}
