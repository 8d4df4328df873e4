package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/eject/cmd/eject/commands"
	"go.trai.ch/eject/internal/app"
	"go.trai.ch/eject/internal/build"
)

type mockApp struct {
	ejectFunc  func(ctx context.Context, opts app.EjectOptions) (*app.Result, error)
	watchFunc  func(ctx context.Context, opts app.EjectOptions, report func(*app.Result)) error
	dryRunFunc func(ctx context.Context, opts app.EjectOptions, report func(string)) (*app.Result, error)
}

func (m *mockApp) Eject(ctx context.Context, opts app.EjectOptions) (*app.Result, error) {
	if m.ejectFunc != nil {
		return m.ejectFunc(ctx, opts)
	}
	return &app.Result{}, nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.EjectOptions, report func(*app.Result)) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts, report)
	}
	return nil
}

func (m *mockApp) DryRun(ctx context.Context, opts app.EjectOptions, report func(string)) (*app.Result, error) {
	if m.dryRunFunc != nil {
		return m.dryRunFunc(ctx, opts, report)
	}
	return &app.Result{}, nil
}

type logConfig struct {
	verbose bool
	json    bool
}

func (l *logConfig) SetVerbose(enable bool) { l.verbose = enable }
func (l *logConfig) SetJSON(enable bool)    { l.json = enable }

func TestCommands_Eject(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.EjectOptions
		mock := &mockApp{
			ejectFunc: func(_ context.Context, opts app.EjectOptions) (*app.Result, error) {
				captured = opts
				return &app.Result{Output: "/work/plan", RootID: "root-0123456789abcdef", Files: 12}, nil
			},
		}

		out := new(bytes.Buffer)
		cli := commands.New(mock)
		cli.SetArgs([]string{"--sandbox", "/work/sandbox.yaml", "-o", "plan"})
		cli.SetOutput(out, new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.EjectOptions{Sandbox: "/work/sandbox.yaml", Output: "plan"}, captured)
		assert.Equal(t, "✓ wrote 12 files to /work/plan root-0123456789abcdef\n", out.String())
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.EjectOptions
		mock := &mockApp{
			ejectFunc: func(_ context.Context, opts app.EjectOptions) (*app.Result, error) {
				captured = opts
				return &app.Result{}, nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.EjectOptions{Output: "_eject"}, captured)
	})

	t.Run("returns error on eject failure", func(t *testing.T) {
		mock := &mockApp{
			ejectFunc: func(_ context.Context, _ app.EjectOptions) (*app.Result, error) {
				return nil, errors.New("simulated error")
			},
		}

		out := new(bytes.Buffer)
		cli := commands.New(mock)
		cli.SetArgs([]string{})
		cli.SetOutput(out, new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
		assert.Empty(t, out.String())
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		mock := &mockApp{
			ejectFunc: func(_ context.Context, _ app.EjectOptions) (*app.Result, error) {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"sandbox.yaml"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Watch(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var captured app.EjectOptions
	mock := &mockApp{
		ejectFunc: func(_ context.Context, _ app.EjectOptions) (*app.Result, error) {
			panic("should not be called")
		},
		watchFunc: func(_ context.Context, opts app.EjectOptions, report func(*app.Result)) error {
			captured = opts
			report(&app.Result{Output: "/work/_eject", RootID: "root-aaaaaaaaaaaaaaaa", Files: 3})
			report(&app.Result{Output: "/work/_eject", RootID: "root-aaaaaaaaaaaaaaaa", Files: 3, Unchanged: true})
			return nil
		},
	}

	out := new(bytes.Buffer)
	cli := commands.New(mock)
	cli.SetArgs([]string{"-w", "-s", "sandbox.toml"})
	cli.SetOutput(out, new(bytes.Buffer))

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.EjectOptions{Sandbox: "sandbox.toml", Output: "_eject"}, captured)
	assert.Equal(t,
		"✓ wrote 3 files to /work/_eject root-aaaaaaaaaaaaaaaa\n"+
			"· plan unchanged root-aaaaaaaaaaaaaaaa\n",
		out.String(),
	)
}

func TestCommands_DryRun(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	t.Run("prints recipes in order", func(t *testing.T) {
		mock := &mockApp{
			ejectFunc: func(_ context.Context, _ app.EjectOptions) (*app.Result, error) {
				panic("should not be called")
			},
			dryRunFunc: func(_ context.Context, _ app.EjectOptions, report func(string)) (*app.Result, error) {
				report("dep.sandbox/node_modules/dep.build")
				report("root.sandbox.build")
				return &app.Result{Output: "/work/_eject", RootID: "root-bbbbbbbbbbbbbbbb"}, nil
			},
		}

		out := new(bytes.Buffer)
		cli := commands.New(mock)
		cli.SetArgs([]string{"--dry-run"})
		cli.SetOutput(out, new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t,
			"· dep.sandbox/node_modules/dep.build\n"+
				"· root.sandbox.build\n"+
				"2 recipes, nothing written to /work/_eject root-bbbbbbbbbbbbbbbb\n",
			out.String(),
		)
	})

	t.Run("conflicts with watch", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetArgs([]string{"-n", "-w"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_LoggerFlags(t *testing.T) {
	t.Run("applies verbose and json", func(t *testing.T) {
		log := &logConfig{}
		cli := commands.New(&mockApp{}).WithLogger(log)
		cli.SetArgs([]string{"--verbose", "--json"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, log.verbose)
		assert.True(t, log.json)
	})

	t.Run("defaults to quiet text logs", func(t *testing.T) {
		log := &logConfig{verbose: true, json: true}
		cli := commands.New(&mockApp{}).WithLogger(log)
		cli.SetArgs([]string{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.False(t, log.verbose)
		assert.False(t, log.json)
	})
}

func TestCommands_Version(t *testing.T) {
	t.Run("subcommand", func(t *testing.T) {
		out := new(bytes.Buffer)
		cli := commands.New(&mockApp{})
		cli.SetArgs([]string{"version"})
		cli.SetOutput(out, new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "eject version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out.String())
	})

	t.Run("flag", func(t *testing.T) {
		out := new(bytes.Buffer)
		cli := commands.New(&mockApp{})
		cli.SetArgs([]string{"--version"})
		cli.SetOutput(out, new(bytes.Buffer))

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, out.String(), "eject version "+build.Version)
	})
}
