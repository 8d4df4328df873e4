package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/eject/internal/app"
	"go.trai.ch/eject/internal/ui/style"
)

func (c *CLI) runEject(cmd *cobra.Command, _ []string) error {
	sandbox, _ := cmd.Flags().GetString("sandbox")
	output, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts := app.EjectOptions{Sandbox: sandbox, Output: output}
	out := cmd.OutOrStdout()

	if dryRun {
		return c.dryRun(cmd, opts)
	}

	if watch {
		return c.app.Watch(cmd.Context(), opts, func(res *app.Result) {
			printResult(out, res)
		})
	}

	res, err := c.app.Eject(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func (c *CLI) dryRun(cmd *cobra.Command, opts app.EjectOptions) error {
	out := cmd.OutOrStdout()
	muted := style.Renderer(out).NewStyle().Foreground(style.Slate)

	recipes := 0
	res, err := c.app.DryRun(cmd.Context(), opts, func(target string) {
		recipes++
		_, _ = fmt.Fprintln(out, muted.Render(style.Dot)+" "+target)
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s %s\n",
		muted.Render(fmt.Sprintf("%d recipes, nothing written to %s", recipes, res.Output)),
		muted.Render(res.RootID),
	)
	return nil
}

func printResult(w io.Writer, res *app.Result) {
	r := style.Renderer(w)
	muted := r.NewStyle().Foreground(style.Slate)

	if res.Unchanged {
		_, _ = fmt.Fprintf(w, "%s %s\n",
			muted.Render(style.Dot+" plan unchanged"),
			muted.Render(res.RootID),
		)
		return
	}

	success := r.NewStyle().Foreground(style.Green)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		success.Render(fmt.Sprintf("%s wrote %d files to %s", style.Check, res.Files, res.Output)),
		muted.Render(res.RootID),
	)
}
