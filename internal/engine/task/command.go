package task

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"go.trai.ch/eject/internal/core/domain"
)

// NoOpCommand is rendered for packages without build steps.
const NoOpCommand = "true"

// RenderCommand joins the build steps with "&&" so the sequence stops at the first failure.
// Argument vectors are shell quoted; raw lines are kept as written.
func RenderCommand(spec *domain.BuildSpec) string {
	if len(spec.Command) == 0 {
		return NoOpCommand
	}
	steps := make([]string, 0, len(spec.Command))
	for _, c := range spec.Command {
		if c.Args != nil {
			steps = append(steps, shellquote.Join(c.Args...))
			continue
		}
		steps = append(steps, c.Line)
	}
	return strings.Join(steps, " && ")
}
