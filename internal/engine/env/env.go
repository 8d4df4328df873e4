// Package env renders ordered environment bindings as sourceable shell text.
package env

import (
	"strings"

	"go.trai.ch/eject/internal/core/domain"
)

// valueEscaper escapes the characters that are special inside a double quoted shell word.
// '$' is kept so that store and sandbox placeholders expand when the file is sourced.
var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"`", "\\`",
)

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"`", "\\`",
	"$", `\$`,
)

// Render produces one line per binding, in input order.
// Later bindings shadow earlier ones through sequential sourcing, so the order is significant.
func Render(env domain.Environment) string {
	var builder strings.Builder
	for _, b := range env {
		builder.WriteString(Line(b))
		builder.WriteByte('\n')
	}
	return builder.String()
}

// Line renders a single binding without a trailing newline.
func Line(b domain.Binding) string {
	if b.Op == domain.OpUnset {
		return "unset " + b.Name
	}
	if b.Literal {
		return "export " + b.Name + `="` + literalEscaper.Replace(b.Value) + `"`
	}
	return "export " + b.Name + `="` + Quote(b.Value) + `"`
}

// Quote escapes value for use inside double quotes.
func Quote(value string) string {
	return valueEscaper.Replace(value)
}
