// Package sandbox renders macOS sandbox-exec profiles for package builds.
package sandbox

import (
	"strings"

	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/store"
)

// Options configures a profile.
type Options struct {
	// AllowFileWrite lists extra paths the build may write to, such as temp directories.
	AllowFileWrite []string
}

// RenderProfile returns a profile template that denies writes everywhere except the task's
// build, stage and install paths plus opts.AllowFileWrite.
// Paths are resolved through r and may contain placeholders substituted at build time.
func RenderProfile(t *domain.BuildTask, r store.Resolver, opts Options) string {
	var builder strings.Builder

	builder.WriteString("(version 1.0)\n")
	builder.WriteString("(allow default)\n\n")
	builder.WriteString("(deny file-write*\n")
	builder.WriteString("  (subpath \"/\"))\n\n")

	builder.WriteString("(allow file-write*\n")
	builder.WriteString("  (literal \"/dev/null\")\n")
	writeSubpath(&builder, "esy_build__build_root", r.BuildPath(&t.Spec, t.ID))
	writeSubpath(&builder, "esy_build__stage", r.StagePath(&t.Spec, t.ID))
	writeSubpath(&builder, "esy_build__install", r.InstallPath(&t.Spec, t.ID))
	builder.WriteString(")\n")

	if len(opts.AllowFileWrite) > 0 {
		builder.WriteString("\n(allow file-write*\n")
		for _, p := range opts.AllowFileWrite {
			builder.WriteString("  (subpath " + quote(p) + ")\n")
		}
		builder.WriteString(")\n")
	}

	return builder.String()
}

func writeSubpath(builder *strings.Builder, label, path string) {
	builder.WriteString("\n  ; " + label + "\n  (subpath " + quote(path) + ")\n")
}

// SBPL strings only know the backslash and double quote escapes; anything else is kept as is.
var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}
