package domain

import (
	"path/filepath"
	"strings"
)

// Config carries the roots every generated path is anchored to.
// The roots are usually variable references resolved when the plan runs.
type Config struct {
	// SandboxPath is the directory of the root package.
	SandboxPath string
	// StorePath is the global, content-addressed store.
	StorePath string
	// PlanPath is the directory the plan is emitted into.
	PlanPath string
	// CI is passed through into every build environment; nil unsets it.
	CI *string
}

// DefaultConfig returns a Config whose roots are the shell variables exported by the plan.
func DefaultConfig() Config {
	return Config{
		SandboxPath: "$" + SandboxVar,
		StorePath:   "$" + StoreVar,
		PlanPath:    "$" + PlanRootVar,
	}
}

// WithCI returns a copy of the config passing value through as CI.
func (c Config) WithCI(value string) Config {
	c.CI = &value
	return c
}

// FinalInstallPath expands the spec's install path template for the given task ID.
func (c Config) FinalInstallPath(spec *BuildSpec, taskID string) string {
	tmpl := spec.InstallPath
	if tmpl == "" {
		tmpl = DefaultInstallPathTemplate
	}
	expanded := strings.NewReplacer(
		"%store%", c.StorePath,
		"%id%", taskID,
	).Replace(tmpl)
	return filepath.Clean(expanded)
}
