package plan

import (
	"regexp"
	"slices"

	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/makefile"
	"go.trai.ch/zerr"
)

// placeholders are the tokens bin/render-env replaces. $TMPDIR_GLOBAL is replaced before $TMPDIR.
var placeholders = []string{
	"$" + domain.StoreVar,
	"$" + domain.SandboxVar,
	"$" + domain.PlanRootVar,
	"$TMPDIR_GLOBAL",
	"$TMPDIR",
}

var placeholderPattern = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*`)

// checkTemplate fails on any variable reference render-env would leave in place.
func checkTemplate(name, contents string) error {
	for _, token := range placeholderPattern.FindAllString(contents, -1) {
		if !slices.Contains(placeholders, token) {
			err := zerr.With(domain.ErrUnknownPlaceholder, "placeholder", token)
			return zerr.With(err, "file", name)
		}
	}
	return nil
}

// substitutionRule renders input into target once the helper programs exist.
func (b *builder) substitutionRule(input, target string) *makefile.Rule {
	return &makefile.Rule{
		Target:       target,
		Dependencies: []makefile.Item{makefile.File(input), b.esyRoot},
		Shell:        "/bin/bash",
		Command:      []string{"@$(" + sandboxEnvName + ") " + b.mk.PlanPath(domain.BinDirName, "render-env") + " $(<) $(@)"},
	}
}
