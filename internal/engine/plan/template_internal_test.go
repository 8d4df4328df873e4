package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/eject/internal/core/domain"
)

func TestCheckTemplate(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  bool
	}{
		{name: "vocabulary", contents: "$ESY_EJECT__STORE/i\n$ESY_EJECT__SANDBOX $ESY_EJECT__ROOT $TMPDIR_GLOBAL $TMPDIR"},
		{name: "no placeholders", contents: "(allow default)"},
		{name: "unknown", contents: "$ESY_EJECT__STORE/$HOME", wantErr: true},
		{name: "typo", contents: "$ESY_EJECT__STOR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTemplate("records/x.in", tt.contents)
			if tt.wantErr {
				require.ErrorContains(t, err, domain.ErrUnknownPlaceholder.Error())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSubstitutionRule(t *testing.T) {
	b := newBuilder(domain.DefaultConfig())
	r := b.substitutionRule("$(ESY_EJECT__ROOT)/x.in", "$(ESY_EJECT__ROOT)/x")

	assert.Equal(t, "/bin/bash", r.Shell)
	assert.Equal(t, []string{"@$(shell_env_sandbox) $(ESY_EJECT__ROOT)/bin/render-env $(<) $(@)"}, r.Command)
	assert.Len(t, r.Dependencies, 2)
	assert.Same(t, b.esyRoot, r.Dependencies[1])
}

func TestAddFile_Duplicate(t *testing.T) {
	b := newBuilder(domain.DefaultConfig())

	require.NoError(t, b.addFile(domain.File{Path: []string{"packages", "x", "eject-env"}}))
	err := b.addFile(domain.File{Path: []string{"packages", "x", "eject-env"}})
	require.ErrorContains(t, err, domain.ErrDuplicateFile.Error())
}

func TestStaticAssets(t *testing.T) {
	for _, f := range staticFiles() {
		assert.NotEmpty(t, f.Contents, f.Path)
	}
	assert.Contains(t, asset("runtime.sh"), "esy-build() {")
	assert.Contains(t, asset("render-env"), "unresolved placeholder")
}
