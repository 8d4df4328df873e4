package env_test

import (
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/env"
)

func TestRender_Golden(t *testing.T) {
	tests := []struct {
		name       string
		env        domain.Environment
		goldenName string
	}{
		{
			name:       "layering",
			env:        domain.Environment{domain.Set("A", "1"), domain.Set("B", "2"), domain.Unset("A")},
			goldenName: "layering",
		},
		{
			name: "escaping",
			env: domain.Environment{
				domain.Set("QUOTED", `say "hi"`),
				domain.Set("TICK", "a`b`"),
				domain.Set("BACKSLASH", `C:\dir`),
				domain.Set("STORE", "$ESY_EJECT__STORE/i/pkg"),
			},
			goldenName: "escaping",
		},
		{
			name:       "empty",
			env:        nil,
			goldenName: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(env.Render(tt.env)))
		})
	}
}

func TestRender_Layering(t *testing.T) {
	out := env.Render(domain.Environment{domain.Set("A", "1"), domain.Set("B", "2"), domain.Unset("A")})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "unset A", lines[2], "the final unset must come after the export it shadows")
	assert.Contains(t, lines, `export B="2"`)
}

func TestRender_ParsesAsDotenv(t *testing.T) {
	input := domain.Environment{
		domain.Set("PLAIN", "hello world"),
		domain.Set("QUOTED", `say "hi" now`),
		domain.Set("TICK", "a`b`c"),
		domain.Set("BACKSLASH", `C:\dir\x`),
		domain.Set("EMPTY", ""),
	}

	parsed, err := godotenv.Unmarshal(env.Render(input))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"PLAIN":     "hello world",
		"QUOTED":    `say "hi" now`,
		"TICK":      "a`b`c",
		"BACKSLASH": `C:\dir\x`,
		"EMPTY":     "",
	}, parsed)
}

func TestLine(t *testing.T) {
	assert.Equal(t, "unset CI", env.Line(domain.Unset("CI")))
	assert.Equal(t, `export TMPDIR="$TMPDIR"`, env.Line(domain.Set("TMPDIR", "$TMPDIR")))
	assert.Equal(t, `export CMD="echo \$HOME \"x\""`, env.Line(domain.SetLiteral("CMD", `echo $HOME "x"`)))
}
