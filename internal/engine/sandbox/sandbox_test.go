package sandbox_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/sandbox"
	"go.trai.ch/eject/internal/engine/store"
)

func testTask() *domain.BuildTask {
	return &domain.BuildTask{
		ID: "dep-00000000000000aa",
		Spec: domain.BuildSpec{
			ID:         "dep@1.0.0",
			SourcePath: "node_modules/dep",
			BuildType:  domain.BuildTypeOutOfSource,
			SourceType: domain.SourceTypeImmutable,
		},
	}
}

func TestRenderProfile_Golden(t *testing.T) {
	out := sandbox.RenderProfile(testTask(), store.ShellVars(), sandbox.Options{
		AllowFileWrite: []string{"$TMPDIR", "$TMPDIR_GLOBAL"},
	})

	g := goldie.New(t)
	g.Assert(t, "profile", []byte(out))
}

func TestRenderProfile_NoExtraPaths(t *testing.T) {
	out := sandbox.RenderProfile(testTask(), store.ShellVars(), sandbox.Options{})

	assert.NotContains(t, out, "TMPDIR")
	assert.Contains(t, out, `(subpath "$ESY_EJECT__STORE/b/dep-00000000000000aa")`)
}

func TestRenderProfile_Deterministic(t *testing.T) {
	opts := sandbox.Options{AllowFileWrite: []string{"$TMPDIR"}}
	first := sandbox.RenderProfile(testTask(), store.ShellVars(), opts)
	for range 20 {
		assert.Equal(t, first, sandbox.RenderProfile(testTask(), store.ShellVars(), opts))
	}
}

func TestRenderProfile_KeepsNonASCIIPaths(t *testing.T) {
	out := sandbox.RenderProfile(testTask(), store.ShellVars(), sandbox.Options{
		AllowFileWrite: []string{"/tmp/é", `/tmp/a"b\c`},
	})

	assert.Contains(t, out, `(subpath "/tmp/é")`)
	assert.Contains(t, out, `(subpath "/tmp/a\"b\\c")`)
	assert.NotContains(t, out, `\u00e9`)
}
