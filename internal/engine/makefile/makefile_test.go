package makefile_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/makefile"
	"go.trai.ch/zerr"
)

func sample() []makefile.Item {
	env := &makefile.Define{
		Name:  "shell_env",
		Lines: []string{`export A="1"`, `export B="$$HOME"`},
	}
	compile := &makefile.Rule{
		Target:       "bin/tool",
		Dependencies: []makefile.Item{makefile.File("bin/tool.c")},
		Command:      []string{"@gcc -o $(@) $(<)"},
		Shell:        "/bin/bash",
	}
	dep := &makefile.Rule{
		Target:       "dep.build",
		Dependencies: []makefile.Item{env, compile},
		Command:      []string{"@$(shell_env) make; \\\necho done"},
		Phony:        true,
	}
	root := &makefile.Rule{
		Target:       "build",
		Dependencies: []makefile.Item{dep, dep, compile},
		Phony:        true,
	}
	return []makefile.Item{
		&makefile.Raw{Line: "SHELL := /bin/bash"},
		root,
		makefile.NewGroup(dep, env),
	}
}

func TestRender_Golden(t *testing.T) {
	out, err := makefile.Render(sample()...)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "sample", []byte(out))
}

func TestRender_Deterministic(t *testing.T) {
	first, err := makefile.Render(sample()...)
	require.NoError(t, err)

	for range 20 {
		out, err := makefile.Render(sample()...)
		require.NoError(t, err)
		assert.Equal(t, first, out)
	}
}

func TestRender_SharedRuleEmittedOnce(t *testing.T) {
	d := &makefile.Rule{Target: "d", Phony: true}
	b := &makefile.Rule{Target: "b", Dependencies: []makefile.Item{d}, Phony: true}
	c := &makefile.Rule{Target: "c", Dependencies: []makefile.Item{d}, Phony: true}
	a := &makefile.Rule{Target: "a", Dependencies: []makefile.Item{b, c}, Phony: true}

	out, err := makefile.Render(a)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "d:\n"))
	assert.Equal(t, ".PHONY: d b c a\n", lastLine(out))
	assert.Less(t, strings.Index(out, "d:"), strings.Index(out, "b: d"))
	assert.Less(t, strings.Index(out, "c: d"), strings.Index(out, "a: b c"))
}

func TestRender_DependenciesDeduplicatedByTarget(t *testing.T) {
	x1 := &makefile.Rule{Target: "x"}
	x2 := &makefile.Rule{Target: "x"}
	r := &makefile.Rule{Target: "r", Dependencies: []makefile.Item{x1, x2, makefile.File("x"), makefile.File("y")}}

	out, err := makefile.Render(r)
	require.NoError(t, err)
	assert.Contains(t, out, "r: x y\n")
}

func TestRender_NoPhony(t *testing.T) {
	out, err := makefile.Render(&makefile.Raw{Line: "A := 1"})
	require.NoError(t, err)
	assert.Equal(t, "A := 1\n", out)
}

func TestRender_Cycle(t *testing.T) {
	a := &makefile.Rule{Target: "a"}
	b := &makefile.Rule{Target: "b", Dependencies: []makefile.Item{a}}
	a.Dependencies = []makefile.Item{b}

	_, err := makefile.Render(a)
	require.ErrorContains(t, err, domain.ErrCycleDetected.Error())

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "a -> b -> a", zErr.Metadata()["cycle"])
}

func lastLine(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return s[strings.LastIndex(s, "\n")+1:] + "\n"
}
