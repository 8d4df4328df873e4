// Package makefile models a GNU Makefile as a graph of items and renders it deterministically.
package makefile

import (
	"slices"
	"strings"

	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/zerr"
)

// Item is one element of a Makefile.
// The set of implementations is closed: *Rule, *Define, *Raw, *Group and File.
type Item interface {
	item()
}

// Rule is a target with prerequisites and a recipe.
type Rule struct {
	Target string
	// Dependencies are rendered before the rule. Rules and files become prerequisites,
	// defines, raw lines and groups are only emitted.
	Dependencies []Item
	// Command holds recipe lines. An entry spanning several lines yields several recipe lines.
	Command []string
	Phony   bool
	// Shell overrides SHELL for this target only.
	Shell string
}

// Define is a multi-line variable whose lines run as one shell command when expanded in a recipe.
type Define struct {
	Name  string
	Lines []string
}

// Raw is a literal line.
type Raw struct {
	Line string
}

// Group inlines a list of items.
type Group struct {
	Items []Item
}

// File is a prerequisite that names a plain file.
type File string

func (*Rule) item()   {}
func (*Define) item() {}
func (*Raw) item()    {}
func (*Group) item()  {}
func (File) item()    {}

// NewGroup creates a Group from items.
func NewGroup(items ...Item) *Group {
	return &Group{Items: items}
}

// Render linearizes items depth-first and prints them.
// Every item is emitted once, after everything it references. Identity decides sameness:
// the same *Rule reached twice is printed once. Phony targets are declared on the last line.
func Render(items ...Item) (string, error) {
	r := &renderer{state: make(map[Item]int)}
	for _, it := range items {
		if err := r.visit(it); err != nil {
			return "", err
		}
	}
	if len(r.phony) > 0 {
		r.out.WriteString(".PHONY: " + strings.Join(r.phony, " ") + "\n")
	}
	return r.out.String(), nil
}

const (
	unvisited = iota
	visiting
	visited
)

type renderer struct {
	out   strings.Builder
	state map[Item]int
	path  []string
	phony []string
}

func (r *renderer) visit(it Item) error {
	if _, ok := it.(File); ok {
		return nil
	}

	switch r.state[it] {
	case visited:
		return nil
	case visiting:
		return r.cycleError(it)
	}
	r.state[it] = visiting

	switch v := it.(type) {
	case *Raw:
		r.out.WriteString(v.Line + "\n")
	case *Define:
		r.renderDefine(v)
	case *Group:
		for _, child := range v.Items {
			if err := r.visit(child); err != nil {
				return err
			}
		}
	case *Rule:
		r.path = append(r.path, v.Target)
		for _, dep := range v.Dependencies {
			if err := r.visit(dep); err != nil {
				return err
			}
		}
		r.path = r.path[:len(r.path)-1]
		r.renderRule(v)
	}

	r.state[it] = visited
	return nil
}

func (r *renderer) renderRule(rule *Rule) {
	if rule.Phony {
		r.phony = append(r.phony, rule.Target)
	}

	if rule.Shell != "" {
		r.out.WriteString(rule.Target + ": SHELL=" + rule.Shell + "\n")
	}

	r.out.WriteString(rule.Target + ":")
	for _, p := range prerequisites(rule.Dependencies) {
		r.out.WriteString(" " + p)
	}
	r.out.WriteString("\n")

	for _, cmd := range rule.Command {
		for _, line := range strings.Split(cmd, "\n") {
			r.out.WriteString("\t" + line + "\n")
		}
	}
	r.out.WriteString("\n")
}

func (r *renderer) renderDefine(d *Define) {
	r.out.WriteString("define " + d.Name + "\n")
	for i, line := range d.Lines {
		if i < len(d.Lines)-1 {
			r.out.WriteString(line + "; \\\n")
		} else {
			r.out.WriteString(line + ";\n")
		}
	}
	r.out.WriteString("endef\n\n")
}

// prerequisites flattens dependencies to target names, keeping the first occurrence of each.
func prerequisites(deps []Item) []string {
	var names []string
	for _, dep := range deps {
		var name string
		switch v := dep.(type) {
		case *Rule:
			name = v.Target
		case File:
			name = string(v)
		default:
			continue
		}
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func (r *renderer) cycleError(it Item) error {
	target := ""
	if rule, ok := it.(*Rule); ok {
		target = rule.Target
	}
	start := slices.Index(r.path, target)
	if start < 0 {
		start = 0
	}
	parts := append(slices.Clone(r.path[start:]), target)
	return zerr.With(domain.ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}
