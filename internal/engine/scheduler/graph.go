package scheduler

import (
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/makefile"
)

// graph is the rule graph reachable from the goals, keyed by target like make does.
type graph struct {
	rules map[domain.InternedString]*makefile.Rule
	// order lists every target after its prerequisites.
	order      []domain.InternedString
	prereqs    map[domain.InternedString][]domain.InternedString
	dependents map[domain.InternedString][]domain.InternedString
}

// ruleNode adapts a rule to domain.Fold. Only rules become edges: files, defines,
// raw lines and groups never gate a recipe.
type ruleNode struct {
	rule *makefile.Rule
}

func (n ruleNode) FoldKey() string { return n.rule.Target }

func (n ruleNode) FoldDeps() []ruleNode {
	var deps []ruleNode
	for _, it := range n.rule.Dependencies {
		if r, ok := it.(*makefile.Rule); ok {
			deps = append(deps, ruleNode{rule: r})
		}
	}
	return deps
}

func collect(goals []*makefile.Rule) (*graph, error) {
	g := &graph{
		rules:      make(map[domain.InternedString]*makefile.Rule),
		prereqs:    make(map[domain.InternedString][]domain.InternedString),
		dependents: make(map[domain.InternedString][]domain.InternedString),
	}

	for _, goal := range goals {
		_, err := domain.Fold(ruleNode{rule: goal}, func(direct, _ []domain.InternedString, n ruleNode) (domain.InternedString, error) {
			name := domain.NewInternedString(n.rule.Target)
			if _, ok := g.rules[name]; ok {
				return name, nil
			}
			g.rules[name] = n.rule
			g.order = append(g.order, name)

			seen := make(map[domain.InternedString]struct{}, len(direct))
			for _, p := range direct {
				if _, dup := seen[p]; dup {
					continue
				}
				seen[p] = struct{}{}
				g.prereqs[name] = append(g.prereqs[name], p)
				g.dependents[p] = append(g.dependents[p], name)
			}
			return name, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
