// Package domain contains the core models of the build plan compiler and the dependency graph fold.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Foldable is a node of a dependency DAG.
// FoldKey identifies the logical node: two values with the same key are folded once.
type Foldable[N any] interface {
	FoldKey() string
	FoldDeps() []N
}

// FoldFunc combines a node with the results of its direct and transitive dependencies.
type FoldFunc[N, R any] func(direct, all []R, node N) (R, error)

const (
	unvisited = iota
	visiting
	visited
)

type foldEntry[R any] struct {
	result  R
	closure []InternedString
}

// Fold walks the DAG rooted at root in post-order and returns the root's result.
//
// f runs once per distinct key, after every direct and transitive dependency has been
// folded. direct holds the results of the node's direct dependencies in declaration order;
// all holds the de-duplicated transitive closure, each dependency listed after its own
// dependencies, in insertion order. The memo table lives only for this call.
func Fold[N Foldable[N], R any](root N, f FoldFunc[N, R]) (R, error) {
	memo := make(map[InternedString]*foldEntry[R])
	state := make(map[InternedString]int)
	var path []InternedString

	var visit func(n N) (*foldEntry[R], error)
	visit = func(n N) (*foldEntry[R], error) {
		key := NewInternedString(n.FoldKey())
		if entry, ok := memo[key]; ok {
			return entry, nil
		}
		if state[key] == visiting {
			return nil, buildCycleError(path, key)
		}

		state[key] = visiting
		path = append(path, key)

		deps := n.FoldDeps()
		direct := make([]R, 0, len(deps))
		seen := make(map[InternedString]struct{})
		var closure []InternedString
		add := func(k InternedString) {
			if _, ok := seen[k]; ok {
				return
			}
			seen[k] = struct{}{}
			closure = append(closure, k)
		}

		for _, dep := range deps {
			entry, err := visit(dep)
			if err != nil {
				return nil, err
			}
			direct = append(direct, entry.result)
			for _, k := range entry.closure {
				add(k)
			}
			add(NewInternedString(dep.FoldKey()))
		}

		all := make([]R, len(closure))
		for i, k := range closure {
			all[i] = memo[k].result
		}

		result, err := f(direct, all, n)
		if err != nil {
			return nil, err
		}

		entry := &foldEntry[R]{result: result, closure: closure}
		memo[key] = entry
		state[key] = visited
		path = path[:len(path)-1]
		return entry, nil
	}

	entry, err := visit(root)
	if err != nil {
		var zero R
		return zero, err
	}
	return entry.result, nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}
