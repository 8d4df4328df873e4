package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/zerr"
)

type node struct {
	id   string
	deps []*node
}

func (n *node) FoldKey() string    { return n.id }
func (n *node) FoldDeps() []*node { return n.deps }

// diamond builds A -> B, A -> C, B -> D, C -> D.
func diamond() *node {
	d := &node{id: "D"}
	b := &node{id: "B", deps: []*node{d}}
	c := &node{id: "C", deps: []*node{d}}
	return &node{id: "A", deps: []*node{b, c}}
}

func TestFold_DiamondFoldsSharedNodeOnce(t *testing.T) {
	calls := make(map[string]int)
	var order []string

	_, err := domain.Fold(diamond(), func(_, _ []string, n *node) (string, error) {
		calls[n.id]++
		order = append(order, n.id)
		return n.id, nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1, "D": 1}, calls)
	assert.Equal(t, []string{"D", "B", "C", "A"}, order)
}

func TestFold_DirectAndTransitiveResults(t *testing.T) {
	direct := make(map[string][]string)
	all := make(map[string][]string)

	res, err := domain.Fold(diamond(), func(d, a []string, n *node) (string, error) {
		direct[n.id] = d
		all[n.id] = a
		return strings.ToLower(n.id), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "a", res)
	assert.Equal(t, []string{"b", "c"}, direct["A"])
	assert.Equal(t, []string{"d", "b", "c"}, all["A"], "closure lists dependencies before dependents, once")
	assert.Equal(t, []string{"d"}, all["B"])
	assert.Empty(t, all["D"])
}

func TestFold_SameKeyDifferentValuesFoldOnce(t *testing.T) {
	// Two distinct values with the same key are one logical node.
	d1 := &node{id: "D"}
	d2 := &node{id: "D"}
	root := &node{id: "R", deps: []*node{{id: "X", deps: []*node{d1}}, {id: "Y", deps: []*node{d2}}}}

	count := 0
	_, err := domain.Fold(root, func(_, _ []int, n *node) (int, error) {
		if n.id == "D" {
			count++
		}
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFold_MemoIsScopedToCall(t *testing.T) {
	root := diamond()
	count := 0
	f := func(_, _ []struct{}, _ *node) (struct{}, error) {
		count++
		return struct{}{}, nil
	}

	_, err := domain.Fold(root, f)
	require.NoError(t, err)
	_, err = domain.Fold(root, f)
	require.NoError(t, err)

	assert.Equal(t, 8, count)
}

func TestFold_Cycle(t *testing.T) {
	a := &node{id: "A"}
	b := &node{id: "B", deps: []*node{a}}
	a.deps = []*node{b}
	root := &node{id: "R", deps: []*node{a}}

	_, err := domain.Fold(root, func(_, _ []int, _ *node) (int, error) {
		return 0, nil
	})
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrCycleDetected.Error())

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr), "expected *zerr.Error, got %T", err)
	assert.Equal(t, "A -> B -> A", zErr.Metadata()["cycle"])
}

func TestFold_SelfLoop(t *testing.T) {
	a := &node{id: "A"}
	a.deps = []*node{a}

	_, err := domain.Fold(a, func(_, _ []int, _ *node) (int, error) {
		return 0, nil
	})
	require.ErrorContains(t, err, domain.ErrCycleDetected.Error())
}

func TestFold_PropagatesCombineError(t *testing.T) {
	boom := errors.New("boom")
	_, err := domain.Fold(diamond(), func(_, _ []int, n *node) (int, error) {
		if n.id == "B" {
			return 0, boom
		}
		return 0, nil
	})
	require.ErrorIs(t, err, boom)
}
