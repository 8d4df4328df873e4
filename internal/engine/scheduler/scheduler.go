// Package scheduler runs the recipes of a Makefile rule graph the way a parallel make would.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/eject/internal/engine/makefile"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a rule.
type TaskStatus string

const (
	// StatusPending indicates the rule is waiting for its prerequisites.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the recipe is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the recipe has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the recipe failed.
	StatusFailed TaskStatus = "Failed"
)

// Runner executes the recipe of one rule.
type Runner func(ctx context.Context, rule *makefile.Rule) error

// Scheduler manages the execution of the rules reachable from a set of goals.
type Scheduler struct {
	runner Runner

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// NewScheduler creates a new Scheduler that hands every rule to runner.
func NewScheduler(runner Runner) *Scheduler {
	return &Scheduler{
		runner:     runner,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

// Status reports the status of target after the last Run. Unknown targets are Pending.
func (s *Scheduler) Status(target string) TaskStatus {
	if st := s.getStatus(domain.NewInternedString(target)); st != "" {
		return st
	}
	return StatusPending
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

func (s *Scheduler) getStatus(name domain.InternedString) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

// Run executes every rule reachable from goals with at most parallelism recipes in flight.
// A rule starts only once each rule among its prerequisites has completed, so a shared
// prerequisite runs exactly once. When a recipe fails its dependents never start, while
// independent branches run to completion.
func (s *Scheduler) Run(ctx context.Context, goals []*makefile.Rule, parallelism int) error {
	g, err := collect(goals)
	if err != nil {
		return err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	s.mu.Lock()
	clear(s.taskStatus)
	for _, name := range g.order {
		s.taskStatus[name] = StatusPending
	}
	s.mu.Unlock()

	state := s.newRunState(ctx, g, parallelism)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				return errors.Join(state.errs, state.ctx.Err())
			}
			// Nothing new starts once canceled; drain the recipes in flight.
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

type result struct {
	rule domain.InternedString
	err  error
}

type schedulerRunState struct {
	graph       *graph
	inDegree    map[domain.InternedString]int
	ready       []domain.InternedString
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	s           *Scheduler
}

func (s *Scheduler) newRunState(ctx context.Context, g *graph, parallelism int) *schedulerRunState {
	inDegree := make(map[domain.InternedString]int, len(g.order))
	var ready []domain.InternedString
	for _, name := range g.order {
		inDegree[name] = len(g.prereqs[name])
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	return &schedulerRunState{
		graph:       g,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, StatusRunning)

		go func(rule *makefile.Rule) {
			state.resultsCh <- result{rule: name, err: state.s.runner(state.ctx, rule)}
		}(state.graph.rules[name])
	}
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrappedErr := zerr.With(zerr.Wrap(res.err, "recipe failed"), "target", res.rule.String())
		state.errs = errors.Join(state.errs, wrappedErr)
		state.s.updateStatus(res.rule, StatusFailed)
		return
	}

	state.s.updateStatus(res.rule, StatusCompleted)
	for _, dep := range state.graph.dependents[res.rule] {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
