package task

import "go.trai.ch/eject/internal/core/domain"

// SetIDFunc replaces the task ID derivation for the duration of a test.
func SetIDFunc(f func(spec *domain.BuildSpec) string) (restore func()) {
	prev := idFunc
	idFunc = func(spec *domain.BuildSpec, _, _ domain.Environment, _ []*domain.BuildTask) string {
		return f(spec)
	}
	return func() { idFunc = prev }
}
