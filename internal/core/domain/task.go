package domain

// BuildTask is the content-addressed unit of work derived from a BuildSpec.
// Tasks form a DAG: a task reachable through several parents is the same pointer.
type BuildTask struct {
	// ID changes whenever the spec, the environment, or any dependency's ID changes.
	ID           string
	Spec         BuildSpec
	Env          Environment
	Dependencies []*BuildTask
}

// FoldKey identifies a task by its content-derived ID.
func (t *BuildTask) FoldKey() string {
	return t.ID
}

// FoldDeps returns the direct dependency tasks in declaration order.
func (t *BuildTask) FoldDeps() []*BuildTask {
	return t.Dependencies
}

// File is a generated plan artifact, addressed relative to the plan root.
type File struct {
	Path       []string
	Contents   string
	Executable bool
}
