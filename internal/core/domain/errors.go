package domain

import "go.trai.ch/zerr"

var (
	// ErrCycleDetected is returned when a package is reached again while it is still being folded.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskIDCollision is returned when two different packages derive the same task ID.
	ErrTaskIDCollision = zerr.New("task id collision")

	// ErrMissingDependency is returned when a package references a dependency that is not in the sandbox.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrMissingRoot is returned when the sandbox does not name an existing root package.
	ErrMissingRoot = zerr.New("missing root package")

	// ErrNoSandbox is returned when the compiler is given no sandbox.
	ErrNoSandbox = zerr.New("no sandbox to compile")

	// ErrInvalidBuildType is returned for an unknown build type.
	ErrInvalidBuildType = zerr.New("invalid build type, expected 'out-of-source', 'in-source' or '_root_'")

	// ErrInvalidSourceType is returned for an unknown source type.
	ErrInvalidSourceType = zerr.New("invalid source type, expected 'immutable', 'mutable' or 'root'")

	// ErrInvalidCommand is returned when a build command is neither a string nor a list of strings.
	ErrInvalidCommand = zerr.New("invalid build command")

	// ErrDuplicateFile is returned when two generated files share an output path.
	ErrDuplicateFile = zerr.New("duplicate output file")

	// ErrDuplicateTarget is returned when two packages render the same make target.
	ErrDuplicateTarget = zerr.New("duplicate make target")

	// ErrUnsafePath is returned when a lockfile path holds characters the plan cannot quote.
	ErrUnsafePath = zerr.New("unsafe path")

	// ErrUnknownPlaceholder is returned when a template references a placeholder outside the vocabulary.
	ErrUnknownPlaceholder = zerr.New("unknown template placeholder")

	// ErrConfigNotFound is returned when no sandbox lockfile can be found.
	ErrConfigNotFound = zerr.New("could not find sandbox lockfile")

	// ErrConfigReadFailed is returned when the lockfile cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read sandbox lockfile")

	// ErrConfigParseFailed is returned when the lockfile cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse sandbox lockfile")

	// ErrUnsupportedFormat is returned for a lockfile extension that has no decoder.
	ErrUnsupportedFormat = zerr.New("unsupported lockfile format")

	// ErrEmitFailed is returned when a plan file cannot be written.
	ErrEmitFailed = zerr.New("failed to emit plan file")

	// ErrCompileFailed is returned when the plan cannot be compiled.
	ErrCompileFailed = zerr.New("failed to compile build plan")
)
