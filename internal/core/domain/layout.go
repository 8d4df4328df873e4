package domain

import "path/filepath"

// Variables exported by the generated plan.
const (
	// PlanRootVar points at the directory containing the generated Makefile.
	PlanRootVar = "ESY_EJECT__ROOT"
	// PrefixVar points at the directory holding the store, overridable by the caller.
	PrefixVar = "ESY_EJECT__PREFIX"
	// StoreVar points at the resolved global store.
	StoreVar = "ESY_EJECT__STORE"
	// SandboxVar points at the sandbox root, defaulting to the make working directory.
	SandboxVar = "ESY_EJECT__SANDBOX"
)

// Plan layout.
const (
	// PlanFileName is the name of the generated build file.
	PlanFileName = "Makefile"

	// EnvFileName is the per-package sourceable environment.
	EnvFileName = "eject-env"

	// SandboxProfileTemplateName is the per-package sandbox profile before substitution.
	SandboxProfileTemplateName = "sandbox.sb.in"

	// SandboxProfileName is the per-package sandbox profile after substitution.
	SandboxProfileName = "sandbox.sb"

	// CommandEnvFileName is the standalone interactive environment script.
	CommandEnvFileName = "command-env"

	// BinDirName holds the helper programs and scripts.
	BinDirName = "bin"

	// RecordsDirName holds the metadata files.
	RecordsDirName = "records"

	// PackagesDirName holds one directory per task.
	PackagesDirName = "packages"

	// TemplateSuffix marks a file that goes through template substitution.
	TemplateSuffix = ".in"

	// DefaultOutputDir is where the plan is emitted when no output is given.
	DefaultOutputDir = "_eject"
)

// Store layout.
const (
	// StoreBuildTree holds per-task build directories.
	StoreBuildTree = "b"
	// StoreInstallTree holds per-task final install directories.
	StoreInstallTree = "i"
	// StoreStageTree holds per-task staging directories.
	StoreStageTree = "s"

	// BuildTreeSymlink links the root package's build directory inside the sandbox.
	BuildTreeSymlink = "_build"
	// InstallTreeSymlink links the root package's install directory inside the sandbox.
	InstallTreeSymlink = "_install"

	// DefaultStorePrefix is used when the caller does not set the prefix variable.
	DefaultStorePrefix = "$(HOME)/.esy"

	// DefaultInstallPathTemplate places installs in the install tree, keyed by task ID.
	DefaultInstallPathTemplate = "%store%/" + StoreInstallTree + "/%id%"

	// StoreVersion is the store layout version appended to the prefix.
	StoreVersion = "3"

	// StorePathLength is the fixed length store paths are padded to so that
	// installed artifacts can be relocated by in-place string replacement.
	StorePathLength = 108 - len("/"+StoreInstallTree+"/") - 64
)

// Sandbox file names recognized when no lockfile is given explicitly.
var LockfileNames = []string{"sandbox.yaml", "sandbox.yml", "sandbox.toml"}

// File permissions.
const (
	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission for generated scripts (rwx------).
	ExecPerm = 0o700
)

// LocalStorePath returns the sandbox-local store mirror, relative to the sandbox root.
func LocalStorePath() string {
	return filepath.Join("node_modules", ".cache", "_esy", "store")
}
