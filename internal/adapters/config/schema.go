package config

// Lockfile represents the structure of the sandbox lockfile.
type Lockfile struct {
	Version  string                 `yaml:"version" toml:"version"`
	Root     string                 `yaml:"root" toml:"root"`
	Packages map[string]*PackageDTO `yaml:"packages" toml:"packages"`
}

// PackageDTO represents one resolved package in the lockfile.
type PackageDTO struct {
	Name        string `yaml:"name" toml:"name"`
	Version     string `yaml:"version" toml:"version"`
	SourcePath  string `yaml:"sourcePath" toml:"sourcePath"`
	BuildType   string `yaml:"buildType" toml:"buildType"`
	SourceType  string `yaml:"sourceType" toml:"sourceType"`
	InstallPath string `yaml:"installPath" toml:"installPath"`
	// Command holds build steps, each either a shell line or a list of arguments.
	Command      []any    `yaml:"command" toml:"command"`
	Dependencies []string `yaml:"dependencies" toml:"dependencies"`
}
