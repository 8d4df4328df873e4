package task

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/eject/internal/core/domain"
)

// computeID derives the task ID from the spec, the environment known before the ID exists,
// and the IDs of the direct dependencies, in order.
func computeID(spec *domain.BuildSpec, base, bindings domain.Environment, deps []*domain.BuildTask) string {
	hasher := xxhash.New()

	hashSpec(spec, hasher)
	hashEnvironment(base, hasher)
	hashEnvironment(bindings, hasher)

	for _, dep := range deps {
		_, _ = hasher.WriteString(dep.ID)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	return fmt.Sprintf("%s-%016x", NormalizeName(spec.PackageName()), hasher.Sum64())
}

func hashSpec(spec *domain.BuildSpec, hasher *xxhash.Digest) {
	for _, field := range []string{
		spec.ID,
		spec.Name,
		spec.Version,
		spec.SourcePath,
		string(spec.BuildType),
		string(spec.SourceType),
		spec.InstallPath,
	} {
		_, _ = hasher.WriteString(field)
		_, _ = hasher.Write([]byte{0})
	}

	for _, c := range spec.Command {
		if c.Args != nil {
			_, _ = hasher.Write([]byte{'a'})
			for _, arg := range c.Args {
				_, _ = hasher.WriteString(arg)
				_, _ = hasher.Write([]byte{0})
			}
		} else {
			_, _ = hasher.Write([]byte{'l'})
			_, _ = hasher.WriteString(c.Line)
		}
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator
}

// hashEnvironment hashes bindings in order; order is part of the environment's meaning.
func hashEnvironment(env domain.Environment, hasher *xxhash.Digest) {
	for _, b := range env {
		_, _ = hasher.WriteString(b.Name)
		if b.Op == domain.OpUnset {
			_, _ = hasher.Write([]byte{'!'})
		} else {
			_, _ = hasher.Write([]byte{'='})
			_, _ = hasher.WriteString(b.Value)
		}
		if b.Literal {
			_, _ = hasher.Write([]byte{'L'})
		}
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// idFunc is swapped in tests to force collisions.
var idFunc = computeID
