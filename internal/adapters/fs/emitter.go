// Package fs provides the file system adapter that writes compiled plans to disk.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/google/renameio"
	"go.trai.ch/eject/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Emitter implements ports.Emitter on the local file system.
type Emitter struct{}

// NewEmitter creates a new Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit writes files below dir. Directories are created first, then files are written
// concurrently, each one atomically replacing any previous version.
// The first failure cancels the remaining writes.
func (e *Emitter) Emit(ctx context.Context, dir string, files []domain.File) error {
	targets := make([]string, len(files))
	dirs := []string{dir}
	for i, f := range files {
		target, err := resolve(dir, f.Path)
		if err != nil {
			return err
		}
		targets[i] = target
		dirs = append(dirs, filepath.Dir(target))
	}

	slices.Sort(dirs)
	for _, d := range slices.Compact(dirs) {
		if err := os.MkdirAll(d, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrEmitFailed.Error()), "dir", d)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range files {
		target, f := targets[i], files[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			perm := os.FileMode(domain.FilePerm)
			if f.Executable {
				perm = domain.ExecPerm
			}
			if err := renameio.WriteFile(target, []byte(f.Contents), perm); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrEmitFailed.Error()), "file", target)
			}
			return nil
		})
	}

	return g.Wait()
}

// resolve joins a plan-relative path onto dir, refusing paths that leave it.
func resolve(dir string, segments []string) (string, error) {
	rel := filepath.Join(segments...)
	if rel == "." || rel == "" || filepath.IsAbs(rel) ||
		rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.ErrEmitFailed, "path", strings.Join(segments, "/"))
	}
	return filepath.Join(dir, rel), nil
}
