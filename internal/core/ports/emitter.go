package ports

import (
	"context"

	"go.trai.ch/eject/internal/core/domain"
)

// Emitter defines the interface for writing a compiled plan to disk.
//
//go:generate mockgen -source=emitter.go -destination=mocks/mock_emitter.go -package=mocks
type Emitter interface {
	// Emit writes every file under dir. Either all files are written or an error is returned.
	Emit(ctx context.Context, dir string, files []domain.File) error
}
