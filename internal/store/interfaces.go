package store

import (
	"context"
	"io"
)

// FileStorage persists uploaded files.
type FileStorage interface {
	// Save writes the content of r under a generated name that keeps the
	// extension of originalName, and returns the absolute path written.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// IDGenerator produces unique file name stems.
type IDGenerator interface {
	Generate() string
}
