package employee

import "context"

// Directory is the read-only employee source.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}

// DirectoryStore is a Directory that can be loaded from a local seed file.
type DirectoryStore interface {
	Directory
	Seed(ctx context.Context, employees []Employee) error
}
