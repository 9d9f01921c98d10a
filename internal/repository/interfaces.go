package repository

import "context"

// Saver persists a DataDocument.
// Small interface used by background jobs like the backup scheduler.
type Saver interface {
	Save(doc *DataDocument) error
}

// Repository abstracts persistence and watching of the seed/backup file.
// JSONRepository implements this interface.
type Repository interface {
	Saver
	Load() (*DataDocument, error)
	Path() string
	LoadInto(target DefaultsTarget) error
	StartWatcher(ctx context.Context, target DefaultsTarget) error
}

// DefaultsTarget receives a reloaded seed document.
type DefaultsTarget interface {
	Document() DataDocument
	Replace(doc DataDocument)
}
