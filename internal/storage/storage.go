package storage

import (
	"context"
	"fmt"

	"github.com/01moynul/inventario-golang/internal/config"
	"github.com/01moynul/inventario-golang/internal/models"
)

// Store reads and writes the whole record set. Save always replaces the
// persisted content; there are no partial writes.
type Store interface {
	// Load returns a well-formed, never nil, record set. On failure it
	// returns the empty set together with a *ReadError.
	Load(ctx context.Context) ([]models.Record, error)
	// Save replaces the persisted record set. Failures are *WriteError.
	Save(ctx context.Context, records []models.Record) error
	Backend() Backend
}

// Backend identifies the active storage implementation.
type Backend int

const (
	BackendLocal Backend = iota
	BackendRemote
	BackendDatabase
)

func (b Backend) String() string {
	switch b {
	case BackendRemote:
		return "Google Sheets"
	case BackendDatabase:
		return "MySQL"
	default:
		return "Archivo CSV local"
	}
}

// ReadError is a non-fatal load failure. The store still returned an empty
// record set.
type ReadError struct {
	Backend Backend
	Err     error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read from %s failed: %v", e.Backend, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means the backend rejected a save. Whatever the partial write
// left behind stays persisted.
type WriteError struct {
	Backend Backend
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to %s failed: %v", e.Backend, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ResolveBackend decides which backend the configuration asks for. An
// explicit STORAGE_BACKEND wins; otherwise the remote spreadsheet is used
// when its credentials and sheet id are present, and the local file when not.
func ResolveBackend(cfg config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case "sheets", "remote":
		return BackendRemote, nil
	case "csv", "local":
		return BackendLocal, nil
	case "mysql", "database":
		return BackendDatabase, nil
	case "":
		if cfg.HasSheetsCredentials() {
			return BackendRemote, nil
		}
		return BackendLocal, nil
	}
	return BackendLocal, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func emptySet() []models.Record {
	return []models.Record{}
}
