package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
)

// CSVStore keeps the record set in a flat UTF-8 CSV file.
type CSVStore struct {
	path string
}

// NewCSVStore returns a store backed by the file at path. The file does not
// need to exist yet.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Backend() Backend { return BackendLocal }

// Path returns the backing file location.
func (s *CSVStore) Path() string { return s.path }

// Load reads the file. A missing file is an empty record set, not an error.
func (s *CSVStore) Load(ctx context.Context) ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptySet(), nil
		}
		return emptySet(), &ReadError{Backend: BackendLocal, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return emptySet(), nil
		}
		return emptySet(), &ReadError{Backend: BackendLocal, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records := emptySet()
	for {
		if err := ctx.Err(); err != nil {
			return emptySet(), &ReadError{Backend: BackendLocal, Err: err}
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return emptySet(), &ReadError{Backend: BackendLocal, Err: err}
		}
		records = append(records, models.RecordFromRow(header, row))
	}
	return records, nil
}

// Save rewrites the whole file: header first, then one line per record.
func (s *CSVStore) Save(ctx context.Context, records []models.Record) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Backend: BackendLocal, Err: err}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Backend: BackendLocal, Err: err}
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return &WriteError{Backend: BackendLocal, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		return &WriteError{Backend: BackendLocal, Err: err}
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return &WriteError{Backend: BackendLocal, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &WriteError{Backend: BackendLocal, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Backend: BackendLocal, Err: err}
	}
	return nil
}
