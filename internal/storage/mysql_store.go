package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
)

const createRecordsTable = `
	CREATE TABLE IF NOT EXISTS inventory_records (
		position    INT          NOT NULL,
		id          VARCHAR(64)  NOT NULL PRIMARY KEY,
		similar_id  VARCHAR(255) NOT NULL DEFAULT '',
		image_url   TEXT         NOT NULL,
		description VARCHAR(512) NOT NULL DEFAULT '',
		unit        VARCHAR(64)  NOT NULL DEFAULT '',
		quantity    INT          NOT NULL DEFAULT 0,
		location    VARCHAR(255) NOT NULL DEFAULT ''
	) DEFAULT CHARSET=utf8mb4`

// insertBatchSize bounds the number of rows per INSERT statement.
const insertBatchSize = 200

// MySQLStore keeps the record set in the inventory_records table. The
// position column preserves row order across load and save.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore wraps an open pool and creates the table if needed.
func NewMySQLStore(ctx context.Context, db *sql.DB) (*MySQLStore, error) {
	if _, err := db.ExecContext(ctx, createRecordsTable); err != nil {
		return nil, fmt.Errorf("failed to create inventory_records table: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Backend() Backend { return BackendDatabase }

// Close releases the connection pool.
func (s *MySQLStore) Close() error { return s.db.Close() }

func (s *MySQLStore) Load(ctx context.Context) ([]models.Record, error) {
	// 1. --- Query Database ---
	query := `
		SELECT id, similar_id, image_url, description, unit, quantity, location
		FROM inventory_records
		ORDER BY position ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return emptySet(), &ReadError{Backend: BackendDatabase, Err: err}
	}
	defer rows.Close()

	// 2. --- Scan Rows into Slice ---
	records := emptySet()
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.ID, &r.SimilarID, &r.ImageURL, &r.Description, &r.Unit, &r.Quantity, &r.Location); err != nil {
			return emptySet(), &ReadError{Backend: BackendDatabase, Err: err}
		}
		r.Quantity = models.ClampQuantity(r.Quantity)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return emptySet(), &ReadError{Backend: BackendDatabase, Err: err}
	}
	return records, nil
}

// Save replaces the table content inside one transaction.
func (s *MySQLStore) Save(ctx context.Context, records []models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Backend: BackendDatabase, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM inventory_records"); err != nil {
		return &WriteError{Backend: BackendDatabase, Err: err}
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		query, args := insertBatch(records[start:end], start)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return &WriteError{Backend: BackendDatabase, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Backend: BackendDatabase, Err: err}
	}
	return nil
}

func insertBatch(batch []models.Record, offset int) (string, []interface{}) {
	placeholders := make([]string, len(batch))
	args := make([]interface{}, 0, len(batch)*8)
	for i, r := range batch {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, offset+i, r.ID, r.SimilarID, r.ImageURL, r.Description, r.Unit, r.Quantity, r.Location)
	}
	query := `INSERT INTO inventory_records
		(position, id, similar_id, image_url, description, unit, quantity, location)
		VALUES ` + strings.Join(placeholders, ", ")
	return query, args
}
