package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/01moynul/inventario-golang/internal/logger"
	_ "github.com/go-sql-driver/mysql"
)

// OpenDBWithDSN creates and configures a MySQL connection pool for the given
// DSN and verifies it with a ping.
func OpenDBWithDSN(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is empty")
	}

	// 1. Open a new connection pool.
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// 2. Configure the connection pool settings.
	// The inventory is a single small table, so the pool stays small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. Ping the database to verify the connection.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		logger.Logger.Error().Err(err).Msg("Error connecting to database")
		return nil, err
	}

	logger.Logger.Info().Msg("Database connection pool established successfully")
	return db, nil
}
