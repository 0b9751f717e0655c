package storage

import (
	"context"

	"github.com/01moynul/inventario-golang/internal/config"
	"github.com/01moynul/inventario-golang/internal/database"
	"github.com/01moynul/inventario-golang/internal/logger"
)

// Open builds the store for the configured backend. The choice is made once:
// if the requested remote or database backend cannot be reached, the local
// CSV file is used for the rest of the process lifetime.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	backend, err := ResolveBackend(cfg)
	if err != nil {
		return nil, err
	}

	local := NewCSVStore(cfg.CSVPath)

	switch backend {
	case BackendRemote:
		s, err := NewSheetsStore(ctx, SheetsOptions{
			SpreadsheetID:   cfg.SheetID,
			Worksheet:       cfg.Worksheet,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Str("fallback", local.Path()).Msg("Google Sheets unavailable, using local CSV file")
			return local, nil
		}
		logger.Logger.Info().Str("sheet_id", cfg.SheetID).Str("worksheet", cfg.Worksheet).Msg("Using Google Sheets backend")
		return s, nil

	case BackendDatabase:
		db, err := database.OpenDBWithDSN(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("fallback", local.Path()).Msg("MySQL unavailable, using local CSV file")
			return local, nil
		}
		s, err := NewMySQLStore(ctx, db)
		if err != nil {
			db.Close()
			logger.Logger.Warn().Err(err).Str("fallback", local.Path()).Msg("MySQL unavailable, using local CSV file")
			return local, nil
		}
		logger.Logger.Info().Msg("Using MySQL backend")
		return s, nil
	}

	logger.Logger.Info().Str("path", local.Path()).Msg("Using local CSV backend")
	return local, nil
}
