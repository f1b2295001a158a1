package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var FS embed.FS

// Up applies every pending migration and logs what ran.
func Up(ctx context.Context, db *sql.DB, logger ...*zap.Logger) error {
	l := zap.L().Named("migrations")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("migrations")
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	for _, r := range results {
		l.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.String("file", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	if len(results) == 0 {
		l.Debug("schema up to date")
	}
	return nil
}
