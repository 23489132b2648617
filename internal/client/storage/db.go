// Package storage opens the local client database and applies its
// migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/vamazon/internal/client/migrations"
	"github.com/dmitrijs2005/vamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vamazon/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const dbFileName = "client.db"

type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Open creates dataDir if needed, opens the database file inside it and
// migrates it.
func Open(ctx context.Context, dataDir string) (*Repositories, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}
	return OpenDSN(ctx, filepath.Join(dir, dbFileName))
}

func OpenDSN(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}
