package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/filex"
	"github.com/nzbmule/nzbmule/internal/ledger/migrations"
)

// RunMigrations applies the embedded schema migrations. Goose tracks applied
// versions in its own table, so repeated calls are idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens the ledger database at path, creating the file and its parent
// directory on first use, and brings the schema up to date. Existing data is
// never truncated. Any failure here is fatal to a run: without the ledger
// the dedup state is unknown.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrLedger, err)
	}
	if err := filex.Touch(path); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrLedger, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", common.ErrLedger, path, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrating %s: %w", common.ErrLedger, path, err)
	}

	return &Store{db: db}, nil
}
