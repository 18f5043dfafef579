// Package ledger persists which files have already been uploaded, so
// repeated runs do not post them again.
//
// Entries are (scope, path) pairs in a single SQLite database per
// installation. An entry is written once, after a successful post, and only
// ever removed by an explicit clear. Storage errors are wrapped with
// common.ErrLedger; callers treat them as fatal because a run cannot safely
// decide what to skip without the ledger.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/dbx"
)

// Store is the SQLite-backed resume ledger.
type Store struct {
	db *sql.DB
}

// IsRecorded reports whether the file was already uploaded under scope.
func (s *Store) IsRecorded(ctx context.Context, scope common.Scope, path string) (bool, error) {
	recorded, err := isRecorded(ctx, s.db, scope, path)
	if err != nil {
		return false, fmt.Errorf("%w: membership query: %w", common.ErrLedger, err)
	}
	return recorded, nil
}

// FilterUnrecorded returns the subsequence of paths not yet recorded for
// scope, preserving input order. All membership probes run inside one
// transaction so a concurrent writer cannot change the answer halfway
// through the batch.
func (s *Store) FilterUnrecorded(ctx context.Context, scope common.Scope, paths []string) ([]string, error) {
	remaining := make([]string, 0, len(paths))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, path := range paths {
			recorded, err := isRecorded(ctx, tx, scope, path)
			if err != nil {
				return err
			}
			if !recorded {
				remaining = append(remaining, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: filtering recorded files: %w", common.ErrLedger, err)
	}

	return remaining, nil
}

// Record marks the file as uploaded under scope. The insert is idempotent
// and committed before Record returns.
func (s *Store) Record(ctx context.Context, scope common.Scope, path string) error {
	query := `INSERT INTO uploads (scope, path) VALUES (?, ?)
			ON CONFLICT (scope, path) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, scope.String(), path); err != nil {
		return fmt.Errorf("%w: recording %s: %w", common.ErrLedger, path, err)
	}
	return nil
}

// Clear deletes recorded entries and returns how many were removed. An empty
// scope wipes every scope; a named scope limits the wipe to its partition.
func (s *Store) Clear(ctx context.Context, scope common.Scope) (int64, error) {
	query := `DELETE FROM uploads`
	var args []any
	if scope != "" {
		query += ` WHERE scope = ?`
		args = append(args, scope.String())
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: clearing entries: %w", common.ErrLedger, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %w", common.ErrLedger, err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func isRecorded(ctx context.Context, db dbx.DBTX, scope common.Scope, path string) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM uploads WHERE scope = ? AND path = ?`
	if err := db.QueryRowContext(ctx, query, scope.String(), path).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
