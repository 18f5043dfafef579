package ledger

import (
	"context"

	"github.com/nzbmule/nzbmule/internal/common"
)

// Disabled is the ledger used for no-resume runs. It never touches storage:
// every file counts as unrecorded and records are dropped, which forces a
// full re-upload without destroying the persisted history.
type Disabled struct{}

func (Disabled) IsRecorded(context.Context, common.Scope, string) (bool, error) {
	return false, nil
}

func (Disabled) FilterUnrecorded(_ context.Context, _ common.Scope, paths []string) ([]string, error) {
	return paths, nil
}

func (Disabled) Record(context.Context, common.Scope, string) error {
	return nil
}

func (Disabled) Clear(context.Context, common.Scope) (int64, error) {
	return 0, nil
}

func (Disabled) Close() error {
	return nil
}
