// Package rawpost recovers leftover raw articles from prior failed posts.
// The poster dumps unpostable articles into a directory it names in its own
// configuration; this package lists what is pending there and drives the
// per-article repost loop. Individual repost failures never abort the batch:
// a failed article stays on disk for the next run.
package rawpost

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/filex"
	"github.com/nzbmule/nzbmule/internal/nyuu"
)

// Reposter resubmits one raw article.
type Reposter interface {
	RepostRaw(ctx context.Context, article string) (*nyuu.Result, error)
}

// ArticleOutcome is the recovery result for one raw article.
type ArticleOutcome struct {
	Article string
	Result  *nyuu.Result
	// Err is set when the repost could not be attempted at all.
	Err error
}

// Success reports whether the article was reposted and removed.
func (o ArticleOutcome) Success() bool {
	return o.Err == nil && o.Result != nil && o.Result.Success
}

// Pending lists the raw articles directly under dir, in name order. A dump
// directory that does not exist yet simply has nothing pending.
func Pending(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing raw articles in %s: %w", dir, err)
	}

	var articles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		articles = append(articles, filepath.Join(dir, e.Name()))
	}
	return articles, nil
}

// Clear deletes every pending raw article under dir and reports how many
// were removed. The ledger and candidate files are not touched.
func Clear(dir string) (int, error) {
	articles, err := Pending(dir)
	if err != nil {
		return 0, err
	}
	if err := filex.DeleteFiles(articles); err != nil {
		return 0, err
	}
	return len(articles), nil
}

// RecoverAll reposts each article in order, calling onDone as each outcome
// lands. Failures are recorded and recovery moves on; the poster removes
// successfully reposted articles itself. A cancelled ctx stops between
// articles and returns the outcomes gathered so far with ErrCancelled.
func RecoverAll(ctx context.Context, rp Reposter, articles []string, onDone func(ArticleOutcome)) ([]ArticleOutcome, error) {
	outcomes := make([]ArticleOutcome, 0, len(articles))
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("%w: %w", common.ErrCancelled, err)
		}

		res, err := rp.RepostRaw(ctx, article)
		out := ArticleOutcome{Article: article, Result: res, Err: err}
		outcomes = append(outcomes, out)
		if onDone != nil {
			onDone(out)
		}
	}
	return outcomes, nil
}
