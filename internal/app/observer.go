package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/nzbmule/nzbmule/internal/pipeline"
	"github.com/nzbmule/nzbmule/internal/rawpost"
)

// consoleObserver renders run progress. On a terminal it keeps one line per
// stage, rewriting it in place; redirected output gets plain lines instead.
type consoleObserver struct {
	w   io.Writer
	tty bool

	stage string
	total int
	done  int
	// dirty means the current terminal line has not been finished with a
	// newline yet.
	dirty bool
}

func newConsoleObserver(w io.Writer) *consoleObserver {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &consoleObserver{w: w, tty: tty}
}

func (c *consoleObserver) BatchStarted(stage string, total int) {
	c.flush()
	c.stage = stage
	c.total = total
	c.done = 0
	fmt.Fprintf(c.w, "%s: %d item(s)\n", stage, total)
}

func (c *consoleObserver) FileFinished(out pipeline.FileOutcome) {
	status := "done"
	switch {
	case out.Skipped:
		status = "skipped, already uploaded"
	case !out.Success():
		status = "failed"
	}
	c.advance(filepath.Base(out.File), status)
}

func (c *consoleObserver) ArticleFinished(out rawpost.ArticleOutcome) {
	status := "reposted"
	if !out.Success() {
		status = "failed"
	}
	c.advance(filepath.Base(out.Article), status)
}

func (c *consoleObserver) advance(name, status string) {
	c.done++
	if !c.tty {
		fmt.Fprintf(c.w, "%s %d/%d %s: %s\n", c.stage, c.done, c.total, name, status)
		return
	}

	// \r\033[K rewinds and wipes the progress line before redrawing it.
	fmt.Fprintf(c.w, "\r\033[K%s %d/%d %s: %s", c.stage, c.done, c.total, name, status)
	c.dirty = true
	if c.done >= c.total {
		c.flush()
	}
}

// flush finishes a half-written terminal line so following output starts
// clean.
func (c *consoleObserver) flush() {
	if c.dirty {
		fmt.Fprintln(c.w)
		c.dirty = false
	}
}
