package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/threadrace/internal/download"
	"github.com/agbru/threadrace/internal/format"
)

// DownloadPresenter prints timestamped download events and keeps a spinner
// with the overall count running between them.
type DownloadPresenter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner Spinner
	total   int
	done    int
}

// NewDownloadPresenter builds a presenter for total files. The spinner is
// only animated when animate is set.
func NewDownloadPresenter(out io.Writer, total int, animate bool) *DownloadPresenter {
	p := &DownloadPresenter{out: out, total: total}
	if animate {
		p.spinner = newSpinner(spinner.WithWriter(out))
	}
	return p
}

// Begin starts the spinner.
func (p *DownloadPresenter) Begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		p.spinner.UpdateSuffix(p.suffix())
		p.spinner.Start()
	}
}

// End stops the spinner.
func (p *DownloadPresenter) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

// Started implements download.Reporter.
func (p *DownloadPresenter) Started(file string, at time.Time) {
	p.println(fmt.Sprintf("[%s] ⬇️  Downloading %s...", format.FormatClock(at), file), false)
}

// Completed implements download.Reporter.
func (p *DownloadPresenter) Completed(file string, at time.Time, took time.Duration) {
	p.println(fmt.Sprintf("[%s] ✅ %s downloaded in %s", format.FormatClock(at), file, format.FormatExecutionDuration(took)), true)
}

func (p *DownloadPresenter) println(line string, completed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if completed {
		p.done++
	}
	if p.spinner != nil {
		p.spinner.Stop()
	}
	fmt.Fprintln(p.out, line)
	if p.spinner != nil {
		p.spinner.UpdateSuffix(p.suffix())
		p.spinner.Start()
	}
}

func (p *DownloadPresenter) suffix() string {
	return fmt.Sprintf(" %d/%d files downloaded", p.done, p.total)
}

// PrintDownloadReport prints the joined outcome.
func PrintDownloadReport(out io.Writer, r download.Report) {
	fmt.Fprintf(out, "\nAll downloads finished: %d file(s) in %s\n", r.Processed, format.FormatExecutionDuration(r.Elapsed))
}

var _ download.Reporter = (*DownloadPresenter)(nil)
