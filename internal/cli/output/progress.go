package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress reports how many workloads of a suite have finished. It writes
// a single line redrawn with carriage returns, so point it at a terminal
// stream rather than at the results writer.
type Progress struct {
	w     io.Writer
	title string
	total int
	done  int
	width int
	mu    sync.Mutex
}

// NewProgress creates a progress line for total steps.
func NewProgress(w io.Writer, title string, total int) *Progress {
	return &Progress{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Step marks one more step finished and shows its label.
func (p *Progress) Step(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.render(label)
}

// Finish draws the completed bar and ends the line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		p.done = p.total
	}
	p.render("done")
	fmt.Fprintln(p.w)
}

func (p *Progress) render(label string) {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r\033[K%s %d %s", p.title, p.done, label)
		return
	}

	done := min(p.done, p.total)
	filled := p.width * done / p.total
	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)
	fmt.Fprintf(p.w, "\r\033[K%s [%s] %d/%d %s", p.title, bar, done, p.total, label)
}
