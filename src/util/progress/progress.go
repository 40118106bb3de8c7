// Package progress reports byte progress for long archive operations.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Reader wraps an io.Reader and periodically writes progress updates
// to out. Safe for the single-goroutine use the archive paths make of
// it; no locking.
type Reader struct {
	r           io.Reader
	out         io.Writer
	label       string
	total       int64
	read        int64
	lastPrinted time.Time
}

// NewReader creates a progress Reader. A zero total omits the
// percentage. A nil out disables reporting entirely.
func NewReader(r io.Reader, total int64, label string, out io.Writer) *Reader {
	return &Reader{r: r, out: out, label: label, total: total}
}

func (p *Reader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if now := time.Now(); now.Sub(p.lastPrinted) >= 200*time.Millisecond {
			p.print()
			p.lastPrinted = now
		}
	}
	if err == io.EOF && p.out != nil {
		p.print()
		fmt.Fprint(p.out, "\n")
	}
	return n, err
}

func (p *Reader) print() {
	if p.out == nil {
		return
	}
	if p.total > 0 {
		pct := float64(p.read) / float64(p.total) * 100
		fmt.Fprintf(p.out, "\r[%s] %.1f%% (%s of %s)", p.label, pct, humanize.Bytes(uint64(p.read)), humanize.Bytes(uint64(p.total)))
	} else {
		fmt.Fprintf(p.out, "\r[%s] %s", p.label, humanize.Bytes(uint64(p.read)))
	}
}
