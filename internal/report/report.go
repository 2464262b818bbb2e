// Package report runs the CSV report stream on its own goroutine so
// formatting and writing a report line never blocks the driver's tick loop.
// The only concurrency in this repository lives here: cell execution itself
// stays strictly serial (spec §5 Non-goals), but emitting the stdout report
// line is an I/O-bound side job the driver can hand off and forget, the way
// the teacher hands a grid strip to a worker goroutine in step_par.go.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/evopond/pond/internal/stats"
)

// Line is an immutable snapshot ready to be formatted and written: the
// report line's content is fixed the instant the driver samples the pond
// and its statistics, so the reporter goroutine never touches live state.
type Line struct {
	Statistics stats.Statistics
	Snapshot   stats.PondSnapshot
}

// Reporter owns a background goroutine draining a channel of Line values and
// writing the formatted CSV line to w, one per report interval.
type Reporter struct {
	w      io.Writer
	lines  chan Line
	wg     sync.WaitGroup
	closed bool
}

// New starts the reporter's goroutine. buffer is the channel capacity;
// Submit blocks once it fills, which bounds how far the driver can run
// ahead of a slow writer.
func New(w io.Writer, buffer int) *Reporter {
	r := &Reporter{
		w:     w,
		lines: make(chan Line, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Reporter) run() {
	defer r.wg.Done()
	for line := range r.lines {
		s := line.Statistics
		fmt.Fprintln(r.w, s.ReportLine(line.Snapshot))
	}
}

// Submit hands a snapshot to the reporter goroutine. It must not be called
// after Close.
func (r *Reporter) Submit(line Line) {
	r.lines <- line
}

// Close drains any pending lines and blocks until the goroutine exits. After
// Close, Submit must not be called again.
func (r *Reporter) Close() {
	if r.closed {
		return
	}
	r.closed = true
	close(r.lines)
	r.wg.Wait()
}
