package display

import (
	"io"
	"strings"
	"sync"

	"qgxf-trainer/internal/logger"
)

const (
	ansiEsc     = "\x1b"
	ansiClear   = ansiEsc + "[2J"
	ansiErase   = ansiEsc + "[J"
	ansiHome    = ansiEsc + "[H"
	ansiNoColor = ansiEsc + "[0m"
)

// Engine owns the ordered set of visible lines and the single render
// goroutine with exclusive write access to the terminal.
type Engine struct {
	mu   sync.Mutex
	cond *sync.Cond

	out   io.Writer
	lines []*Line

	paintRequested bool
	clearRequested bool
	closed         bool

	wg  sync.WaitGroup
	log *logger.Logger
}

// New constructs an Engine writing to out and starts its render goroutine.
// Callers must Close the engine to stop and join the goroutine.
func New(out io.Writer, log *logger.Logger) *Engine {
	e := &Engine{out: out, log: log}
	e.cond = sync.NewCond(&e.mu)

	e.wg.Add(1)
	go e.renderLoop()

	e.mu.Lock()
	e.requestPaint()
	e.mu.Unlock()

	return e
}

// AddLine appends a new line with the given initial content and returns its
// handle.
func (e *Engine) AddLine(spans ...Span) *Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := &Line{eng: e, spans: spans}
	e.lines = append(e.lines, l)
	e.requestPaint()
	return l
}

// AddLinef appends a new line holding a single formatted span.
func (e *Engine) AddLinef(style Style, format string, args ...any) *Line {
	return e.AddLine(Textf(style, format, args...))
}

// RemoveLine removes the line from the display. Removing a line that is not
// present is a no-op, so removal is idempotent.
func (e *Engine) RemoveLine(l *Line) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, cur := range e.lines {
		if cur == l {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			e.requestPaint()
			return
		}
	}
}

// RemoveAll drops every line and forces a full screen clear on the next
// paint so rows beyond the new, shorter output are erased.
func (e *Engine) RemoveAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	e.clearRequested = true
	e.requestPaint()
}

// Close stops the render goroutine and blocks until it has exited. A pending
// repaint is flushed before shutdown.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()

	e.wg.Wait()
}

// requestPaint flags a repaint and wakes the render goroutine.
// Callers must hold the engine lock.
func (e *Engine) requestPaint() {
	e.paintRequested = true
	e.cond.Signal()
}

func (e *Engine) renderLoop() {
	defer e.wg.Done()

	for {
		e.mu.Lock()
		for !e.paintRequested && !e.closed {
			e.cond.Wait()
		}
		if !e.paintRequested && e.closed {
			e.mu.Unlock()
			return
		}
		e.paintRequested = false
		fullClear := e.clearRequested
		e.clearRequested = false
		snapshot := e.snapshot()
		e.mu.Unlock()

		e.paint(fullClear, snapshot)
	}
}

// snapshot renders every line's current string as of a single consistent
// point in time. Callers must hold the engine lock.
func (e *Engine) snapshot() []string {
	rendered := make([]string, len(e.lines))
	for i, l := range e.lines {
		rendered[i] = l.rendered()
	}
	return rendered
}

// paint writes one consolidated terminal update outside the lock. Terminal
// I/O failures are logged and swallowed: the display is best-effort relative
// to the jobs' remote-side outcome.
func (e *Engine) paint(fullClear bool, snapshot []string) {
	var b strings.Builder
	if fullClear {
		b.WriteString(ansiClear)
	}
	b.WriteString(ansiHome)
	b.WriteString(strings.Join(snapshot, "\n"))
	b.WriteString(ansiErase)

	if _, err := io.WriteString(e.out, b.String()); err != nil {
		e.log.Debug().Err(err).Msg("terminal write failed")
	}
}
