package display

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is a small integer foreground color code for one span of text.
// StyleDefault renders the span without any escape wrapping.
type Style int

// Foreground styles, mapped onto the standard ANSI 30–37 range.
const (
	StyleDefault Style = 0
	StyleRed     Style = 1
	StyleGreen   Style = 2
	StyleYellow  Style = 3
	StyleBlue    Style = 4
	StyleMagenta Style = 5
	StyleCyan    Style = 6
	StyleWhite   Style = 7
)

// Span is one styled fragment of a line.
type Span struct {
	Text  string
	Style Style
}

// Text is a convenience constructor for a styled span.
func Text(text string, style Style) Span {
	return Span{Text: text, Style: style}
}

// Textf formats a styled span.
func Textf(style Style, format string, args ...any) Span {
	return Span{Text: fmt.Sprintf(format, args...), Style: style}
}

func (s Span) render(b *strings.Builder) {
	if s.Style == StyleDefault {
		b.WriteString(s.Text)
		return
	}
	b.WriteString(ansiEsc)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(30 + int(s.Style)))
	b.WriteByte('m')
	b.WriteString(s.Text)
	b.WriteString(ansiNoColor)
}

// Line is a mutable, independently addressable row of the display. Callers
// hold the handle returned by Engine.AddLine and may replace or append to
// its content from any goroutine; identity is by handle, not by position.
type Line struct {
	eng   *Engine
	spans []Span
}

// Set replaces the line's content and requests a repaint.
func (l *Line) Set(spans ...Span) {
	l.write(false, spans)
}

// Append extends the line's content and requests a repaint.
func (l *Line) Append(spans ...Span) {
	l.write(true, spans)
}

// Setf replaces the line's content with a single formatted span.
func (l *Line) Setf(style Style, format string, args ...any) {
	l.Set(Textf(style, format, args...))
}

func (l *Line) write(appendContent bool, spans []Span) {
	l.eng.mu.Lock()
	defer l.eng.mu.Unlock()

	if appendContent {
		l.spans = append(l.spans, spans...)
	} else {
		l.spans = spans
	}
	l.eng.requestPaint()
}

// rendered concatenates the spans with per-span escape wrapping.
// Callers must hold the engine lock.
func (l *Line) rendered() string {
	var b strings.Builder
	for _, s := range l.spans {
		s.render(&b)
	}
	return b.String()
}
