// Package prompt reads interactive answers from the user while the display
// engine owns the terminal: each question is rendered as a display line and
// the reply is read from the input stream.
package prompt

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"qgxf-trainer/internal/display"
)

// Prompter asks questions through the display and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	eng *display.Engine
}

// New builds a Prompter. in is typically os.Stdin.
func New(in io.Reader, eng *display.Engine) *Prompter {
	return &Prompter{in: bufio.NewReader(in), eng: eng}
}

// Line shows the question on its own line, reads one reply and echoes it
// back onto the question line. The reply is whitespace-trimmed.
func (p *Prompter) Line(question string) (string, error) {
	line := p.eng.AddLinef(display.StyleYellow, "%s: ", question)
	reply, err := p.read()
	if err != nil {
		return "", err
	}
	line.Setf(display.StyleYellow, "%s: %s", question, reply)
	return reply, nil
}

// Secret behaves like Line but removes the question line once the reply is
// in, so the value does not linger on screen.
func (p *Prompter) Secret(question string) (string, error) {
	line := p.eng.AddLinef(display.StyleYellow, "%s: ", question)
	defer p.eng.RemoveLine(line)
	return p.read()
}

// Int asks for a number within [min, max]. An empty, unparseable or
// out-of-range reply falls back to def.
func (p *Prompter) Int(question string, def, min, max int) (int, error) {
	line := p.eng.AddLinef(display.StyleYellow, "%s [%d]: ", question, def)
	reply, err := p.read()
	if err != nil {
		return 0, err
	}

	n, convErr := strconv.Atoi(reply)
	if reply == "" || convErr != nil || n < min || n > max {
		n = def
	}
	line.Setf(display.StyleYellow, "%s [%d]: %d", question, def, n)
	return n, nil
}

// YesNo asks a yes/no question. Only a reply starting with the opposite of
// the default flips it; everything else keeps def.
func (p *Prompter) YesNo(question string, def bool) (bool, error) {
	hint := "Y/n"
	if !def {
		hint = "y/N"
	}
	line := p.eng.AddLinef(display.StyleYellow, "%s (%s): ", question, hint)
	reply, err := p.read()
	if err != nil {
		return false, err
	}

	answer := def
	switch strings.ToLower(reply) {
	case "y", "yes":
		answer = true
	case "n", "no":
		answer = false
	}
	shown := "no"
	if answer {
		shown = "yes"
	}
	line.Setf(display.StyleYellow, "%s (%s): %s", question, hint, shown)
	return answer, nil
}

// WaitEnter blocks until the user presses Enter.
func (p *Prompter) WaitEnter(message string) error {
	p.eng.AddLine(display.Text(message, display.StyleYellow))
	_, err := p.read()
	return err
}

// read consumes one input line. A final unterminated line at EOF still
// counts as a reply.
func (p *Prompter) read() (string, error) {
	reply, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && reply != "") {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
