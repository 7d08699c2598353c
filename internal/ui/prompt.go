package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Policy decides how prompts are answered.
type Policy int

const (
	// PolicyAsk reads answers from the user.
	PolicyAsk Policy = iota
	// PolicyDefault accepts every default without reading input.
	PolicyDefault
	// PolicyYes answers yes to every confirmation.
	PolicyYes
	// PolicyNo answers no to every confirmation.
	PolicyNo
)

// Prompter asks the user questions.
type Prompter interface {
	// Ask returns the user's answer to prompt, or def on an empty answer.
	Ask(prompt, def string) string

	// Confirm returns the user's yes/no answer, or def on an empty answer.
	Confirm(prompt string, def bool) bool
}

// TerminalPrompter reads answers line by line from In.
type TerminalPrompter struct {
	In     *bufio.Reader
	Out    io.Writer
	Policy Policy
}

// NewTerminalPrompter creates a prompter on stdin/stdout. A non-interactive
// stdin turns PolicyAsk into PolicyDefault so scripted runs never block.
func NewTerminalPrompter(policy Policy) *TerminalPrompter {
	if policy == PolicyAsk && !IsTerminal(os.Stdin) {
		policy = PolicyDefault
	}
	return &TerminalPrompter{
		In:     bufio.NewReader(os.Stdin),
		Out:    os.Stdout,
		Policy: policy,
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Ask prints prompt with its default and reads one line.
// Under any non-asking policy the default is returned immediately.
func (p *TerminalPrompter) Ask(prompt, def string) string {
	if p.Policy != PolicyAsk {
		return def
	}

	full := prompt + ": "
	if def != "" {
		full = fmt.Sprintf("%s [%s]: ", prompt, def)
	}
	_, _ = fmt.Fprint(p.Out, infoColor.Sprint("? "), full)

	line, err := p.In.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		// EOF: behave like an empty answer
		_, _ = fmt.Fprintln(p.Out)
		return def
	}
	if line == "" {
		return def
	}
	return line
}

// Confirm asks a yes/no question, looping until the answer is recognized.
func (p *TerminalPrompter) Confirm(prompt string, def bool) bool {
	switch p.Policy {
	case PolicyYes:
		return true
	case PolicyNo:
		return false
	case PolicyDefault:
		return def
	}

	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		_, _ = fmt.Fprintf(p.Out, "%s%s %s: ", infoColor.Sprint("? "), prompt, hint)
		response, err := p.In.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if err != nil && response == "" {
			_, _ = fmt.Fprintln(p.Out)
			return def
		}

		switch response {
		case "":
			return def
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		_, _ = warningColor.Fprintln(p.Out, "Invalid input.")
	}
}

// Scripted implements Prompter with canned answers, consumed in order.
// An exhausted script answers with the default. Used in tests.
type Scripted struct {
	Answers []string

	// Asked records every prompt shown, in order.
	Asked []string
}

func (s *Scripted) next() (string, bool) {
	if len(s.Answers) == 0 {
		return "", false
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, true
}

// Ask returns the next scripted answer, or def when it is empty.
func (s *Scripted) Ask(prompt, def string) string {
	s.Asked = append(s.Asked, prompt)
	a, ok := s.next()
	if !ok || a == "" {
		return def
	}
	return a
}

// Confirm interprets the next scripted answer as yes/no.
func (s *Scripted) Confirm(prompt string, def bool) bool {
	s.Asked = append(s.Asked, prompt)
	a, ok := s.next()
	if !ok || a == "" {
		return def
	}
	switch strings.ToLower(a) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}
