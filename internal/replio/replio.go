// Package replio wraps github.com/chzyer/readline to give Aspic's REPL
// line editing and history, replacing the original's GNU readline
// dependency (repl.c) and the teacher's bare bufio.Scanner loop.
package replio

import (
	"io"

	"github.com/chzyer/readline"
)

// Session is a line-editing REPL input source. Tab is bound to literal
// insertion rather than path completion, mirroring repl.c's
// `rl_bind_key('\t', rl_insert)`.
type Session struct {
	rl *readline.Instance
}

// New starts a readline session writing its prompt/echo to stdout/stderr
// through readline's own terminal handling.
func New(prompt string) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Session{rl: rl}, nil
}

// SetPrompt changes the prompt shown on the next ReadLine call.
func (s *Session) SetPrompt(prompt string) {
	s.rl.SetPrompt(prompt)
}

// ReadLine blocks for one line of input. io.EOF is returned on Ctrl-D.
func (s *Session) ReadLine() (string, error) {
	line, err := s.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// Close releases the underlying terminal state.
func (s *Session) Close() error {
	return s.rl.Close()
}
