package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
)

// lineReader reads the interactive commands of play and replay
type lineReader interface {
	// ReadLine shows prompt and returns the next line, or io.EOF when input ends
	ReadLine(prompt string) (string, error)
	Close() error
}

// newLineReader uses readline with history when in is a terminal, and a
// plain scanner otherwise so scripts and tests can pipe commands in
func newLineReader(in io.Reader, out io.Writer) (lineReader, error) {
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			HistoryFile:       historyFile(),
			HistorySearchFold: true,
			InterruptPrompt:   "^C",
			EOFPrompt:         "quit",
			Stdout:            out,
		})
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		return &terminalReader{rl: rl}, nil
	}
	return &scanReader{in: bufio.NewScanner(in), out: out}, nil
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wordmaster_history")
}

type terminalReader struct {
	rl *readline.Instance
}

func (r *terminalReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// ^C clears a half-typed line and quits from an empty one
			if line != "" {
				continue
			}
			return "", io.EOF
		}
		return line, err
	}
}

func (r *terminalReader) Close() error {
	return r.rl.Close()
}

type scanReader struct {
	in  *bufio.Scanner
	out io.Writer
}

func (r *scanReader) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.in.Text(), nil
}

func (r *scanReader) Close() error {
	return nil
}

// splitCommand splits a command line shell-style, so file names may be quoted
func splitCommand(line string) ([]string, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	return fields, nil
}
