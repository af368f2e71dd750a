package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers line by line. When input is a terminal, hidden
// answers are read without echo.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	terminal bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.terminal = true
	}
	return p
}

// Line returns the trimmed answer. io.EOF means input ended with nothing
// left to read.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret reads an answer that is echoed only when visible is set.
func (p *prompter) Secret(label string, visible bool) (string, error) {
	if visible || !p.terminal {
		return p.Line(label)
	}

	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
