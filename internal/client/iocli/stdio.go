package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх произвольных reader/writer.
// Если in является терминалом, пароли читаются без эха.
type Stdio struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

// NewStdio returns IO bound to os.Stdin and os.Stdout.
func NewStdio() IO {
	return NewStdioWith(os.Stdin, os.Stdout)
}

func NewStdioWith(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)

	if f, ok := s.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pwBytes, err := term.ReadPassword(int(f.Fd()))
		s.Println("")
		if err != nil {
			return "", err
		}
		return string(pwBytes), nil
	}

	// не терминал (pipe, тесты): читаем строку как есть
	return s.readLine()
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
