package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user questions on a line-oriented terminal. It is meant
// to be used from a single goroutine.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// pending holds the read still in flight when a previous prompt was
	// interrupted, so the next prompt consumes its line instead of starting
	// a second concurrent read.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next input line, or ctx.Err() as soon as ctx ends.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}
	select {
	case r := <-p.pending:
		p.pending = nil
		return r.line, r.err
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	}
}

// WaitForEnter prints msg and blocks until a line is read. It returns
// io.EOF when input is closed and ctx.Err() when ctx ends first.
func (p *Prompter) WaitForEnter(ctx context.Context, msg string) error {
	fmt.Fprint(p.out, msg)
	_, err := p.readLine(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return io.EOF
	}
	return err
}

// Confirm asks a yes/no question. Only "y" and "yes" (any case) count as
// yes; closed input counts as no. The error is non-nil only when ctx ended
// before an answer arrived.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/n): ", question)
	line, err := p.readLine(ctx)
	if err != nil && errors.Is(err, ctx.Err()) {
		return false, err
	}
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
