package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

// Prompter reads operator answers line by line. Lines are read on a
// background goroutine, so a blocked read gives way to ctx cancellation.
type Prompter struct {
	out   *Renderer
	lines <-chan string
}

func NewPrompter(in io.Reader, out *Renderer) *Prompter {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &Prompter{out: out, lines: lines}
}

// Ask prints label and waits for one line. It returns io.EOF once input is exhausted.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	p.out.Printf("%s", label)
	select {
	case <-ctx.Done():
		p.out.Println("")
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			p.out.Println("")
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// Confirm asks until the answer is Y or N, case-insensitively.
func (p *Prompter) Confirm(ctx context.Context, label string) (bool, error) {
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(answer) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
		p.out.Error("Please enter Y or N.")
	}
}

// AskValid asks until parse accepts the answer. Input errors are shown and
// the question repeated; any other error is returned.
func AskValid[T any](ctx context.Context, p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return zero, err
		}
		value, err := parse(answer)
		if err == nil {
			return value, nil
		}
		if !IsInputError(err) {
			return zero, err
		}
		p.out.Error(errorMessage(err) + " Please try again.")
	}
}

// IsInputError reports whether err rejects a single answer rather than the session.
func IsInputError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidEnum,
		domain.ErrInvalidRange,
		domain.ErrInvalidSelection,
		domain.ErrDuplicateSelection,
		domain.ErrDuplicateKey,
		domain.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Invalid input."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
