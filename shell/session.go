// Package shell drives a string multimap from line-oriented commands.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"MVDB/log"
	"MVDB/multimap"
)

const prompt = "-> "

type Session struct {
	mm          *multimap.Multimap[string, string]
	logger      log.Logger
	interactive bool
}

func NewSession(mm *multimap.Multimap[string, string], logger log.Logger) *Session {
	if logger == nil {
		logger = log.Nop()
	}
	return &Session{mm: mm, logger: logger.Named("shell")}
}

// Interactive makes Run print a prompt before every line.
func (s *Session) Interactive(on bool) *Session {
	s.interactive = on
	return s
}

// Execute parses and applies one command line. Blank lines are skipped and
// yield ok == false.
func (s *Session) Execute(line string) (reply Reply, ok bool) {
	_, reply, ok = s.execute(line)
	return reply, ok
}

func (s *Session) execute(line string) (Op, Reply, bool) {
	op, err, ok := ParseOp(line)
	if !ok {
		return op, Reply{}, false
	}
	if err != OK {
		s.logger.Debugw("rejected command", "line", line, "err", err)
		return op, Reply{Err: err}, true
	}
	reply := s.apply(&op)
	s.logger.Debugw("applied", "op", op.Type, "key", op.Key, "err", reply.Err)
	return op, reply, true
}

// Run executes commands from in until EOF or until ctx is done, writing one
// line per reply to out. Quiet commands print nothing when they succeed.
//
// Lines are read on a separate goroutine so that a cancelled ctx ends Run
// while it waits for input. That goroutine exits once in returns from its
// pending Read.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Infow("session started",
		"queue", s.mm.QueueType(), "reverse", s.mm.ReverseOrder())
	defer func() {
		s.logger.Infow("session finished", "len", s.mm.Len())
	}()

	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			fmt.Fprint(out, prompt)
		}
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return errors.Wrap(<-readErr, "read commands")
			}
			line = l
		}

		op, reply, ok := s.execute(line)
		if !ok {
			continue
		}
		if reply.Err != OK {
			fmt.Fprintf(out, "error: %s\n", reply.Err)
			continue
		}
		if op.Type.quiet() {
			continue
		}
		if reply.Value == "" {
			fmt.Fprintln(out, `""`)
			continue
		}
		fmt.Fprintln(out, reply.Value)
	}
}

// readLines sends every line of in on the returned channel and closes it at
// EOF, after putting the scanner error on the error channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}
