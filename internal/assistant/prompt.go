package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	log "log/slog"
)

// MaxLineBytes bounds one input line. Longer lines are skipped.
const MaxLineBytes = 1 << 20

type Prompter interface {
	// Ask shows label and blocks for one line of input. It returns io.EOF
	// once input is exhausted.
	Ask(ctx context.Context, label string) (string, error)
}

type line struct {
	text string
	err  error
}

// LinePrompter reads lines from in on a single background reader so a
// pending read does not outlive ctx.
type LinePrompter struct {
	out   io.Writer
	lines chan line
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	p := &LinePrompter{out: out, lines: make(chan line)}
	go p.scan(in)
	return p
}

func (p *LinePrompter) scan(in io.Reader) {
	r := bufio.NewReader(in)
	for {
		text, skipped, err := readLine(r, MaxLineBytes)
		if err != nil {
			p.lines <- line{err: err}
			close(p.lines)
			return
		}
		if skipped {
			log.Warn("Skipping oversized input line", "limit", MaxLineBytes)
			continue
		}
		p.lines <- line{text: text}
	}
}

// readLine returns the next line without its line ending. A line over max
// bytes is drained and reported as skipped.
func readLine(r *bufio.Reader, max int) (string, bool, error) {
	var buf []byte
	skipped := false
	for {
		chunk, more, err := r.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !skipped {
			if len(buf)+len(chunk) > max {
				skipped, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !more {
			return string(buf), skipped, nil
		}
	}
}

func (p *LinePrompter) Ask(ctx context.Context, label string) (string, error) {
	fmt.Fprint(p.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}
