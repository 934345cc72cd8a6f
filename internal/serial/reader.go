package serial

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"strings"
)

// MaxLine bounds a single command line. Longer lines are discarded whole.
const MaxLine = 128

// Reader splits the console stream into lines and posts them to a Mailbox.
type Reader struct {
	r    io.Reader
	box  *Mailbox
	busy func(line string)

	dropped    int
	overlong   int
	discarding bool
}

// NewReader creates a Reader posting to box. busy, if non-nil, is called
// for each line rejected because the previous one is still pending.
func NewReader(r io.Reader, box *Mailbox, busy func(line string)) *Reader {
	return &Reader{r: r, box: box, busy: busy}
}

// Run reads lines until the stream ends or ctx is cancelled. Cancellation
// takes effect at the next line boundary; close the underlying port to
// unblock a pending read.
func (r *Reader) Run(ctx context.Context) error {
	sc := bufio.NewScanner(r.r)
	sc.Buffer(make([]byte, 0, MaxLine), MaxLine)
	sc.Split(r.scanLines)

	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		log.Printf("serial: received %q", line)
		if !r.box.Put(line) {
			r.dropped++
			log.Printf("serial: busy, dropped %q", line)
			if r.busy != nil {
				r.busy(line)
			}
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

// Dropped returns the number of lines rejected by a full mailbox.
func (r *Reader) Dropped() int {
	return r.dropped
}

// Overlong returns the number of lines discarded for exceeding MaxLine.
func (r *Reader) Overlong() int {
	return r.overlong
}

// scanLines is bufio.ScanLines that also accepts a bare CR terminator,
// as sent by most serial terminals, and skips lines longer than MaxLine
// up to and including their terminator.
func (r *Reader) scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if r.discarding {
			r.discarding = false
			return i + 1, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if len(data) >= MaxLine {
		if !r.discarding {
			r.discarding = true
			r.overlong++
			log.Printf("serial: discarding line longer than %d bytes", MaxLine)
		}
		return len(data), nil, nil
	}
	if atEOF {
		if r.discarding {
			return len(data), nil, nil
		}
		return len(data), data, nil
	}
	return 0, nil, nil
}
