package serial

import (
	"io"
	"sync"
)

// LineEnding terminates every reply line.
const LineEnding = "\r\n"

// Writer sends reply lines to the console.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteLine writes s followed by LineEnding.
func (w *Writer) WriteLine(s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(w.w, s+LineEnding)
	return err
}

// WriteLines writes each line in order, stopping at the first error.
func (w *Writer) WriteLines(lines []string) error {
	for _, l := range lines {
		if err := w.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}
