// Package serial carries the command console: a line-oriented port, a reader
// that hands each completed line to the main loop through a single-slot
// mailbox, and a writer for replies.
package serial

import (
	"fmt"
	"io"
	"os"

	"github.com/tarm/serial"
)

// Stdio is the device name that selects the process's stdin/stdout.
const Stdio = "-"

// DefaultBaud matches the console of the reference board.
const DefaultBaud = 115200

// Config selects the console port.
type Config struct {
	// Device path (e.g. "/dev/ttyAMA0") or Stdio.
	Device string

	Baud int
}

// Open opens the console port.
func Open(cfg Config) (io.ReadWriteCloser, error) {
	if cfg.Device == Stdio || cfg.Device == "" {
		return stdio{}, nil
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: cfg.Device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// Close leaves the process's standard streams open.
func (stdio) Close() error { return nil }
