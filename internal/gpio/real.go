//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the panel button from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealReader requests the panel line as an input with pull-up, matching
// the button wiring to ground.
func NewRealReader(chipName string, offset int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("seg-clock"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request panel line %d: %w", offset, err)
	}

	return &RealReader{chip: chip, line: line}, nil
}

// Read returns whether the button is pressed. Inverts raw GPIO: raw 0 = pressed.
func (r *RealReader) Read() (bool, error) {
	raw, err := r.line.Value()
	if err != nil {
		return false, fmt.Errorf("read panel line: %w", err)
	}
	return raw == 0, nil
}

// Close releases the line and then the chip.
func (r *RealReader) Close() error {
	var lineErr, chipErr error
	if r.line != nil {
		if err := r.line.Close(); err != nil {
			lineErr = fmt.Errorf("close panel line: %w", err)
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			chipErr = fmt.Errorf("close chip: %w", err)
		}
	}
	return errors.Join(lineErr, chipErr)
}
