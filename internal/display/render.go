package display

import (
	"fmt"
	"time"
)

// Bus is the multiplexed display port pair.
type Bus interface {
	// WriteSegments latches the segment byte shared by all digits.
	WriteSegments(seg byte) error
	// WriteDigits drives the digit enable lines, bit i for physical digit i.
	WriteDigits(mask byte) error
}

// Delayer blocks for the inter-digit period.
type Delayer interface {
	Delay(d time.Duration)
}

// Renderer strobes frames onto a Bus one digit at a time.
type Renderer struct {
	bus        Bus
	delay      Delayer
	interDigit time.Duration
}

// NewRenderer creates a renderer.
func NewRenderer(bus Bus, d Delayer, interDigit time.Duration) *Renderer {
	return &Renderer{bus: bus, delay: d, interDigit: interDigit}
}

// Render drives each digit of f in turn, gated by mask. It blocks for one
// full multiplex pass and stops at the first bus error.
func (r *Renderer) Render(f Frame, mask byte) error {
	for i := 0; i < Digits; i++ {
		if err := r.bus.WriteSegments(f[i]); err != nil {
			return fmt.Errorf("digit %d segments: %w", i, err)
		}
		if err := r.bus.WriteDigits(byte(1<<i) & mask); err != nil {
			return fmt.Errorf("digit %d enable: %w", i, err)
		}
		r.delay.Delay(r.interDigit)
		if err := r.bus.WriteDigits(0); err != nil {
			return fmt.Errorf("digit %d disable: %w", i, err)
		}
	}
	return nil
}

// Blank turns every digit off.
func (r *Renderer) Blank() error {
	if err := r.bus.WriteDigits(0); err != nil {
		return fmt.Errorf("blank: %w", err)
	}
	return nil
}
