// Package display composes the four appliance screens into segment frames
// and strobes them onto the multiplexed digit bus.
package display

import (
	"fmt"

	"github.com/sweeney/seg-clock/internal/clock"
)

// Digits is the number of digit positions on the display.
const Digits = 8

// Kind selects one of the screens. It doubles as the UI display mode.
type Kind int

const (
	KindTime Kind = iota
	KindDate
	KindAlarm
	KindCountdown
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindAlarm:
		return "alarm"
	case KindCountdown:
		return "cdown"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Next returns the following screen, wrapping after Countdown.
func (k Kind) Next() Kind {
	return (k + 1) % numKinds
}

// Screen is the logical content of the display, left to right.
type Screen struct {
	Kind   Kind
	Glyphs [Digits]rune
	Points uint8 // bit i lights the decimal point of logical position i
}

// Separator positions carry a decimal point between field groups.
const separators uint8 = 1<<3 | 1<<5

func screenOf(k Kind, text string, points uint8) Screen {
	s := Screen{Kind: k, Points: points}
	for i := range s.Glyphs {
		s.Glyphs[i] = ' '
	}
	for i, r := range []rune(text) {
		if i >= Digits {
			break
		}
		s.Glyphs[i] = r
	}
	return s
}

// TimeScreen shows "  hh.mm.ss".
func TimeScreen(c *clock.Calendar) Screen {
	return screenOf(KindTime, fmt.Sprintf("  %02d%02d%02d", c.Hour, c.Min, c.Sec), separators)
}

// DateScreen shows "yyyy.mm.dd" with a 1-based month.
func DateScreen(c *clock.Calendar) Screen {
	return screenOf(KindDate, fmt.Sprintf("%04d%02d%02d", c.Year%10000, c.Month+1, c.MDay), separators)
}

// AlarmScreen shows "ALhh.mm.ss". The last decimal point is lit while the
// alarm is enabled.
func AlarmScreen(a *clock.Alarm) Screen {
	points := separators
	if a.Enabled {
		points |= 1 << 7
	}
	return screenOf(KindAlarm, fmt.Sprintf("AL%02d%02d%02d", a.Hour, a.Min, a.Sec), points)
}

// CountdownScreen shows "cdmm.ss.cc" with hundredths of a second.
func CountdownScreen(t *clock.Countdown) Screen {
	return screenOf(KindCountdown, fmt.Sprintf("cd%02d%02d%02d", t.Min, t.Sec, t.Millisec/10), separators)
}

// Frame holds one segment byte per physical digit.
type Frame [Digits]byte

// Compose converts s to segments. In flip mode the physical order is
// reversed, each glyph is rotated, and a decimal point moves to the
// physical digit that sits on the same side of the separator.
func Compose(s Screen, flip bool) Frame {
	var f Frame
	for i, r := range s.Glyphs {
		phys := i
		if flip {
			phys = Digits - 1 - i
		}
		f[phys] = Glyph(r, flip)
	}
	for i := 0; i < Digits; i++ {
		if s.Points&(1<<i) == 0 {
			continue
		}
		if !flip {
			f[i] |= segDP
			continue
		}
		if phys := Digits - 1 - (i + 1); phys >= 0 {
			f[phys] |= segDP
		}
	}
	return f
}
