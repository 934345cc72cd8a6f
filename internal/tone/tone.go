// Package tone plays tone sequences on the buzzer without blocking the tick.
package tone

import "time"

// Pitch is a tone frequency in Hz. Rest is a silent pause.
type Pitch int

const (
	Rest Pitch = 0

	C4 Pitch = 261
	D4 Pitch = 294
	E4 Pitch = 330
	F4 Pitch = 349
	G4 Pitch = 392
	A4 Pitch = 440
	B4 Pitch = 494

	C5 Pitch = 523
	D5 Pitch = 587
	E5 Pitch = 659
	F5 Pitch = 698
	G5 Pitch = 784
	A5 Pitch = 880
	B5 Pitch = 988
)

// Output drives the buzzer.
type Output interface {
	// SetFrequency selects the tone frequency in Hz.
	SetFrequency(hz int) error
	// SetEnabled starts or silences the tone.
	SetEnabled(on bool) error
}

// Melody is a list of (pitch, duration) pairs. Durations are milliseconds.
type Melody struct {
	Notes     []Pitch
	Durations []uint32
	Loop      bool // restart from the first note instead of finishing
}

// AlarmMelody is played while the alarm rings.
var AlarmMelody = Melody{
	Notes:     []Pitch{C5, E5, G5, C5, E5, G5, Rest},
	Durations: []uint32{150, 150, 300, 150, 150, 300, 400},
	Loop:      true,
}

// CountdownMelody is played while an expired countdown rings.
var CountdownMelody = Melody{
	Notes:     []Pitch{A5, Rest, A5, Rest, A5, Rest},
	Durations: []uint32{100, 100, 100, 100, 100, 500},
	Loop:      true,
}

// Delayer blocks the caller for a while.
type Delayer interface {
	Delay(d time.Duration)
}

// PlayBlocking sounds a single tone for dur and then silences the output.
// It is meant for short signalling beeps from the main loop, never from the
// tick, and must not overlap an active Sequencer.
func PlayBlocking(out Output, d Delayer, p Pitch, dur time.Duration) error {
	if p != Rest {
		if err := out.SetFrequency(int(p)); err != nil {
			return err
		}
		if err := out.SetEnabled(true); err != nil {
			return err
		}
	}
	d.Delay(dur)
	return out.SetEnabled(false)
}

// Silent is an Output for appliances without a buzzer.
type Silent struct{}

func (Silent) SetFrequency(int) error { return nil }
func (Silent) SetEnabled(bool) error  { return nil }
