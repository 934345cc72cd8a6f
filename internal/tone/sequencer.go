package tone

import (
	"log"

	"github.com/sweeney/seg-clock/internal/sched"
)

// Sequencer advances through a melody one note at a time, timing each note
// with the Buzzer inner timer slot.
// Not safe for concurrent use: call Play and Stop inside the scheduler's
// critical section, AdvanceIfDue from a tick hook.
type Sequencer struct {
	out  Output
	bank *sched.Bank

	notes     []Pitch
	durations []uint32
	loop      bool
	cursor    int
	active    bool

	errors int
}

// NewSequencer creates a sequencer that times notes with bank.
func NewSequencer(out Output, bank *sched.Bank) *Sequencer {
	return &Sequencer{out: out, bank: bank}
}

// Play replaces the current sequence and starts it from the first note on
// the next tick.
func (s *Sequencer) Play(m Melody) {
	n := len(m.Notes)
	if len(m.Durations) < n {
		n = len(m.Durations)
	}
	s.notes = m.Notes[:n]
	s.durations = m.Durations[:n]
	s.loop = m.Loop
	s.cursor = 0
	s.active = n > 0
	s.bank.Clear(sched.Buzzer)
}

// Active reports whether a sequence is playing.
func (s *Sequencer) Active() bool {
	return s.active
}

// AdvanceIfDue programs the next note once the current one has run its
// duration. After the last note the sequence either restarts (Loop) or
// finishes and silences the output.
func (s *Sequencer) AdvanceIfDue() {
	if !s.active || s.bank.Active(sched.Buzzer) {
		return
	}
	if s.cursor >= len(s.notes) {
		if !s.loop {
			s.Stop()
			return
		}
		s.cursor = 0
	}

	note := s.notes[s.cursor]
	if note == Rest {
		s.check(s.out.SetEnabled(false))
	} else {
		s.check(s.out.SetFrequency(int(note)))
		s.check(s.out.SetEnabled(true))
	}
	s.bank.Arm(sched.Buzzer, s.durations[s.cursor])
	s.cursor++
}

// Stop silences the output immediately regardless of the cursor position.
func (s *Sequencer) Stop() {
	s.active = false
	s.cursor = 0
	s.bank.Clear(sched.Buzzer)
	s.check(s.out.SetEnabled(false))
}

// Errors returns the number of failed output calls.
func (s *Sequencer) Errors() int {
	return s.errors
}

func (s *Sequencer) check(err error) {
	if err == nil {
		return
	}
	s.errors++
	if s.errors == 1 || s.errors%100 == 0 {
		log.Printf("tone: output error (%d so far): %v", s.errors, err)
	}
}
