package ui

import (
	"github.com/sweeney/seg-clock/internal/clock"
	"github.com/sweeney/seg-clock/internal/display"
	"github.com/sweeney/seg-clock/internal/input"
	"github.com/sweeney/seg-clock/internal/sched"
	"github.com/sweeney/seg-clock/internal/tone"
)

// RingKind identifies what is ringing.
type RingKind int

const (
	RingNone RingKind = iota
	RingAlarm
	RingCountdown
)

func (r RingKind) String() string {
	switch r {
	case RingAlarm:
		return "alarm"
	case RingCountdown:
		return "cdown"
	}
	return "none"
}

// StartRing begins a ring episode. The melody loops until the episode is
// acknowledged by any button or the panel, or until timeoutMs elapses. A new
// episode replaces a running one. Edit mode is abandoned.
func (m *Machine) StartRing(k RingKind, timeoutMs uint32) {
	if k == RingNone {
		return
	}
	if m.ring != RingNone {
		m.bank.Clear(m.ringSlot)
	}
	m.exitEdit()
	m.ring = k

	melody := tone.AlarmMelody
	m.ringSlot = sched.AlarmRing
	if k == RingCountdown {
		melody = tone.CountdownMelody
		m.ringSlot = sched.TimerRing
	}
	m.bank.Arm(m.ringSlot, timeoutMs)
	m.player.Play(melody)
}

// Ringing returns the active ring episode, RingNone when idle.
func (m *Machine) Ringing() RingKind {
	return m.ring
}

func (m *Machine) stepRing(ev input.Events, visible bool) Output {
	if ev.Any() {
		return m.endRing(clock.EventRingAck)
	}
	if !m.bank.Active(m.ringSlot) {
		return m.endRing(clock.EventRingTimeout)
	}

	s := display.AlarmScreen(m.models.Alarm)
	if m.ring == RingCountdown {
		s = display.CountdownScreen(m.models.Countdown)
	}
	return Output{
		Render: true,
		Frame:  display.Compose(s, m.flip),
		Mask:   display.RingMask(visible),
	}
}

func (m *Machine) endRing(ev clock.EventType) Output {
	k := m.ring
	m.ring = RingNone
	m.bank.Clear(m.ringSlot)
	m.player.Stop()
	return Output{Ended: k, Event: ev, Notice: k.String() + " ring ended"}
}
