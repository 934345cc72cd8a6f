// Package ui is the modal state machine of the appliance. It consumes one
// iteration's button events, mutates the calendar, alarm and countdown
// models, and decides what the display shows.
//
// Machine performs no I/O. Every method must run inside the scheduler's
// critical section because the tick reads the same models.
package ui

import (
	"errors"

	"github.com/sweeney/seg-clock/internal/clock"
	"github.com/sweeney/seg-clock/internal/display"
	"github.com/sweeney/seg-clock/internal/input"
	"github.com/sweeney/seg-clock/internal/sched"
	"github.com/sweeney/seg-clock/internal/tone"
)

// fieldCount is the number of editable groups on every screen.
const fieldCount = 3

// Player starts and stops melodies.
type Player interface {
	Play(m tone.Melody)
	Stop()
}

// Models groups the state the machine edits.
type Models struct {
	Calendar  *clock.Calendar
	Alarm     *clock.Alarm
	Countdown *clock.Countdown
}

// Output tells the main loop what to do after a Step.
type Output struct {
	// Render is false when the iteration was consumed by a transition.
	Render bool
	Frame  display.Frame
	Mask   byte

	// Beep requests the short confirm tone.
	Beep bool

	// Ended is set when a ring episode finished during this Step, with
	// Event describing how.
	Ended RingKind
	Event clock.EventType

	// Notice is a human-readable description of a state change, if any.
	Notice string
}

// Machine holds the UI state.
type Machine struct {
	models Models
	bank   *sched.Bank
	player Player

	mode    display.Kind
	editing bool
	ptr     int
	flip    bool

	ring     RingKind
	ringSlot sched.Slot
}

// New creates a machine showing the time screen.
func New(m Models, bank *sched.Bank, player Player) *Machine {
	return &Machine{
		models: m,
		bank:   bank,
		player: player,
		mode:   display.KindTime,
	}
}

// Step runs one main-loop iteration. Transitions are evaluated in priority
// order and the first one that consumes the iteration wins.
func (m *Machine) Step(ev input.Events, visible bool) Output {
	if m.ring != RingNone {
		return m.stepRing(ev, visible)
	}

	if ev.Toggle {
		if !m.editing {
			m.mode = m.mode.Next()
		}
		m.exitEdit()
		return Output{}
	}

	var out Output
	if ev.Confirm && m.editing {
		m.ptr++
		out.Beep = true
		if m.ptr > fieldCount {
			m.exitEdit()
			return out
		}
		ev.Confirm = false
	}

	if ev.Modify && !m.editing {
		m.editing = true
		m.ptr = 1
		return Output{}
	}

	if ev.Flip {
		m.flip = !m.flip
		ev.Flip = false
	}

	if m.editing {
		if ev.Add {
			m.edit(1)
		}
		if ev.Dec {
			m.edit(-1)
		}
	}
	if ev.Enable {
		out.Notice = m.toggleEnable()
	}

	out.Render = true
	out.Frame = display.Compose(m.Screen(), m.flip)
	out.Mask = display.BlinkMask(m.mode, m.ptr, m.flip, visible)
	return out
}

func (m *Machine) exitEdit() {
	m.editing = false
	m.ptr = 0
}

// editField maps the edit pointer of the current screen to a model field.
func (m *Machine) editField() clock.Field {
	if m.ptr < 1 || m.ptr > fieldCount {
		return clock.FieldNone
	}
	switch m.mode {
	case display.KindDate:
		return clock.Field(m.ptr + 3)
	case display.KindCountdown:
		return [...]clock.Field{clock.Minute, clock.Second, clock.Millisecond}[m.ptr-1]
	}
	return clock.Field(m.ptr)
}

func (m *Machine) edit(delta int) {
	f := m.editField()
	switch m.mode {
	case display.KindTime, display.KindDate:
		m.models.Calendar.EditField(f, delta)
	case display.KindAlarm:
		m.models.Alarm.EditField(f, delta)
	case display.KindCountdown:
		m.models.Countdown.EditField(f, delta)
	}
}

func (m *Machine) toggleEnable() string {
	switch m.mode {
	case display.KindAlarm:
		if m.models.Alarm.ToggleEnabled() {
			return "alarm enabled"
		}
		return "alarm disabled"
	case display.KindCountdown:
		cd := m.models.Countdown
		if cd.Enabled() {
			cd.Stop()
			return "countdown stopped"
		}
		if err := cd.Start(); errors.Is(err, clock.ErrZero) {
			return "countdown is zero, not started"
		}
		return "countdown started"
	}
	return ""
}

// Screen returns the logical content of the current mode.
func (m *Machine) Screen() display.Screen {
	switch m.mode {
	case display.KindDate:
		return display.DateScreen(m.models.Calendar)
	case display.KindAlarm:
		return display.AlarmScreen(m.models.Alarm)
	case display.KindCountdown:
		return display.CountdownScreen(m.models.Countdown)
	}
	return display.TimeScreen(m.models.Calendar)
}

// SetMode switches the screen and leaves edit mode.
func (m *Machine) SetMode(k display.Kind) {
	m.mode = k
	m.exitEdit()
}

// Mode returns the current screen.
func (m *Machine) Mode() display.Kind { return m.mode }

// Editing reports whether a field is being edited.
func (m *Machine) Editing() bool { return m.editing }

// Pointer returns the edit field pointer, 0 when not editing.
func (m *Machine) Pointer() int { return m.ptr }

// Flip reports whether the display is rendered upside down.
func (m *Machine) Flip() bool { return m.flip }

// EditingCountdown reports whether the countdown is under edit, in which
// case the tick must not decrement it.
func (m *Machine) EditingCountdown() bool {
	return m.editing && m.mode == display.KindCountdown
}

// Snapshot is a copy of the UI state for status reporting.
type Snapshot struct {
	Mode    string
	Editing bool
	Pointer int
	Flip    bool
	Ring    string
}

// Snapshot returns the current UI state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Mode:    m.mode.String(),
		Editing: m.editing,
		Pointer: m.ptr,
		Flip:    m.flip,
		Ring:    m.ring.String(),
	}
}
