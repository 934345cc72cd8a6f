package clock

import (
	"errors"
	"fmt"
)

var (
	// ErrZero is returned when starting a countdown with nothing remaining.
	ErrZero = errors.New("countdown is zero")
	// ErrRunning is returned when starting a countdown that already runs.
	ErrRunning = errors.New("countdown already running")
)

// CountdownState is the explicit lifecycle of the countdown.
//
//	Idle --Start (remaining > 0)--> Running --reaches zero--> Expired
//	Running --Stop--> Idle
//	Expired --EditField/Set--> Idle
type CountdownState int

const (
	Idle CountdownState = iota
	Running
	Expired
)

func (s CountdownState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Expired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}

// Countdown is a millisecond-resolution down-counter with a zero floor.
type Countdown struct {
	Millisec int // 0-999
	Sec      int // 0-59
	Min      int // 0-59
	State    CountdownState
}

// Zero reports whether nothing remains.
func (t *Countdown) Zero() bool {
	return t.Millisec == 0 && t.Sec == 0 && t.Min == 0
}

// Enabled reports whether the countdown is running.
func (t *Countdown) Enabled() bool {
	return t.State == Running
}

// Update resolves negative fields by borrowing from the next unit, keeping
// whatever a multi-millisecond tick overshot. A negative
// minute clamps the whole counter to zero. Once all fields are zero Update is
// a no-op, so repeated calls never wrap below zero. It returns true when a
// running countdown has just reached zero.
func (t *Countdown) Update() bool {
	if t.Zero() {
		return t.expire()
	}
	for t.Millisec < 0 {
		t.Sec--
		t.Millisec += 1000
	}
	for t.Sec < 0 {
		t.Min--
		t.Sec += 60
	}
	if t.Min < 0 {
		t.Min, t.Sec, t.Millisec = 0, 0, 0
	}
	if t.Zero() {
		return t.expire()
	}
	return false
}

func (t *Countdown) expire() bool {
	if t.State != Running {
		return false
	}
	t.State = Expired
	return true
}

// Tick decrements a running countdown by ms milliseconds and resolves the
// borrow chain. It returns true on the tick that reaches zero.
func (t *Countdown) Tick(ms int) bool {
	if t.State != Running {
		return false
	}
	t.Millisec -= ms
	return t.Update()
}

// Start runs the countdown. It refuses a zero remaining duration and a
// countdown that is already running.
func (t *Countdown) Start() error {
	if t.State == Running {
		return ErrRunning
	}
	if t.Zero() {
		return ErrZero
	}
	t.State = Running
	return nil
}

// Stop pauses a running countdown.
func (t *Countdown) Stop() {
	if t.State == Running {
		t.State = Idle
	}
}

// Set validates and applies a remaining duration. The countdown becomes Idle.
func (t *Countdown) Set(min, sec, millisec int) error {
	if min < 0 || min > 59 || sec < 0 || sec > 59 || millisec < 0 || millisec > 999 {
		return fmt.Errorf("countdown %02d:%02d.%03d: %w", min, sec, millisec, ErrInvalid)
	}
	t.Min, t.Sec, t.Millisec = min, sec, millisec
	t.State = Idle
	return nil
}

// EditField increments Minute, Second or Millisecond (in steps of 10) with
// wraparound. Editing an expired countdown returns it to Idle.
func (t *Countdown) EditField(f Field, delta int) {
	switch f {
	case Minute:
		t.Min = wrap(t.Min, delta, 60)
	case Second:
		t.Sec = wrap(t.Sec, delta, 60)
	case Millisecond:
		t.Millisec = wrap(t.Millisec, delta*10, 1000)
	default:
		return
	}
	if t.State == Expired {
		t.State = Idle
	}
}

func (t *Countdown) String() string {
	return fmt.Sprintf("%02d:%02d.%03d %s", t.Min, t.Sec, t.Millisec, t.State)
}
