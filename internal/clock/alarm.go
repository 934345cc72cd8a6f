package clock

import "fmt"

// Alarm is a daily wall-clock trigger. It has no date component.
type Alarm struct {
	Sec     int
	Min     int
	Hour    int
	Enabled bool
}

// SetTime validates and applies the trigger time.
func (a *Alarm) SetTime(sec, min, hour int) error {
	if !validTime(sec, min, hour) {
		return fmt.Errorf("alarm %02d:%02d:%02d: %w", hour, min, sec, ErrInvalid)
	}
	a.Sec, a.Min, a.Hour = sec, min, hour
	return nil
}

// Matches reports whether the alarm is enabled and the calendar shows exactly
// the trigger time.
func (a *Alarm) Matches(c *Calendar) bool {
	return a.Enabled && a.Sec == c.Sec && a.Min == c.Min && a.Hour == c.Hour
}

// EditField increments one of Hour, Minute or Second with wraparound.
func (a *Alarm) EditField(f Field, delta int) {
	switch f {
	case Hour:
		a.Hour = wrap(a.Hour, delta, 24)
	case Minute:
		a.Min = wrap(a.Min, delta, 60)
	case Second:
		a.Sec = wrap(a.Sec, delta, 60)
	}
}

// ToggleEnabled flips the enabled flag and returns the new value.
func (a *Alarm) ToggleEnabled() bool {
	a.Enabled = !a.Enabled
	return a.Enabled
}

// TimeString formats the trigger time as hh:mm:ss.
func (a Alarm) TimeString() string {
	return fmt.Sprintf("%02d:%02d:%02d", a.Hour, a.Min, a.Sec)
}

func (a Alarm) String() string {
	if a.Enabled {
		return a.TimeString() + " on"
	}
	return a.TimeString() + " off"
}
