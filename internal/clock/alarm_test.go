package clock

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestAlarmMatches(t *testing.T) {
	c := qt.New(t)
	a := Alarm{Sec: 0, Min: 2, Hour: 8, Enabled: true}

	tests := []struct {
		sec, min, hour int
		want           bool
	}{
		{0, 2, 8, true},
		{1, 2, 8, false},
		{0, 3, 8, false},
		{0, 2, 20, false},
	}
	for _, tt := range tests {
		cal := NewCalendar(tt.sec, tt.min, tt.hour, 11, 5, 2023)
		c.Assert(a.Matches(cal), qt.Equals, tt.want, qt.Commentf("%s", cal.TimeString()))
	}

	a.Enabled = false
	c.Assert(a.Matches(NewCalendar(0, 2, 8, 11, 5, 2023)), qt.Equals, false)
}

func TestAlarmSetTime(t *testing.T) {
	c := qt.New(t)
	a := Alarm{Hour: 8, Min: 2}
	c.Assert(a.SetTime(30, 15, 6), qt.IsNil)
	c.Assert(a.TimeString(), qt.Equals, "06:15:30")

	err := a.SetTime(0, 60, 6)
	c.Assert(errors.Is(err, ErrInvalid), qt.Equals, true)
	c.Assert(a.TimeString(), qt.Equals, "06:15:30")
}

func TestAlarmEditAndToggle(t *testing.T) {
	c := qt.New(t)
	a := Alarm{Hour: 23, Min: 0, Sec: 59}
	a.EditField(Hour, 1)
	a.EditField(Minute, -1)
	a.EditField(Second, 1)
	c.Assert(a.TimeString(), qt.Equals, "00:59:00")
	// Date fields do not apply to an alarm.
	a.EditField(Year, 1)
	c.Assert(a.TimeString(), qt.Equals, "00:59:00")

	c.Assert(a.ToggleEnabled(), qt.Equals, true)
	c.Assert(a.String(), qt.Equals, "00:59:00 on")
	c.Assert(a.ToggleEnabled(), qt.Equals, false)
}
