package ui

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/sweeney/seg-clock/internal/clock"
	"github.com/sweeney/seg-clock/internal/display"
	"github.com/sweeney/seg-clock/internal/input"
	"github.com/sweeney/seg-clock/internal/sched"
	"github.com/sweeney/seg-clock/internal/tone"
)

type fakePlayer struct {
	played []tone.Melody
	stops  int
}

func (p *fakePlayer) Play(m tone.Melody) { p.played = append(p.played, m) }
func (p *fakePlayer) Stop()              { p.stops++ }

type fixture struct {
	m      *Machine
	s      *sched.Scheduler
	player *fakePlayer
	cal    *clock.Calendar
	alarm  *clock.Alarm
	cd     *clock.Countdown
}

func newFixture() *fixture {
	f := &fixture{
		s:      sched.NewManual(sched.Config{Period: time.Millisecond}),
		player: &fakePlayer{},
		cal:    clock.NewCalendar(59, 0, 8, 11, 5, 2023),
		alarm:  &clock.Alarm{Sec: 0, Min: 2, Hour: 8},
		cd:     &clock.Countdown{Min: 1},
	}
	f.m = New(Models{Calendar: f.cal, Alarm: f.alarm, Countdown: f.cd}, f.s.Bank(), f.player)
	return f
}

func (f *fixture) step(ev input.Events) Output {
	return f.m.Step(ev, true)
}

func (f *fixture) enterEdit(c *qt.C) {
	out := f.step(input.Events{Modify: true, Confirm: true})
	c.Assert(out.Render, qt.Equals, false)
	c.Assert(f.m.Editing(), qt.Equals, true)
	c.Assert(f.m.Pointer(), qt.Equals, 1)
}

func TestToggleCyclesModes(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	var modes []display.Kind
	for i := 0; i < 4; i++ {
		out := f.step(input.Events{Toggle: true})
		c.Assert(out.Render, qt.Equals, false)
		modes = append(modes, f.m.Mode())
	}
	c.Assert(modes, qt.DeepEquals, []display.Kind{
		display.KindDate, display.KindAlarm, display.KindCountdown, display.KindTime,
	})
}

func TestToggleWhileEditingExitsEdit(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.enterEdit(c)
	f.step(input.Events{Toggle: true})
	c.Assert(f.m.Editing(), qt.Equals, false)
	c.Assert(f.m.Pointer(), qt.Equals, 0)
	c.Assert(f.m.Mode(), qt.Equals, display.KindTime)
}

func TestConfirmWalksFields(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.enterEdit(c)

	for _, want := range []int{2, 3} {
		out := f.step(input.Events{Modify: true, Confirm: true})
		c.Assert(out.Beep, qt.Equals, true)
		c.Assert(out.Render, qt.Equals, true)
		c.Assert(f.m.Pointer(), qt.Equals, want)
	}

	out := f.step(input.Events{Modify: true, Confirm: true})
	c.Assert(out.Render, qt.Equals, false)
	c.Assert(f.m.Editing(), qt.Equals, false)
	c.Assert(f.m.Pointer(), qt.Equals, 0)
}

func TestEditTimeFields(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.enterEdit(c)

	f.step(input.Events{Add: true})
	c.Assert(f.cal.Hour, qt.Equals, 9)

	f.cal.Hour = 0
	f.step(input.Events{Dec: true})
	c.Assert(f.cal.Hour, qt.Equals, 23)

	f.step(input.Events{Confirm: true, Modify: true})
	f.step(input.Events{Add: true})
	c.Assert(f.cal.Min, qt.Equals, 1)
}

func TestAddIgnoredWhenNotEditing(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	out := f.step(input.Events{Add: true})
	c.Assert(out.Render, qt.Equals, true)
	c.Assert(f.cal.Hour, qt.Equals, 8)
}

func TestEditDateUsesShiftedFields(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.SetMode(display.KindDate)
	f.enterEdit(c)

	f.step(input.Events{Add: true})
	c.Assert(f.cal.Year, qt.Equals, 2024)

	f.step(input.Events{Modify: true, Confirm: true})
	f.step(input.Events{Dec: true})
	c.Assert(f.cal.Month, qt.Equals, 4)

	f.step(input.Events{Modify: true, Confirm: true})
	f.step(input.Events{Add: true})
	c.Assert(f.cal.MDay, qt.Equals, 12)
}

func TestEditAlarmAndCountdown(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.m.SetMode(display.KindAlarm)
	f.enterEdit(c)
	f.step(input.Events{Add: true})
	c.Assert(f.alarm.Hour, qt.Equals, 9)

	f.m.SetMode(display.KindCountdown)
	c.Assert(f.m.EditingCountdown(), qt.Equals, false)
	f.enterEdit(c)
	c.Assert(f.m.EditingCountdown(), qt.Equals, true)
	f.step(input.Events{Dec: true})
	c.Assert(f.cd.Min, qt.Equals, 0)

	f.step(input.Events{Modify: true, Confirm: true})
	f.step(input.Events{Modify: true, Confirm: true})
	f.step(input.Events{Add: true})
	c.Assert(f.cd.Millisec, qt.Equals, 10)
}

func TestEnableAlarm(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.SetMode(display.KindAlarm)

	out := f.step(input.Events{Enable: true})
	c.Assert(f.alarm.Enabled, qt.Equals, true)
	c.Assert(out.Notice, qt.Equals, "alarm enabled")

	f.step(input.Events{Enable: true})
	c.Assert(f.alarm.Enabled, qt.Equals, false)
}

func TestEnableCountdownGuard(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.SetMode(display.KindCountdown)

	f.step(input.Events{Enable: true})
	c.Assert(f.cd.State, qt.Equals, clock.Running)
	f.step(input.Events{Enable: true})
	c.Assert(f.cd.State, qt.Equals, clock.Idle)

	*f.cd = clock.Countdown{}
	out := f.step(input.Events{Enable: true})
	c.Assert(f.cd.State, qt.Equals, clock.Idle)
	c.Assert(out.Notice, qt.Equals, "countdown is zero, not started")
}

func TestEnableIgnoredOnTimeScreen(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	out := f.step(input.Events{Enable: true})
	c.Assert(out.Notice, qt.Equals, "")
	c.Assert(f.alarm.Enabled, qt.Equals, false)
	c.Assert(f.cd.State, qt.Equals, clock.Idle)
}

func TestFlipMirrorsBlink(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.enterEdit(c)

	normal := f.m.Step(input.Events{}, false)
	c.Assert(normal.Mask, qt.Equals, display.Open&^0x0C)

	flipped := f.m.Step(input.Events{Flip: true}, false)
	c.Assert(f.m.Flip(), qt.Equals, true)
	c.Assert(flipped.Render, qt.Equals, true)
	c.Assert(flipped.Mask, qt.Equals, display.Open&^0x30)
	c.Assert(flipped.Frame, qt.Equals, display.Compose(display.TimeScreen(f.cal), true))

	visible := f.m.Step(input.Events{}, true)
	c.Assert(visible.Mask, qt.Equals, display.Open)
}

func TestRingAcknowledgedByAnyButton(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.enterEdit(c)

	f.m.StartRing(RingAlarm, 60000)
	c.Assert(f.m.Ringing(), qt.Equals, RingAlarm)
	c.Assert(f.m.Editing(), qt.Equals, false)
	c.Assert(f.player.played, qt.HasLen, 1)
	c.Assert(f.player.played[0].Notes, qt.DeepEquals, tone.AlarmMelody.Notes)

	out := f.m.Step(input.Events{}, false)
	c.Assert(out.Render, qt.Equals, true)
	c.Assert(out.Mask, qt.Equals, display.RingMask(false))

	out = f.step(input.Events{Add: true})
	c.Assert(out.Ended, qt.Equals, RingAlarm)
	c.Assert(out.Event, qt.Equals, clock.EventRingAck)
	c.Assert(f.player.stops, qt.Equals, 1)
	c.Assert(f.m.Ringing(), qt.Equals, RingNone)
	// The acknowledging press is not also applied as an edit.
	c.Assert(f.cal.Hour, qt.Equals, 8)
	c.Assert(f.s.Bank().Active(sched.AlarmRing), qt.Equals, false)
}

func TestRingAcknowledgedByPanel(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.StartRing(RingCountdown, 60000)
	c.Assert(f.player.played[0].Notes, qt.DeepEquals, tone.CountdownMelody.Notes)

	out := f.step(input.Events{PanelPressed: true})
	c.Assert(out.Ended, qt.Equals, RingCountdown)
	c.Assert(out.Event, qt.Equals, clock.EventRingAck)
}

func TestRingTimesOut(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.StartRing(RingCountdown, 10)

	f.s.Advance(5 * time.Millisecond)
	out := f.step(input.Events{})
	c.Assert(out.Ended, qt.Equals, RingNone)

	f.s.Advance(5 * time.Millisecond)
	out = f.step(input.Events{})
	c.Assert(out.Ended, qt.Equals, RingCountdown)
	c.Assert(out.Event, qt.Equals, clock.EventRingTimeout)
	c.Assert(f.player.stops, qt.Equals, 1)
}

func TestRingReplacesRunningEpisode(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.StartRing(RingCountdown, 60000)
	f.m.StartRing(RingAlarm, 60000)
	c.Assert(f.m.Ringing(), qt.Equals, RingAlarm)
	c.Assert(f.s.Bank().Active(sched.TimerRing), qt.Equals, false)
	c.Assert(f.s.Bank().Active(sched.AlarmRing), qt.Equals, true)
}

func TestSnapshot(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.m.SetMode(display.KindCountdown)
	f.enterEdit(c)
	c.Assert(f.m.Snapshot(), qt.DeepEquals, Snapshot{Mode: "cdown", Editing: true, Pointer: 1, Ring: "none"})
}
