package display

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/sweeney/seg-clock/internal/clock"
)

// rotate turns an upright segment pattern upside down.
func rotate(b byte) byte {
	swap := [][2]byte{{segA, segD}, {segB, segE}, {segC, segF}}
	out := b & (segG | segDP)
	for _, p := range swap {
		if b&p[0] != 0 {
			out |= p[1]
		}
		if b&p[1] != 0 {
			out |= p[0]
		}
	}
	return out
}

func TestFlippedGlyphsAreRotations(t *testing.T) {
	c := qt.New(t)
	c.Assert(flippedGlyphs, qt.HasLen, len(normalGlyphs))
	for r, seg := range normalGlyphs {
		c.Check(flippedGlyphs[r], qt.Equals, rotate(seg), qt.Commentf("glyph %q", r))
	}
}

func TestGlyphTableValues(t *testing.T) {
	c := qt.New(t)
	want := []byte{0x3f, 0x06, 0x5b, 0x4f, 0x66, 0x6d, 0x7d, 0x07, 0x7f, 0x6f}
	for i, w := range want {
		c.Check(Glyph(rune('0'+i), false), qt.Equals, w, qt.Commentf("digit %d", i))
	}
	c.Check(Glyph('L', false), qt.Equals, byte(0x38))
	c.Check(Glyph('L', true), qt.Equals, byte(0x07))
	c.Check(Glyph('?', false), qt.Equals, byte(0))
}

func TestTimeScreen(t *testing.T) {
	c := qt.New(t)
	cal := clock.NewCalendar(9, 5, 23, 1, 0, 2024)
	s := TimeScreen(cal)
	c.Assert(string(s.Glyphs[:]), qt.Equals, "  230509")
	c.Assert(s.Kind, qt.Equals, KindTime)

	f := Compose(s, false)
	c.Assert(f[0], qt.Equals, byte(0))
	c.Assert(f[2], qt.Equals, Glyph('2', false))
	c.Assert(f[3], qt.Equals, Glyph('3', false)|segDP)
	c.Assert(f[5], qt.Equals, Glyph('5', false)|segDP)
	c.Assert(f[7], qt.Equals, Glyph('9', false))
}

func TestDateScreen(t *testing.T) {
	c := qt.New(t)
	cal := clock.NewCalendar(0, 0, 0, 7, 1, 2024)
	s := DateScreen(cal)
	c.Assert(string(s.Glyphs[:]), qt.Equals, "20240207")
}

func TestAlarmScreen(t *testing.T) {
	c := qt.New(t)
	a := &clock.Alarm{Sec: 0, Min: 2, Hour: 8}
	s := AlarmScreen(a)
	c.Assert(string(s.Glyphs[:]), qt.Equals, "AL080200")
	c.Assert(s.Points&(1<<7), qt.Equals, uint8(0))

	a.Enabled = true
	c.Assert(AlarmScreen(a).Points&(1<<7), qt.Not(qt.Equals), uint8(0))
}

func TestCountdownScreen(t *testing.T) {
	c := qt.New(t)
	cd := &clock.Countdown{Min: 1, Sec: 30, Millisec: 450}
	s := CountdownScreen(cd)
	c.Assert(string(s.Glyphs[:]), qt.Equals, "cd013045")
}

func TestComposeFlip(t *testing.T) {
	c := qt.New(t)
	s := screenOf(KindAlarm, "AL123456", separators)
	f := Compose(s, true)

	// Logical position 0 lands on the last physical digit.
	c.Assert(f[7], qt.Equals, Glyph('A', true))
	c.Assert(f[6], qt.Equals, Glyph('L', true))
	c.Assert(f[0]&^segDP, qt.Equals, Glyph('6', true))

	// Separators after logical 3 and 5 move to physical 3 and 1.
	var dps []int
	for i, seg := range f {
		if seg&segDP != 0 {
			dps = append(dps, i)
		}
	}
	c.Assert(dps, qt.DeepEquals, []int{1, 3})
}

func TestKindNext(t *testing.T) {
	c := qt.New(t)
	k := KindTime
	var seen []string
	for i := 0; i < 5; i++ {
		seen = append(seen, k.String())
		k = k.Next()
	}
	c.Assert(seen, qt.DeepEquals, []string{"time", "date", "alarm", "cdown", "time"})
}

func TestBlinkMaskClosedWhenNotEditing(t *testing.T) {
	c := qt.New(t)
	for k := KindTime; k < numKinds; k++ {
		for _, flip := range []bool{false, true} {
			for _, visible := range []bool{false, true} {
				c.Check(BlinkMask(k, 0, flip, visible), qt.Equals, Open)
			}
		}
	}
}

func TestBlinkMaskSuppressesOneGroup(t *testing.T) {
	c := qt.New(t)
	for k := KindTime; k < numKinds; k++ {
		for ptr := 1; ptr <= 3; ptr++ {
			normal := BlinkMask(k, ptr, false, false)
			flipped := BlinkMask(k, ptr, true, false)
			comment := qt.Commentf("%v ptr %d", k, ptr)

			c.Check(BlinkMask(k, ptr, false, true), qt.Equals, Open, comment)
			c.Check(BlinkMask(k, ptr, true, true), qt.Equals, Open, comment)
			c.Check(normal, qt.Not(qt.Equals), Open, comment)
			c.Check(normal, qt.Not(qt.Equals), flipped, comment)
			c.Check(Open&^normal, qt.Equals, Group(k, ptr, false), comment)
			c.Check(Open&^flipped, qt.Equals, reverse(Group(k, ptr, false)), comment)
		}
	}
}

func TestBlinkGroupsMatchLayout(t *testing.T) {
	c := qt.New(t)
	c.Assert(Group(KindTime, 1, false), qt.Equals, byte(0x0C))  // hours
	c.Assert(Group(KindTime, 3, false), qt.Equals, byte(0xC0))  // seconds
	c.Assert(Group(KindDate, 1, false), qt.Equals, byte(0x0F))  // year
	c.Assert(Group(KindTime, 1, true), qt.Equals, byte(0x30))   // hours read upside down
	c.Assert(Group(KindTime, 4, false), qt.Equals, byte(0))
}

func TestRingMask(t *testing.T) {
	c := qt.New(t)
	c.Assert(RingMask(true), qt.Equals, Open)
	c.Assert(RingMask(false), qt.Equals, byte(0))
}

type countingDelayer struct {
	n     int
	total time.Duration
}

func (d *countingDelayer) Delay(v time.Duration) {
	d.n++
	d.total += v
}

func TestRenderStrobesEveryDigit(t *testing.T) {
	c := qt.New(t)
	bus := NewFakeBus()
	d := &countingDelayer{}
	r := NewRenderer(bus, d, time.Millisecond)

	f := Compose(screenOf(KindTime, "12345678", 0), false)
	c.Assert(r.Render(f, Open), qt.IsNil)
	c.Assert(bus.Shown(), qt.Equals, f)
	c.Assert(bus.Lit(), qt.Equals, Open)
	c.Assert(d.n, qt.Equals, Digits)
	c.Assert(d.total, qt.Equals, Digits*time.Millisecond)
}

func TestRenderHonoursMask(t *testing.T) {
	c := qt.New(t)
	bus := NewFakeBus()
	r := NewRenderer(bus, &countingDelayer{}, time.Millisecond)

	mask := BlinkMask(KindTime, 2, false, false)
	c.Assert(r.Render(Compose(screenOf(KindTime, "88888888", 0), false), mask), qt.IsNil)
	c.Assert(bus.Lit(), qt.Equals, mask)
	c.Assert(bus.Shown()[4], qt.Equals, byte(0))
	c.Assert(bus.Shown()[5], qt.Equals, byte(0))
}

func TestRenderStopsOnBusError(t *testing.T) {
	c := qt.New(t)
	bus := NewFakeBus()
	bus.Err = errors.New("nack")
	d := &countingDelayer{}
	r := NewRenderer(bus, d, time.Millisecond)

	err := r.Render(Frame{}, Open)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(errors.Is(err, bus.Err), qt.Equals, true)
	c.Assert(d.n, qt.Equals, 0)
}
