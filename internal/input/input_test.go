package input

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/seg-clock/internal/gpio"
)

type recordingDelayer struct {
	calls []time.Duration
}

func (r *recordingDelayer) Delay(d time.Duration) {
	r.calls = append(r.calls, d)
}

var testConfig = Config{Settle: 20 * time.Millisecond, PanelSettle: 2 * time.Millisecond}

func TestPollNoChange(t *testing.T) {
	src := NewFakeSource(Released)
	rd := &recordingDelayer{}
	d := New(src, nil, rd, testConfig)

	ev := d.Poll()
	if ev.Any() {
		t.Errorf("expected no events, got %+v", ev)
	}
	if len(rd.calls) != 0 {
		t.Errorf("settle delay should not run without a change, got %v", rd.calls)
	}
}

func TestPollEdgeEvents(t *testing.T) {
	tests := []struct {
		name  string
		bit   int
		check func(Events) bool
	}{
		{"toggle", BitToggle, func(e Events) bool { return e.Toggle }},
		{"modify", BitModify, func(e Events) bool { return e.Modify && e.Confirm }},
		{"flip", BitFlip, func(e Events) bool { return e.Flip }},
		{"enable", BitEnable, func(e Events) bool { return e.Enable }},
		{"add", BitAdd, func(e Events) bool { return e.Add }},
		{"dec", BitDec, func(e Events) bool { return e.Dec }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFakeSource(Released)
			rd := &recordingDelayer{}
			d := New(src, nil, rd, testConfig)

			src.Press(tt.bit)
			ev := d.Poll()
			if !tt.check(ev) {
				t.Errorf("expected %s event, got %+v", tt.name, ev)
			}
			if len(rd.calls) != 1 || rd.calls[0] != testConfig.Settle {
				t.Errorf("expected one settle delay of %v, got %v", testConfig.Settle, rd.calls)
			}
		})
	}
}

func TestPollHeldKeyFiresOnce(t *testing.T) {
	src := NewFakeSource(Released)
	d := New(src, nil, &recordingDelayer{}, testConfig)

	src.Press(BitAdd)
	if ev := d.Poll(); !ev.Add {
		t.Fatal("expected Add on press")
	}
	for i := 0; i < 5; i++ {
		if ev := d.Poll(); ev.Add {
			t.Errorf("poll %d: Add fired again while held", i)
		}
	}

	src.ReleaseAll()
	if ev := d.Poll(); ev.Any() {
		t.Errorf("release should not fire events, got %+v", ev)
	}

	src.Press(BitAdd)
	if ev := d.Poll(); !ev.Add {
		t.Error("expected Add on second press")
	}
}

func TestPollSecondKeyWhileHeld(t *testing.T) {
	src := NewFakeSource(Released)
	d := New(src, nil, &recordingDelayer{}, testConfig)

	src.Press(BitModify)
	d.Poll()

	src.Press(BitModify, BitAdd)
	ev := d.Poll()
	if !ev.Add {
		t.Error("expected Add event")
	}
	if ev.Modify {
		t.Error("Modify already held, should not fire again")
	}
}

func TestPollBounceRejected(t *testing.T) {
	// Glitch seen on the first sample, gone after the settle delay.
	src := NewFakeSource(Released, Released&^(1<<BitToggle), Released)
	d := New(src, nil, &recordingDelayer{}, testConfig)

	d.Poll() // consume baseline sample
	ev := d.Poll()
	if ev.Toggle {
		t.Error("bounce should not produce an event")
	}
	if d.Stable() != Released {
		t.Errorf("stable: got %#x, want %#x", d.Stable(), Released)
	}
}

func TestPollReadError(t *testing.T) {
	src := NewFakeSource(Released)
	src.Err = errors.New("bus error")
	d := New(src, nil, &recordingDelayer{}, testConfig)

	ev := d.Poll()
	if ev.Any() {
		t.Errorf("expected no events on error, got %+v", ev)
	}
	if d.Errors() != 1 {
		t.Errorf("errors: got %d, want 1", d.Errors())
	}
}

func TestPollPanelLevel(t *testing.T) {
	panel := gpio.NewFakeReader(false)
	rd := &recordingDelayer{}
	d := New(nil, panel, rd, testConfig)

	if ev := d.Poll(); ev.PanelPressed {
		t.Error("panel should start released")
	}

	panel.Set(true)
	for i := 0; i < 3; i++ {
		if ev := d.Poll(); !ev.PanelPressed {
			t.Errorf("poll %d: panel should read held", i)
		}
	}
	if len(rd.calls) != 1 || rd.calls[0] != testConfig.PanelSettle {
		t.Errorf("expected one panel settle delay, got %v", rd.calls)
	}

	panel.Set(false)
	if ev := d.Poll(); ev.PanelPressed {
		t.Error("panel should read released")
	}
}

func TestEventsClear(t *testing.T) {
	ev := Events{Toggle: true, PanelPressed: true}
	ev.Clear()
	if ev.Any() {
		t.Errorf("expected cleared events, got %+v", ev)
	}
}
