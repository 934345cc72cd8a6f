// Package input derives single-iteration button events from the packed
// button register and the discrete panel pin.
package input

import (
	"log"
	"time"

	"github.com/sweeney/seg-clock/internal/gpio"
)

// Bit positions of the logical buttons in the packed register. Modify and
// Confirm share one physical key.
const (
	BitToggle = 0
	BitModify = 1
	BitFlip   = 3
	BitEnable = 4
	BitAdd    = 6
	BitDec    = 7
)

// Released is the register value with no key held (active-low).
const Released byte = 0xFF

// Source reads the packed button register. A clear bit means pressed.
type Source interface {
	ReadButtons() (byte, error)
}

// Delayer blocks for a settle period.
type Delayer interface {
	Delay(d time.Duration)
}

// Events holds the edge-triggered button events of one main-loop iteration.
// PanelPressed is a level, true while the panel button is held.
type Events struct {
	Toggle       bool
	Modify       bool
	Confirm      bool
	Add          bool
	Dec          bool
	Enable       bool
	Flip         bool
	PanelPressed bool
}

// Any reports whether any button edge fired or the panel is held.
func (e Events) Any() bool {
	return e.Toggle || e.Modify || e.Confirm || e.Add || e.Dec || e.Enable || e.Flip || e.PanelPressed
}

// Clear drops every event.
func (e *Events) Clear() {
	*e = Events{}
}

// Config holds debounce timing.
type Config struct {
	Settle      time.Duration // register settle delay
	PanelSettle time.Duration // panel pin settle delay
}

// Debouncer samples the button register and the panel pin. Not safe for
// concurrent use; the main loop is its only caller.
type Debouncer struct {
	src   Source
	panel gpio.Reader
	delay Delayer
	cfg   Config

	stable    byte
	panelHeld bool
	errors    int
}

// New creates a debouncer. src and panel may be nil when the hardware is
// absent.
func New(src Source, panel gpio.Reader, d Delayer, cfg Config) *Debouncer {
	return &Debouncer{
		src:    src,
		panel:  panel,
		delay:  d,
		cfg:    cfg,
		stable: Released,
	}
}

// Poll samples both inputs and returns this iteration's events.
func (d *Debouncer) Poll() Events {
	var ev Events
	if d.src != nil {
		d.pollButtons(&ev)
	}
	if d.panel != nil {
		d.pollPanel()
	}
	ev.PanelPressed = d.panelHeld
	return ev
}

func (d *Debouncer) pollButtons(ev *Events) {
	sample, err := d.src.ReadButtons()
	if err != nil {
		d.fail("button read", err)
		return
	}
	if sample == d.stable {
		return
	}

	d.delay.Delay(d.cfg.Settle)
	sample, err = d.src.ReadButtons()
	if err != nil {
		d.fail("button re-read", err)
		return
	}

	// Asserted now (bit clear) and released in the stable baseline (bit set).
	pressed := ^sample & d.stable
	d.stable = sample

	ev.Toggle = pressed&(1<<BitToggle) != 0
	ev.Modify = pressed&(1<<BitModify) != 0
	ev.Confirm = ev.Modify
	ev.Flip = pressed&(1<<BitFlip) != 0
	ev.Enable = pressed&(1<<BitEnable) != 0
	ev.Add = pressed&(1<<BitAdd) != 0
	ev.Dec = pressed&(1<<BitDec) != 0
}

func (d *Debouncer) pollPanel() {
	held, err := d.panel.Read()
	if err != nil {
		d.fail("panel read", err)
		return
	}
	if held == d.panelHeld {
		return
	}

	d.delay.Delay(d.cfg.PanelSettle)
	held, err = d.panel.Read()
	if err != nil {
		d.fail("panel re-read", err)
		return
	}
	d.panelHeld = held
}

// Stable returns the current debounced register value.
func (d *Debouncer) Stable() byte {
	return d.stable
}

// Errors returns the number of failed reads.
func (d *Debouncer) Errors() int {
	return d.errors
}

func (d *Debouncer) fail(what string, err error) {
	d.errors++
	if d.errors == 1 || d.errors%100 == 0 {
		log.Printf("input: %s error (%d so far): %v", what, d.errors, err)
	}
}
