// Package app is the appliance itself: it owns the clock models, registers
// the tick hook that keeps time, and runs the main loop that polls buttons,
// drives the display, serves the console and reports state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/seg-clock/internal/clock"
	"github.com/sweeney/seg-clock/internal/command"
	"github.com/sweeney/seg-clock/internal/display"
	"github.com/sweeney/seg-clock/internal/expander"
	"github.com/sweeney/seg-clock/internal/gpio"
	"github.com/sweeney/seg-clock/internal/input"
	"github.com/sweeney/seg-clock/internal/mqtt"
	"github.com/sweeney/seg-clock/internal/sched"
	"github.com/sweeney/seg-clock/internal/serial"
	"github.com/sweeney/seg-clock/internal/status"
	"github.com/sweeney/seg-clock/internal/store"
	"github.com/sweeney/seg-clock/internal/tone"
	"github.com/sweeney/seg-clock/internal/ui"
)

// Beep and chirp tones.
const (
	beepPitch  = tone.E5
	beepLength = 40 * time.Millisecond

	chirpPitch  = tone.C5
	chirpLength = 120 * time.Millisecond
)

// idleDelay paces the main loop when there is no display to strobe.
const idleDelay = 10 * time.Millisecond

// LEDs drives the status LEDs.
type LEDs interface {
	SetLEDs(mask byte) error
}

// LineWriter sends console replies.
type LineWriter interface {
	WriteLines(lines []string) error
}

// Hardware groups the peripherals. Any of them except Buzzer may be nil;
// use tone.Silent for an appliance without a buzzer.
type Hardware struct {
	Buttons input.Source
	Panel   gpio.Reader
	Display display.Bus
	LEDs    LEDs
	Buzzer  tone.Output
}

// Deps groups the non-peripheral collaborators.
type Deps struct {
	Store     *store.Store // nil disables persistence
	Publisher mqtt.Publisher
	MQTT      mqtt.ConnectionStatus // may be nil
	Tracker   *status.Tracker
	Mailbox   *serial.Mailbox
	Console   LineWriter

	// BusErrors reports the I2C error count, nil when there is no bus.
	BusErrors func() uint64

	// Now returns wall-clock time for event timestamps.
	Now func() time.Time
}

// Config holds the appliance timing.
type Config struct {
	InterDigit   time.Duration
	Settle       time.Duration
	PanelSettle  time.Duration
	RingTimeout  time.Duration
	Heartbeat    time.Duration // 0 disables
	AlarmEnabled bool          // alarm state on a cold start
}

// App is the application context.
type App struct {
	sched *sched.Scheduler
	cfg   Config

	// Models, UI and sequencer. Shared with the tick hook: touch only
	// inside sched.Critical.
	cal     *clock.Calendar
	alarm   *clock.Alarm
	cd      *clock.Countdown
	ui      *ui.Machine
	seq     *tone.Sequencer
	env     *command.Env
	pending []clock.Event

	// Main loop only.
	input    *input.Debouncer
	renderer *display.Renderer
	buzzer   tone.Output
	leds     LEDs
	deps     Deps

	lastHeartbeat time.Time
	storeErrors   int
	lastLEDs      byte
	ledsKnown     bool
}

// New builds the application around s and registers its tick hook. Boot
// and Run need s to be ticking.
func New(s *sched.Scheduler, hw Hardware, deps Deps, cfg Config) *App {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Publisher == nil {
		deps.Publisher = mqtt.NopPublisher{}
	}
	if deps.Mailbox == nil {
		deps.Mailbox = serial.NewMailbox()
	}

	a := &App{
		sched:  s,
		cfg:    cfg,
		cal:    clock.DefaultCalendar(),
		alarm:  &clock.Alarm{},
		cd:     &clock.Countdown{},
		buzzer: hw.Buzzer,
		leds:   hw.LEDs,
		deps:   deps,
	}
	*a.alarm = clock.DefaultAlarm(cfg.AlarmEnabled)
	*a.cd = clock.DefaultCountdown()

	a.seq = tone.NewSequencer(hw.Buzzer, s.Bank())
	a.ui = ui.New(ui.Models{Calendar: a.cal, Alarm: a.alarm, Countdown: a.cd}, s.Bank(), a.seq)
	a.env = &command.Env{Calendar: a.cal, Alarm: a.alarm, Countdown: a.cd, Screen: a.ui}

	a.input = input.New(hw.Buttons, hw.Panel, s, input.Config{
		Settle:      cfg.Settle,
		PanelSettle: cfg.PanelSettle,
	})
	if hw.Display != nil {
		a.renderer = display.NewRenderer(hw.Display, s, cfg.InterDigit)
	}

	s.OnTick(a.tick)
	return a
}

// tick runs inside the scheduler's critical section.
func (a *App) tick(t *sched.Tick) {
	if t.Second {
		a.cal.Advance(1)
		if a.alarm.Matches(a.cal) {
			a.ui.StartRing(ui.RingAlarm, a.ringMs())
			a.queue(clock.EventAlarmRing)
		}
	}
	if !a.ui.EditingCountdown() && a.cd.Tick(int(t.Millis)) {
		a.ui.StartRing(ui.RingCountdown, a.ringMs())
		a.queue(clock.EventCountdownExpired)
	}
	a.seq.AdvanceIfDue()
}

func (a *App) ringMs() uint32 {
	return uint32(a.cfg.RingTimeout / time.Millisecond)
}

// queue records an event for the main loop to publish. Critical only.
func (a *App) queue(t clock.EventType) {
	a.pending = append(a.pending, clock.Event{
		Timestamp: a.deps.Now(),
		Type:      t,
		Clock:     a.cal.String(),
	})
}

// Boot restores the persisted state, or writes defaults on a cold start,
// then chirps and announces STARTUP.
func (a *App) Boot() {
	warm := a.resume()
	if a.deps.Tracker != nil {
		a.deps.Tracker.SetWarmBoot(warm)
	}

	if err := tone.PlayBlocking(a.buzzer, a.sched, chirpPitch, chirpLength); err != nil {
		log.Printf("app: boot chirp: %v", err)
	}

	a.updateStatus()
	a.lastHeartbeat = a.deps.Now()
	a.publishSystem("STARTUP", "")
}

func (a *App) resume() bool {
	if a.deps.Store == nil {
		log.Printf("app: no store, cold start")
		return false
	}

	snap, err := a.deps.Store.Resume()
	if err == nil {
		a.sched.Critical(func() {
			*a.cal = snap.Calendar
			*a.alarm = snap.Alarm
			*a.cd = snap.Countdown
		})
		log.Printf("app: warm boot, clock %s, alarm %s", snap.Calendar.String(), snap.Alarm.String())
		return true
	}

	if errors.Is(err, store.ErrColdStart) {
		log.Printf("app: cold boot: %v", err)
	} else {
		log.Printf("app: cold boot, store unreadable: %v", err)
		a.storeErrors++
	}
	var defaults *store.Snapshot
	a.sched.Critical(func() { defaults = a.snapshot() })
	a.persist(defaults)
	return false
}

// Step runs one main-loop iteration.
func (a *App) Step() {
	flags := a.sched.TakeFlags()
	ev := a.input.Poll()
	a.sched.SetHold(ev.PanelPressed)
	visible := a.sched.Blink()

	var (
		out    ui.Output
		events []clock.Event
		leds   byte
		snap   *store.Snapshot
	)
	a.sched.Critical(func() {
		out = a.ui.Step(ev, visible)
		if out.Ended != ui.RingNone {
			a.queue(out.Event)
		}
		events, a.pending = a.pending, nil
		leds = a.ledMask()
		if flags&sched.FlagPersist != 0 {
			snap = a.snapshot()
		}
	})

	if out.Notice != "" {
		log.Printf("ui: %s", out.Notice)
	}
	if out.Render {
		a.render(out.Frame, out.Mask)
	} else if a.renderer == nil {
		a.sched.Delay(idleDelay)
	}
	if out.Beep {
		if err := tone.PlayBlocking(a.buzzer, a.sched, beepPitch, beepLength); err != nil {
			log.Printf("app: beep: %v", err)
		}
	}

	a.serveCommand()
	a.publish(events)
	if a.leds != nil {
		a.setLEDs(leds)
	}
	if snap != nil {
		a.persist(snap)
	}
	if flags&sched.FlagSecond != 0 {
		a.updateStatus()
		a.heartbeat()
	}
}

// Run steps the main loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	log.Printf("app: main loop started")
	for ctx.Err() == nil {
		a.Step()
	}
	return nil
}

// Shutdown persists the state, silences the appliance and announces
// SHUTDOWN with reason.
func (a *App) Shutdown(reason string) {
	var snap *store.Snapshot
	a.sched.Critical(func() {
		a.seq.Stop()
		snap = a.snapshot()
	})
	a.persist(snap)

	if a.renderer != nil {
		if err := a.renderer.Blank(); err != nil {
			log.Printf("app: blank display: %v", err)
		}
	}
	if a.leds != nil {
		a.setLEDs(0)
	}

	a.updateStatus()
	a.publishSystem("SHUTDOWN", reason)
}

func (a *App) render(f display.Frame, mask byte) {
	if a.renderer == nil {
		a.sched.Delay(idleDelay)
		return
	}
	if err := a.renderer.Render(f, mask); err != nil {
		// The bus counts and logs the error. Leave no digit lit.
		_ = a.renderer.Blank()
	}
}

func (a *App) serveCommand() {
	line, ok := a.deps.Mailbox.Take()
	if !ok {
		return
	}

	var (
		reply []string
		err   error
	)
	a.sched.Critical(func() {
		reply, err = command.Execute(a.env, line)
	})
	if err != nil {
		log.Printf("command: %q failed: %v", line, err)
	} else {
		log.Printf("command: %q ok", line)
	}
	if a.deps.Tracker != nil {
		a.deps.Tracker.RecordCommand(err != nil)
	}
	if a.deps.Console == nil || len(reply) == 0 {
		return
	}
	if err := a.deps.Console.WriteLines(reply); err != nil {
		log.Printf("command: write reply: %v", err)
	}
}

func (a *App) publish(events []clock.Event) {
	for _, ev := range events {
		log.Printf("event: %s at %s", ev.Type, ev.Clock)
		if a.deps.Tracker != nil {
			a.deps.Tracker.Record(ev.Type)
		}
		if err := a.deps.Publisher.Publish(ev); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
}

func (a *App) publishSystem(name, reason string) {
	ev := mqtt.SystemEvent{
		Timestamp: a.deps.Now(),
		Event:     name,
		Reason:    reason,
		Retained:  name != "HEARTBEAT",
	}
	if a.deps.Tracker != nil {
		ev.RawPayload = status.FormatStatusEvent(a.deps.Tracker.Snapshot(), name, reason)
	}
	if err := a.deps.Publisher.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", name, err)
		return
	}
	log.Printf("published %s event", name)
}

func (a *App) heartbeat() {
	if a.cfg.Heartbeat <= 0 {
		return
	}
	now := a.deps.Now()
	if now.Sub(a.lastHeartbeat) < a.cfg.Heartbeat {
		return
	}
	a.lastHeartbeat = now
	a.publishSystem("HEARTBEAT", "")
}

// ledMask derives the status LEDs from the models. Critical only.
func (a *App) ledMask() byte {
	var m byte
	if a.alarm.Enabled {
		m |= expander.LEDAlarm
	}
	if a.cd.Enabled() {
		m |= expander.LEDCountdown
	}
	if a.ui.Ringing() != ui.RingNone {
		m |= expander.LEDRinging
	}
	return m
}

func (a *App) setLEDs(mask byte) {
	if a.ledsKnown && mask == a.lastLEDs {
		return
	}
	if err := a.leds.SetLEDs(mask); err != nil {
		a.ledsKnown = false
		return
	}
	a.lastLEDs, a.ledsKnown = mask, true
}

// snapshot copies the persisted models. Critical only.
func (a *App) snapshot() *store.Snapshot {
	return &store.Snapshot{
		Calendar:  *a.cal,
		Alarm:     *a.alarm,
		Countdown: *a.cd,
	}
}

func (a *App) persist(snap *store.Snapshot) {
	if a.deps.Store == nil || snap == nil {
		return
	}
	if err := a.deps.Store.Save(snap); err != nil {
		a.storeErrors++
		log.Printf("app: persist: %v", err)
	}
}

func (a *App) updateStatus() {
	if a.deps.Tracker == nil {
		return
	}
	var (
		c    status.Clock
		errs status.Errors
	)
	a.sched.Critical(func() {
		u := a.ui.Snapshot()
		c = status.Clock{
			Time:           a.cal.TimeString(),
			Date:           a.cal.DateString(),
			Alarm:          a.alarm.TimeString(),
			AlarmEnabled:   a.alarm.Enabled,
			Countdown:      fmt.Sprintf("%02d:%02d.%03d", a.cd.Min, a.cd.Sec, a.cd.Millisec),
			CountdownState: a.cd.State.String(),
			Mode:           u.Mode,
			Editing:        u.Editing,
			Pointer:        u.Pointer,
			Flip:           u.Flip,
			Ring:           u.Ring,
		}
		errs.Tone = a.seq.Errors()
	})
	errs.Input = a.input.Errors()
	errs.Store = a.storeErrors
	if a.deps.BusErrors != nil {
		errs.Bus = a.deps.BusErrors()
	}
	a.deps.Tracker.Update(c, errs)
	if a.deps.MQTT != nil {
		a.deps.Tracker.SetMQTTConnected(a.deps.MQTT.IsConnected())
	}
}

// State is a copy of the models for inspection.
type State struct {
	Calendar  clock.Calendar
	Alarm     clock.Alarm
	Countdown clock.Countdown
	UI        ui.Snapshot
}

// State returns a copy of the models.
func (a *App) State() State {
	var s State
	a.sched.Critical(func() {
		s = State{Calendar: *a.cal, Alarm: *a.alarm, Countdown: *a.cd, UI: a.ui.Snapshot()}
	})
	return s
}
