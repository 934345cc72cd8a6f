// Package status provides a thread-safe status tracker for the seg-clock daemon.
// It is read by the HTTP handlers and the MQTT heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/seg-clock/internal/clock"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Serial      string
	Buttons     string
	RTC         string
}

// Clock is the appliance state copied out of the critical section.
type Clock struct {
	Time           string
	Date           string
	Alarm          string
	AlarmEnabled   bool
	Countdown      string
	CountdownState string
	Mode           string
	Editing        bool
	Pointer        int
	Flip           bool
	Ring           string
}

// Counts tallies appliance events since start.
type Counts struct {
	AlarmRings        int
	CountdownExpiries int
	RingAcks          int
	RingTimeouts      int
	Commands          int
	CommandErrors     int
}

// Record increments the counter for an appliance event.
func (c *Counts) Record(ev clock.EventType) {
	switch ev {
	case clock.EventAlarmRing:
		c.AlarmRings++
	case clock.EventCountdownExpired:
		c.CountdownExpiries++
	case clock.EventRingAck:
		c.RingAcks++
	case clock.EventRingTimeout:
		c.RingTimeouts++
	}
}

// Errors counts peripheral failures.
type Errors struct {
	Bus   uint64
	Tone  int
	Input int
	Store int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Clock         Clock
	Counts        Counts
	Errors        Errors
	WarmBoot      bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the appliance state and error counts.
// Called from the main loop once per second.
func (t *Tracker) Update(c Clock, errs Errors) {
	t.mu.Lock()
	t.snap.Clock = c
	t.snap.Errors = errs
	t.mu.Unlock()
}

// Record counts an appliance event.
func (t *Tracker) Record(ev clock.EventType) {
	t.mu.Lock()
	t.snap.Counts.Record(ev)
	t.mu.Unlock()
}

// RecordCommand counts a console command and whether it failed.
func (t *Tracker) RecordCommand(failed bool) {
	t.mu.Lock()
	t.snap.Counts.Commands++
	if failed {
		t.snap.Counts.CommandErrors++
	}
	t.mu.Unlock()
}

// SetWarmBoot records whether the state was resumed from the store.
func (t *Tracker) SetWarmBoot(warm bool) {
	t.mu.Lock()
	t.snap.WarmBoot = warm
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
