// Package sched provides the periodic tick that drives the appliance: the
// inner timer bank, the one-second and half-second software counters, the
// status flags polled by the main loop, and the critical section that
// separates the tick from the main loop.
package sched

import (
	"context"
	"sync"
	"time"
)

// Flags are latched by the tick and consumed by the main loop.
type Flags uint8

const (
	FlagSecond     Flags = 1 << iota // one second of appliance time elapsed
	FlagHalfSecond                   // blink phase toggled
	FlagPersist                      // snapshot is due
)

// Tick describes one firing of the scheduler to the hooks.
type Tick struct {
	Bank   *Bank
	Millis uint32 // milliseconds represented by this tick
	Second bool   // the one-second counter rolled over
	Blink  bool   // current blink phase, true = digits visible
}

// Hook runs inside the tick critical section. It must be short and must not
// perform bus I/O.
type Hook func(t *Tick)

// Scheduler owns the tick. All state is guarded by mu, which doubles as the
// critical section shared with the main loop.
type Scheduler struct {
	mu sync.Mutex

	bank      Bank
	period    time.Duration
	msPerTick uint32

	counter1000  uint32
	counter500   uint32
	persistEvery uint32 // seconds, 0 disables
	persistCount uint32
	blink        bool
	hold         bool
	flags        Flags
	ticks        uint64
	hooks        []Hook

	manual      bool
	stopped     bool
	generalDone chan struct{}
}

// Config holds scheduler settings.
type Config struct {
	Period       time.Duration // tick period, at least 1ms
	PersistEvery time.Duration // how often FlagPersist is raised, 0 disables
}

// New creates a scheduler driven by Run.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		period: cfg.Period,
		blink:  true,
	}
	if s.period < time.Millisecond {
		s.period = time.Millisecond
	}
	s.msPerTick = uint32(s.period / time.Millisecond)
	s.persistEvery = uint32(cfg.PersistEvery / time.Second)
	return s
}

// NewManual creates a scheduler whose time only advances through Tick and
// Advance. Delay fast-forwards virtual time instead of waiting.
func NewManual(cfg Config) *Scheduler {
	s := New(cfg)
	s.manual = true
	return s
}

// Bank returns the inner timer bank. Use it only from hooks or inside
// Critical.
func (s *Scheduler) Bank() *Bank {
	return &s.bank
}

// OnTick registers a hook. Hooks run in registration order.
func (s *Scheduler) OnTick(h Hook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

// Critical runs fn with the tick excluded.
func (s *Scheduler) Critical(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Tick advances the scheduler by one period.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticks++
	ms := s.msPerTick
	expired := s.bank.tick(ms)
	if expired&(1<<General) != 0 && s.generalDone != nil {
		close(s.generalDone)
		s.generalDone = nil
	}

	t := Tick{Bank: &s.bank, Millis: ms}

	// The one-second counter freezes while the panel button is held.
	if !s.hold {
		s.counter1000 += ms
		if s.counter1000 >= 1000 {
			s.counter1000 -= 1000
			s.flags |= FlagSecond
			t.Second = true
			if s.persistEvery > 0 {
				s.persistCount++
				if s.persistCount >= s.persistEvery {
					s.persistCount = 0
					s.flags |= FlagPersist
				}
			}
		}
	}

	s.counter500 += ms
	if s.counter500 >= 500 {
		s.counter500 -= 500
		s.blink = !s.blink
		s.flags |= FlagHalfSecond
	}
	t.Blink = s.blink

	for _, h := range s.hooks {
		h(&t)
	}
}

// Advance runs as many ticks as fit in d.
func (s *Scheduler) Advance(d time.Duration) {
	for n := d / s.period; n > 0; n-- {
		s.Tick()
	}
}

// TakeFlags returns the latched flags and clears them.
func (s *Scheduler) TakeFlags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flags
	s.flags = 0
	return f
}

// Blink returns the current blink phase.
func (s *Scheduler) Blink() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blink
}

// SetHold freezes or releases the one-second counter.
func (s *Scheduler) SetHold(hold bool) {
	s.mu.Lock()
	s.hold = hold
	s.mu.Unlock()
}

// Ticks returns the number of ticks since start.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Now returns the elapsed time since start in tick units.
func (s *Scheduler) Now() time.Duration {
	return time.Duration(s.Ticks()) * s.period
}

// Delay blocks the caller for d using the General slot. With a manual
// scheduler it ticks virtual time forward instead. It returns early once the
// scheduler is stopped.
func (s *Scheduler) Delay(d time.Duration) {
	ms := uint32(d / time.Millisecond)
	if ms == 0 {
		return
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.bank.Arm(General, ms)
	if s.manual {
		s.mu.Unlock()
		for {
			s.Tick()
			s.mu.Lock()
			active := s.bank.Active(General)
			s.mu.Unlock()
			if !active {
				return
			}
		}
	}
	done := make(chan struct{})
	s.generalDone = done
	s.mu.Unlock()
	<-done
}

// Stop releases any pending Delay and makes later ones return immediately.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.generalDone != nil {
		close(s.generalDone)
		s.generalDone = nil
	}
}

// Run fires the tick until ctx is cancelled. Missed periods are caught up
// from the monotonic clock so that appliance time does not drift when the
// host is late.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	defer s.Stop()

	start := time.Now()
	var fired int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			due := int64(now.Sub(start) / s.period)
			for ; fired < due; fired++ {
				s.Tick()
			}
		}
	}
}
