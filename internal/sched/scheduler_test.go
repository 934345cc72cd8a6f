package sched

import (
	"context"
	"testing"
	"time"
)

func TestBankTick(t *testing.T) {
	var b Bank
	b.Arm(Buzzer, 3)
	b.Arm(AlarmRing, 1)

	if got := b.tick(1); got != 1<<AlarmRing {
		t.Errorf("first tick expired mask: got %b, want %b", got, 1<<AlarmRing)
	}
	if !b.Active(Buzzer) || b.Remaining(Buzzer) != 2 {
		t.Errorf("buzzer: active=%v remaining=%d, want active with 2", b.Active(Buzzer), b.Remaining(Buzzer))
	}
	if b.Active(AlarmRing) {
		t.Error("alarm ring slot should have expired")
	}

	// A coarse tick larger than the remaining value expires the slot without wrapping.
	if got := b.tick(10); got != 1<<Buzzer {
		t.Errorf("coarse tick expired mask: got %b, want %b", got, 1<<Buzzer)
	}
	if b.Remaining(Buzzer) != 0 {
		t.Errorf("buzzer remaining: got %d, want 0", b.Remaining(Buzzer))
	}
}

func TestSecondFlag(t *testing.T) {
	s := NewManual(Config{Period: time.Millisecond})

	s.Advance(999 * time.Millisecond)
	if f := s.TakeFlags(); f&FlagSecond != 0 {
		t.Error("second flag raised before 1000 ticks")
	}
	s.Tick()
	if f := s.TakeFlags(); f&FlagSecond == 0 {
		t.Error("second flag not raised after 1000 ticks")
	}
	if f := s.TakeFlags(); f != 0 {
		t.Errorf("flags not cleared after take: %b", f)
	}
}

func TestHooksSeeSecondsAndBlink(t *testing.T) {
	s := NewManual(Config{Period: time.Millisecond})
	seconds := 0
	toggles := 0
	last := true
	s.OnTick(func(tk *Tick) {
		if tk.Second {
			seconds++
		}
		if tk.Blink != last {
			toggles++
			last = tk.Blink
		}
	})

	s.Advance(3 * time.Second)
	if seconds != 3 {
		t.Errorf("seconds: got %d, want 3", seconds)
	}
	if toggles != 6 {
		t.Errorf("blink toggles: got %d, want 6", toggles)
	}
}

func TestHoldFreezesSeconds(t *testing.T) {
	s := NewManual(Config{Period: time.Millisecond})
	s.SetHold(true)
	s.Advance(5 * time.Second)
	if f := s.TakeFlags(); f&FlagSecond != 0 {
		t.Error("second flag raised while held")
	}
	s.SetHold(false)
	s.Advance(time.Second)
	if f := s.TakeFlags(); f&FlagSecond == 0 {
		t.Error("second flag not raised after release")
	}
}

func TestPersistFlag(t *testing.T) {
	s := NewManual(Config{Period: 10 * time.Millisecond, PersistEvery: 2 * time.Second})
	s.Advance(time.Second)
	if f := s.TakeFlags(); f&FlagPersist != 0 {
		t.Error("persist flag raised after 1s")
	}
	s.Advance(time.Second)
	if f := s.TakeFlags(); f&FlagPersist == 0 {
		t.Error("persist flag not raised after 2s")
	}
}

func TestManualDelayAdvancesVirtualTime(t *testing.T) {
	s := NewManual(Config{Period: time.Millisecond})
	s.Delay(25 * time.Millisecond)
	if got := s.Now(); got != 25*time.Millisecond {
		t.Errorf("virtual time after delay: got %v, want 25ms", got)
	}
	s.Delay(0)
	if got := s.Ticks(); got != 25 {
		t.Errorf("zero delay ticked: got %d ticks", got)
	}
}

func TestDelayReleasedByTick(t *testing.T) {
	s := New(Config{Period: time.Millisecond})
	done := make(chan struct{})
	go func() {
		s.Delay(3 * time.Millisecond)
		close(done)
	}()

	// Tick until the delay completes; ticks before the slot is armed are harmless.
	for i := 0; i < 1000; i++ {
		select {
		case <-done:
			return
		default:
		}
		s.Tick()
		time.Sleep(time.Millisecond)
	}
	t.Fatal("delay never completed")
}

func TestStopReleasesDelay(t *testing.T) {
	s := New(Config{Period: time.Millisecond})
	done := make(chan struct{})
	go func() {
		s.Delay(time.Hour)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not release delay")
	}
	// After stop, delays return at once.
	s.Delay(time.Hour)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	s := New(Config{Period: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.Ticks() == 0 {
		t.Error("no ticks fired")
	}
}

func TestCriticalExcludesTick(t *testing.T) {
	s := NewManual(Config{Period: time.Millisecond})
	counter := 0
	s.OnTick(func(*Tick) { counter++ })
	s.Critical(func() {
		s.Bank().Arm(Buzzer, 5)
	})
	s.Advance(5 * time.Millisecond)
	if counter != 5 {
		t.Errorf("hook calls: got %d, want 5", counter)
	}
	var active bool
	s.Critical(func() { active = s.Bank().Active(Buzzer) })
	if active {
		t.Error("buzzer slot still active")
	}
}
