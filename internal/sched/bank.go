package sched

// Slot identifies one inner timer of the bank.
type Slot int

const (
	General   Slot = iota // Delay
	Buzzer                // current note duration
	AlarmRing             // alarm ring timeout
	TimerRing             // countdown ring timeout
	numSlots
)

// Bank is a fixed bank of independent millisecond countdown slots. A slot is
// active while its value is nonzero.
// Not safe for concurrent use: touch it only from a tick hook or inside
// Scheduler.Critical.
type Bank struct {
	slots [numSlots]uint32
}

// Arm loads ms milliseconds into slot s.
func (b *Bank) Arm(s Slot, ms uint32) {
	b.slots[s] = ms
}

// Clear deactivates slot s.
func (b *Bank) Clear(s Slot) {
	b.slots[s] = 0
}

// Active reports whether slot s is still counting.
func (b *Bank) Active(s Slot) bool {
	return b.slots[s] != 0
}

// Remaining returns the milliseconds left in slot s.
func (b *Bank) Remaining(s Slot) uint32 {
	return b.slots[s]
}

// tick decrements every active slot by ms and returns a bitmask of the slots
// that reached zero during this tick.
func (b *Bank) tick(ms uint32) uint8 {
	var expired uint8
	for i := range b.slots {
		if b.slots[i] == 0 {
			continue
		}
		if b.slots[i] <= ms {
			b.slots[i] = 0
			expired |= 1 << i
		} else {
			b.slots[i] -= ms
		}
	}
	return expired
}
