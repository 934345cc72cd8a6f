package tone

import "sync"

// FakeOutput records buzzer calls for test assertions.
type FakeOutput struct {
	mu sync.Mutex

	// Frequencies contains every frequency that was set, in order.
	Frequencies []int

	// Enabled is the current on/off state.
	Enabled bool

	// Played contains the frequency at each off->on transition.
	Played []int

	// Err, if set, is returned by every call.
	Err error

	hz int
}

// NewFakeOutput creates a FakeOutput.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// SetFrequency records the frequency.
func (f *FakeOutput) SetFrequency(hz int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.hz = hz
	f.Frequencies = append(f.Frequencies, hz)
	return nil
}

// SetEnabled records the on/off state.
func (f *FakeOutput) SetEnabled(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if on && !f.Enabled {
		f.Played = append(f.Played, f.hz)
	}
	f.Enabled = on
	return nil
}

// IsEnabled reports the current on/off state.
func (f *FakeOutput) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Enabled
}

// PlayedNotes returns a copy of Played.
func (f *FakeOutput) PlayedNotes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.Played...)
}
