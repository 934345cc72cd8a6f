package input

import (
	"errors"
	"sync"
)

// FakeSource is a test double that returns scripted register values.
type FakeSource struct {
	mu sync.Mutex

	// Samples contains scripted register values. Each ReadButtons call
	// consumes the next one; the last is repeated once exhausted.
	Samples []byte
	index   int

	// Err, if set, is returned by ReadButtons.
	Err error

	// Reads counts ReadButtons calls.
	Reads int
}

// NewFakeSource creates a FakeSource with the given samples.
func NewFakeSource(samples ...byte) *FakeSource {
	return &FakeSource{Samples: samples}
}

// ReadButtons returns the next scripted sample.
func (f *FakeSource) ReadButtons() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// Press replaces the script with a single repeating value where the given
// bits are held down.
func (f *FakeSource) Press(bits ...int) {
	v := Released
	for _, b := range bits {
		v &^= 1 << b
	}
	f.mu.Lock()
	f.Samples = []byte{v}
	f.index = 0
	f.mu.Unlock()
}

// ReleaseAll replaces the script with the released value.
func (f *FakeSource) ReleaseAll() {
	f.Press()
}
