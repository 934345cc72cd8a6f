package display

import "sync"

// FakeBus records what each physical digit showed while enabled.
type FakeBus struct {
	mu sync.Mutex

	segments byte
	shown    Frame
	lit      byte

	// Err, if set, is returned by every write.
	Err error

	// Writes counts successful writes.
	Writes int
}

// NewFakeBus creates a FakeBus.
func NewFakeBus() *FakeBus {
	return &FakeBus{}
}

func (f *FakeBus) WriteSegments(seg byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.segments = seg
	f.Writes++
	return nil
}

func (f *FakeBus) WriteDigits(mask byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for i := 0; i < Digits; i++ {
		if mask&(1<<i) != 0 {
			f.shown[i] = f.segments
			f.lit |= 1 << i
		}
	}
	f.Writes++
	return nil
}

// Shown returns the segments each digit displayed since the last Reset.
// Digits never enabled read as zero.
func (f *FakeBus) Shown() Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shown
}

// Lit returns the digits enabled since the last Reset.
func (f *FakeBus) Lit() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lit
}

// Reset forgets what was shown.
func (f *FakeBus) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = Frame{}
	f.lit = 0
}
