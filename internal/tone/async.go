package tone

import (
	"context"
	"log"
	"sync"
)

// AsyncOutput decouples a slow Output from the tick. Calls only record the
// requested state; Run applies the latest state from its own goroutine.
type AsyncOutput struct {
	out  Output
	kick chan struct{}

	mu      sync.Mutex
	hz      int
	enabled bool
}

// NewAsync wraps out.
func NewAsync(out Output) *AsyncOutput {
	return &AsyncOutput{
		out:  out,
		kick: make(chan struct{}, 1),
	}
}

// SetFrequency records the requested frequency. It never blocks.
func (a *AsyncOutput) SetFrequency(hz int) error {
	a.mu.Lock()
	a.hz = hz
	a.mu.Unlock()
	a.signal()
	return nil
}

// SetEnabled records the requested on/off state. It never blocks.
func (a *AsyncOutput) SetEnabled(on bool) error {
	a.mu.Lock()
	a.enabled = on
	a.mu.Unlock()
	a.signal()
	return nil
}

func (a *AsyncOutput) signal() {
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// Run applies requested states until ctx is cancelled, then silences the
// output.
func (a *AsyncOutput) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if err := a.out.SetEnabled(false); err != nil {
				log.Printf("tone: silence on shutdown: %v", err)
			}
			return nil
		case <-a.kick:
			a.mu.Lock()
			hz, on := a.hz, a.enabled
			a.mu.Unlock()
			if err := a.out.SetFrequency(hz); err != nil {
				log.Printf("tone: set frequency %d: %v", hz, err)
				continue
			}
			if err := a.out.SetEnabled(on); err != nil {
				log.Printf("tone: set enabled %v: %v", on, err)
			}
		}
	}
}
