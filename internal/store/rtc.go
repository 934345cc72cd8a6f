package store

import (
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers/pcf8523"

	"github.com/sweeney/seg-clock/internal/bus"
)

// ErrRTCLostPower is returned when the battery-backed clock lost its time.
var ErrRTCLostPower = errors.New("rtc lost power")

// RTC counts seconds across power cycles.
type RTC interface {
	Seconds() (uint32, error)
}

// SystemRTC reads the host clock.
type SystemRTC struct {
	Now func() time.Time
}

// Seconds returns the host Unix time.
func (s SystemRTC) Seconds() (uint32, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return uint32(now().Unix()), nil
}

// PCF8523 reads a battery-backed PCF8523 through the tinygo driver.
type PCF8523 struct {
	dev pcf8523.Device
}

// NewPCF8523 opens the RTC on b. A clock that lost power is set from the
// host clock so that later readings are monotonic.
func NewPCF8523(b bus.Bus) (*PCF8523, error) {
	r := &PCF8523{dev: pcf8523.New(b)}
	lost, err := r.dev.LostPower()
	if err != nil {
		return nil, fmt.Errorf("pcf8523 status: %w", err)
	}
	if lost {
		if err := r.dev.Set(time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("pcf8523 set: %w", err)
		}
	}
	return r, nil
}

// Seconds returns the RTC time as Unix seconds.
func (r *PCF8523) Seconds() (uint32, error) {
	lost, err := r.dev.LostPower()
	if err != nil {
		return 0, err
	}
	if lost {
		return 0, ErrRTCLostPower
	}
	t, err := r.dev.Now()
	if err != nil {
		return 0, err
	}
	return uint32(t.Unix()), nil
}
