// Package store persists the appliance state as a fixed block of 32-bit
// words and decides between cold start and warm resume at boot.
package store

import (
	"errors"
	"fmt"

	"github.com/sweeney/seg-clock/internal/clock"
)

// VerifyCode marks a block written by this firmware.
const VerifyCode = 21911101

// Word offsets of the snapshot block.
const (
	offVerify   = 0
	offRTC      = 1
	offClock    = 2  // sec, min, hour, mday, month, year
	offAlarm    = 8  // sec, min, hour (bit 31: enabled)
	offTimer    = 11 // min, sec, millisec
	Words       = 14
	alarmOnFlag = 1 << 31
)

var (
	// ErrColdStart is returned when the block carries no valid verify code.
	ErrColdStart = errors.New("no snapshot")
	// ErrCorrupt is returned when a verified block holds out-of-range fields.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// Snapshot is the persisted state.
type Snapshot struct {
	RTCSeconds uint32
	Calendar   clock.Calendar
	Alarm      clock.Alarm
	Countdown  clock.Countdown
}

// Encode lays s out in the block format. The countdown state is not stored.
func Encode(s *Snapshot) []uint32 {
	w := make([]uint32, Words)
	w[offVerify] = VerifyCode
	w[offRTC] = s.RTCSeconds

	c := &s.Calendar
	for i, v := range []int{c.Sec, c.Min, c.Hour, c.MDay, c.Month, c.Year} {
		w[offClock+i] = uint32(v)
	}

	a := &s.Alarm
	w[offAlarm] = uint32(a.Sec)
	w[offAlarm+1] = uint32(a.Min)
	w[offAlarm+2] = uint32(a.Hour)
	if a.Enabled {
		w[offAlarm+2] |= alarmOnFlag
	}

	t := &s.Countdown
	w[offTimer] = uint32(t.Min)
	w[offTimer+1] = uint32(t.Sec)
	w[offTimer+2] = uint32(t.Millisec)
	return w
}

// Decode parses a block. A restored countdown is always Idle.
func Decode(w []uint32) (*Snapshot, error) {
	if len(w) < Words || w[offVerify] != VerifyCode {
		return nil, ErrColdStart
	}

	s := &Snapshot{RTCSeconds: w[offRTC]}

	cw := w[offClock : offClock+6]
	sec, min, hour, mday, month, year := int(cw[0]), int(cw[1]), int(cw[2]), int(cw[3]), int(cw[4]), int(cw[5])
	if sec > 59 || min > 59 || hour > 23 || month > 11 || year > clock.MaxYear ||
		mday < 1 || mday > clock.MonthLength(month, year) {
		return nil, fmt.Errorf("calendar %v: %w", cw, ErrCorrupt)
	}
	s.Calendar.Init(sec, min, hour, mday, month, year)

	hourWord := w[offAlarm+2]
	if err := s.Alarm.SetTime(int(w[offAlarm]), int(w[offAlarm+1]), int(hourWord&^alarmOnFlag)); err != nil {
		return nil, fmt.Errorf("alarm: %v: %w", err, ErrCorrupt)
	}
	s.Alarm.Enabled = hourWord&alarmOnFlag != 0

	if err := s.Countdown.Set(int(w[offTimer]), int(w[offTimer+1]), int(w[offTimer+2])); err != nil {
		return nil, fmt.Errorf("countdown: %v: %w", err, ErrCorrupt)
	}
	return s, nil
}
