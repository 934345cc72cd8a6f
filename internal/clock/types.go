// Package clock contains the time-keeping models of the appliance: the
// calendar, the daily alarm and the countdown timer.
// This package has NO external dependencies (no bus, tone, serial or OS time).
// Every mutation is explicit; callers own the locking.
package clock

import (
	"errors"
	"time"
)

// ErrInvalid is returned when a date, time or alarm field is out of range.
// The model is left unchanged.
var ErrInvalid = errors.New("value out of range")

// Field identifies one editable field of a model.
// Date fields follow the time fields so that a date screen can reuse the
// 1..3 edit pointer shifted by 3.
type Field int

const (
	FieldNone Field = iota
	Hour
	Minute
	Second
	Year
	Month
	Day
	Millisecond
)

var fieldNames = map[Field]string{
	FieldNone:   "none",
	Hour:        "hour",
	Minute:      "minute",
	Second:      "second",
	Year:        "year",
	Month:       "month",
	Day:         "day",
	Millisecond: "millisecond",
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "unknown"
}

// EventType represents an appliance event worth publishing.
type EventType string

const (
	EventAlarmRing        EventType = "ALARM_RING"
	EventCountdownExpired EventType = "COUNTDOWN_EXPIRED"
	EventRingAck          EventType = "RING_ACK"
	EventRingTimeout      EventType = "RING_TIMEOUT"
)

// Event is an appliance event together with the wall-clock reading of the
// appliance at the moment it happened.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Clock     string // appliance calendar, "2006-01-02 15:04:05"
}

// wrap increments x by delta modulo bound, always yielding 0..bound-1.
func wrap(x, delta, bound int) int {
	return ((x+delta)%bound + bound) % bound
}

func validTime(sec, min, hour int) bool {
	return sec >= 0 && sec < 60 && min >= 0 && min < 60 && hour >= 0 && hour < 24
}
