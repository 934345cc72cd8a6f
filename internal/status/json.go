package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Clock         ClockJSON  `json:"clock"`
	Boot          string     `json:"boot"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Errors        ErrorsJSON `json:"errors"`
	Config        ConfigJSON `json:"config"`
}

// ClockJSON is the JSON representation of the appliance state.
type ClockJSON struct {
	Time           string `json:"time"`
	Date           string `json:"date"`
	Alarm          string `json:"alarm"`
	AlarmEnabled   bool   `json:"alarm_enabled"`
	Countdown      string `json:"countdown"`
	CountdownState string `json:"countdown_state"`
	Mode           string `json:"mode"`
	Editing        bool   `json:"editing"`
	Pointer        int    `json:"edit_field"`
	Flip           bool   `json:"flip"`
	Ring           string `json:"ring"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	AlarmRings        int `json:"alarm_rings"`
	CountdownExpiries int `json:"countdown_expiries"`
	RingAcks          int `json:"ring_acks"`
	RingTimeouts      int `json:"ring_timeouts"`
	Commands          int `json:"commands"`
	CommandErrors     int `json:"command_errors"`
}

// ErrorsJSON is the JSON representation of peripheral error counts.
type ErrorsJSON struct {
	Bus   uint64 `json:"bus"`
	Tone  int    `json:"tone"`
	Input int    `json:"input"`
	Store int    `json:"store"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Serial      string `json:"serial"`
	Buttons     string `json:"buttons"`
	RTC         string `json:"rtc"`
}

func buildInner(snap Snapshot) StatusInner {
	ring := snap.Clock.Ring
	if ring == "" {
		ring = "none"
	}
	boot := "cold"
	if snap.WarmBoot {
		boot = "warm"
	}

	return StatusInner{
		Clock: ClockJSON{
			Time:           snap.Clock.Time,
			Date:           snap.Clock.Date,
			Alarm:          snap.Clock.Alarm,
			AlarmEnabled:   snap.Clock.AlarmEnabled,
			Countdown:      snap.Clock.Countdown,
			CountdownState: snap.Clock.CountdownState,
			Mode:           snap.Clock.Mode,
			Editing:        snap.Clock.Editing,
			Pointer:        snap.Clock.Pointer,
			Flip:           snap.Clock.Flip,
			Ring:           ring,
		},
		Boot:          boot,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			AlarmRings:        snap.Counts.AlarmRings,
			CountdownExpiries: snap.Counts.CountdownExpiries,
			RingAcks:          snap.Counts.RingAcks,
			RingTimeouts:      snap.Counts.RingTimeouts,
			Commands:          snap.Counts.Commands,
			CommandErrors:     snap.Counts.CommandErrors,
		},
		Errors: ErrorsJSON{
			Bus:   snap.Errors.Bus,
			Tone:  snap.Errors.Tone,
			Input: snap.Errors.Input,
			Store: snap.Errors.Store,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Serial:      snap.Config.Serial,
			Buttons:     snap.Config.Buttons,
			RTC:         snap.Config.RTC,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatClockJSON returns only the appliance state.
func FormatClockJSON(snap Snapshot) []byte {
	data, _ := json.Marshal(buildInner(snap).Clock)
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
