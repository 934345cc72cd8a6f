package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/seg-clock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orNone": func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Seg Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.ringing { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Seg Clock</h1>

<h2>Clock</h2>
<table>
<tr><th>Time</th><td id="time">{{.Clock.Time}}</td></tr>
<tr><th>Date</th><td id="date">{{.Clock.Date}}</td></tr>
<tr><th>Alarm</th><td id="alarm" class="{{if .Clock.AlarmEnabled}}on{{else}}off{{end}}">{{.Clock.Alarm}} {{if .Clock.AlarmEnabled}}on{{else}}off{{end}}</td></tr>
<tr><th>Countdown</th><td id="countdown">{{.Clock.Countdown}} ({{.Clock.CountdownState}})</td></tr>
<tr><th>Ringing</th><td id="ring" class="{{if eq (orNone .Clock.Ring) "none"}}off{{else}}ringing{{end}}">{{orNone .Clock.Ring}}</td></tr>
</table>

<h2>Display</h2>
<table>
<tr><th>Mode</th><td id="mode">{{.Clock.Mode}}</td></tr>
<tr><th>Editing</th><td>{{if .Clock.Editing}}field {{.Clock.Pointer}}{{else}}no{{end}}</td></tr>
<tr><th>Flipped</th><td>{{if .Clock.Flip}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Serial</th><td>{{.Config.Serial}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Alarm rings</th><td>{{.Counts.AlarmRings}}</td></tr>
<tr><th>Countdown expiries</th><td>{{.Counts.CountdownExpiries}}</td></tr>
<tr><th>Ring acks</th><td>{{.Counts.RingAcks}}</td></tr>
<tr><th>Ring timeouts</th><td>{{.Counts.RingTimeouts}}</td></tr>
<tr><th>Commands</th><td>{{.Counts.Commands}} ({{.Counts.CommandErrors}} failed)</td></tr>
</table>

<h2>Errors</h2>
<table>
<tr><th>Bus</th><td>{{.Errors.Bus}}</td></tr>
<tr><th>Buzzer</th><td>{{.Errors.Tone}}</td></tr>
<tr><th>Input</th><td>{{.Errors.Input}}</td></tr>
<tr><th>Store</th><td>{{.Errors.Store}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Boot</th><td>{{if .WarmBoot}}warm{{else}}cold{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Buttons</th><td>{{.Config.Buttons}}</td></tr>
<tr><th>RTC</th><td>{{.Config.RTC}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/clock.json">clock</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
