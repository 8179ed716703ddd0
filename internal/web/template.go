package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/reflow-hotplate/internal/logic"
	"github.com/sweeney/reflow-hotplate/internal/status"
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
	"modeClass": func(m logic.Mode) string {
		switch m {
		case logic.ModePreheat, logic.ModeReflow:
			return "heating"
		case logic.ModeCooling:
			return "cooling"
		case logic.ModeConfig:
			return "config"
		default:
			return "off"
		}
	},
	"celsius": func(v float64) string {
		return fmt.Sprintf("%.1f°C", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Reflow Hotplate</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.heating { color: #c30; font-weight: bold; }
.cooling { color: #06c; font-weight: bold; }
.config { color: orange; }
.off { color: #888; }
.fault { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Reflow Hotplate</h1>

<h2>Control</h2>
<table>
<tr><th>Mode</th><td id="mode" class="{{modeClass .Mode}}">{{.Mode}}{{if eq .Mode.String "CONFIG"}} ({{.MenuState}}){{end}}</td></tr>
<tr><th>Temperature</th><td id="temperature">{{if .SensorFault}}<span class="fault">ERR</span> (last {{celsius .Temperature}}){{else}}{{celsius .Temperature}}{{end}}</td></tr>
<tr><th>Setpoint</th><td id="setpoint">{{if eq .Setpoint 0}}off{{else}}{{.Setpoint}}°C{{end}}{{if .Adjusting}} (adjusting){{end}}</td></tr>
<tr><th>Heater</th><td id="heater" class="{{if .Heater}}heating{{else}}off{{end}}">{{if .Heater}}ON{{else}}OFF{{end}}</td></tr>
{{if gt .Countdown 0}}<tr><th>Cooldown</th><td id="countdown">{{.Countdown}} sec</td></tr>{{end}}
</table>

<h2>Profile</h2>
<table>
<tr><th>Preheat</th><td>{{.Targets.PreheatTarget}}°C</td></tr>
<tr><th>Reflow</th><td>{{.Targets.ReflowTarget}}°C</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Counts</h2>
<table>
<tr><th>Transitions</th><td>{{.Counts.Transitions}}</td></tr>
<tr><th>Reflow cycles</th><td>{{.Counts.ReflowCycles}}</td></tr>
<tr><th>Saves</th><td>{{.Counts.Saves}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Sample</th><td>{{.Config.SampleMs}}ms</td></tr>
<tr><th>Hysteresis</th><td>{{.Config.Hysteresis}}°C</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
{{if .Config.Simulated}}<tr><th>Plate</th><td>simulated</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
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
	indexTmpl.Execute(w, data)
}
