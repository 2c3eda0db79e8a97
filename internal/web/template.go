package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/bbsmith24/yamura-pyrometer/internal/clock"
	"github.com/bbsmith24/yamura-pyrometer/internal/status"
	"github.com/bbsmith24/yamura-pyrometer/internal/store"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
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
	"modeOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Yamura Pyrometer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.reading { font-size: 1.2em; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Yamura Pyrometer<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>

<h2>State</h2>
<table>
<tr><th>Mode</th><td id="mode">{{modeOrUnknown .Mode}}</td></tr>
<tr><th>Vehicle</th><td id="vehicle">{{.Vehicle}}</td></tr>
<tr><th>Last reading</th><td id="reading" class="reading">{{if .LastReadingAt.IsZero}}--{{else}}{{.Reading}}{{end}}</td></tr>
<tr><th>Session</th><td id="session">{{if .State}}{{.State}} ({{.CellsSet}}/{{.CellsTotal}}){{else}}idle{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td id="mqtt" class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Unit</th><td>&deg;{{.Unit}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Sensor</th><td>{{.Config.Sensor}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/sessions">Sessions</a> &middot; <a href="/session">Latest session</a> &middot; <a href="/index.json">JSON</a></p>

<script>
(function() {
  var dot = document.getElementById("live-dot");
  var modeEl = document.getElementById("mode");
  var vehicleEl = document.getElementById("vehicle");
  var readingEl = document.getElementById("reading");
  var sessionEl = document.getElementById("session");
  var mqttEl = document.getElementById("mqtt");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws;

  function connect() {
    ws = new WebSocket(proto + location.host + "/live");

    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "offline");
      setTimeout(connect, 5000);
    };
    ws.onerror = function() { setDot("err", "error"); };

    ws.onmessage = function(e) {
      try {
        var msg = JSON.parse(e.data);
        if (msg.type !== "status" || !msg.data || !msg.data.status) return;
        var st = msg.data.status;
        modeEl.textContent = st.mode;
        vehicleEl.textContent = st.vehicle;
        if (st.reading) {
          readingEl.textContent = st.reading.value.toFixed(1) + "°" + st.reading.unit;
        }
        if (st.session) {
          sessionEl.textContent = st.session.state + " (" + st.session.cells + "/" + st.session.total + ")";
        } else {
          sessionEl.textContent = "idle";
        }
        mqttEl.textContent = st.mqtt.connected ? "connected" : "disconnected";
        mqttEl.className = st.mqtt.connected ? "connected" : "disconnected";
      } catch (err) {}
    };
  }

  connect();
})();
</script>
</body>
</html>
`

// renderIndex writes the live status page.
func renderIndex(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime  time.Duration
		Reading string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Reading:  units.Format(snap.LastReading, snap.Unit),
	}
	indexTmpl.Execute(w, data)
}

var sessionsTmpl = template.Must(template.New("sessions").Parse(sessionsHTML))

const sessionsHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Saved Sessions</title>
<style>
body { font-family: monospace; max-width: 700px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.empty { color: #888; }
</style>
</head>
<body>
<h1>Saved Sessions</h1>
{{if .Rows}}
<table>
<tr><th>Completed</th><th>Vehicle</th><th>Readings</th><th></th></tr>
{{range .Rows}}<tr><td>{{.Completed}}</td><td>{{.Vehicle}}</td><td>{{.Cells}}</td><td><a href="/session?id={{.ID}}">view</a> &middot; <a href="/session/chart?id={{.ID}}">chart</a></td></tr>
{{end}}</table>
{{else}}
<p class="empty">No sessions saved yet.</p>
{{end}}
<p><a href="/">Status</a> &middot; <a href="/sessions.json">JSON</a></p>
</body>
</html>
`

type sessionsRow struct {
	ID        string
	Vehicle   string
	Completed string
	Cells     int
}

// renderSessions writes the saved-session list page.
func renderSessions(w io.Writer, infos []store.SessionInfo, twelveHour bool) {
	var rows []sessionsRow
	for _, info := range infos {
		rows = append(rows, sessionsRow{
			ID:        info.ID,
			Vehicle:   info.VehicleName,
			Completed: clock.Stamp(info.CompletedAt, twelveHour),
			Cells:     info.Cells,
		})
	}
	sessionsTmpl.Execute(w, struct{ Rows []sessionsRow }{Rows: rows})
}
