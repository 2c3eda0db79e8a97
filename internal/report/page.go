package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/bbsmith24/yamura-pyrometer/internal/clock"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

var sessionTmpl = template.Must(template.New("session").Parse(sessionHTML))

const sessionHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.VehicleName}} — tire temps</title>
<style>
body { font-family: monospace; max-width: 700px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: right; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th:first-child, td:first-child { text-align: left; }
.hot { color: red; font-weight: bold; }
.unset { color: #888; }
.meta { color: #555; }
</style>
</head>
<body>
<h1>{{.VehicleName}}</h1>
<p class="meta">{{.Stamp}} &middot; {{.Duration}} &middot; {{.Cells}}/{{.Total}} readings</p>

<h2>Readings ({{.UnitSuffix}})</h2>
<table>
<tr><th></th>{{range .PositionLabels}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><th>{{.Label}}</th>{{range .Cells}}<td class="{{if .Hot}}hot{{else if not .Set}}unset{{end}}">{{.Text}}</td>{{end}}</tr>
{{end}}</table>

<h2>Per Tire ({{.UnitSuffix}})</h2>
<table>
<tr><th></th><th>mean</th><th>min</th><th>max</th><th>spread</th><th>stdev</th></tr>
{{range .Stats}}<tr {{if .Hot}}class="hot"{{end}}><th>{{.Label}}</th><td>{{.Mean}}</td><td>{{.Min}}</td><td>{{.Max}}</td><td>{{.Spread}}</td><td>{{.StdDev}}</td></tr>
{{end}}</table>

<p><a href="{{.ChartURL}}">Chart</a> &middot; <a href="{{.JSONURL}}">JSON</a> &middot; <a href="/sessions">All sessions</a></p>
</body>
</html>
`

type pageCell struct {
	Text string
	Set  bool
	Hot  bool
}

type pageRow struct {
	Label string
	Cells []pageCell
}

type pageStats struct {
	Label  string
	Hot    bool
	Mean   string
	Min    string
	Max    string
	Spread string
	StdDev string
}

type pageData struct {
	VehicleName    string
	Stamp          string
	Duration       string
	UnitSuffix     string
	Cells          int
	Total          int
	PositionLabels []string
	Rows           []pageRow
	Stats          []pageStats
	ChartURL       string
	JSONURL        string
}

// RenderSession writes the review page for one saved session.
func RenderSession(w io.Writer, rec session.Record, unit units.Unit, twelveHour bool) error {
	sum := Summarize(rec, unit)

	data := pageData{
		VehicleName: rec.Vehicle.Name,
		Stamp:       clock.Stamp(rec.CompletedAt, twelveHour),
		Duration:    rec.CompletedAt.Sub(rec.StartedAt).Truncate(time.Second).String(),
		UnitSuffix:  "°" + string(unit),
		Cells:       sum.Cells,
		Total:       sum.Total,
		ChartURL:    "/session/chart?id=" + template.URLQueryEscaper(rec.ID),
		JSONURL:     "/session.json?id=" + template.URLQueryEscaper(rec.ID),
	}

	for p := 0; p < rec.Matrix.Positions(); p++ {
		data.PositionLabels = append(data.PositionLabels, rec.Vehicle.PositionLabel(p))
	}

	for t := 0; t < rec.Matrix.Tires(); t++ {
		row := pageRow{Label: rec.Vehicle.TireLabel(t)}
		ceiling := rec.Vehicle.MaxTemp(t)
		for p := 0; p < rec.Matrix.Positions(); p++ {
			cell := rec.Matrix.At(t, p)
			pc := pageCell{Text: "--"}
			if cell.Set() {
				pc.Text = fmt.Sprintf("%.1f", units.Value(cell.Temp, unit))
				pc.Set = true
				pc.Hot = ceiling != 0 && cell.Temp >= ceiling
			}
			row.Cells = append(row.Cells, pc)
		}
		data.Rows = append(data.Rows, row)
	}

	for _, ts := range sum.Tires {
		ps := pageStats{Label: ts.Label, Hot: ts.Hot}
		if ts.Count == 0 {
			ps.Mean, ps.Min, ps.Max, ps.Spread, ps.StdDev = "--", "--", "--", "--", "--"
		} else {
			ps.Mean = fmt.Sprintf("%.1f", ts.Mean)
			ps.Min = fmt.Sprintf("%.1f", ts.Min)
			ps.Max = fmt.Sprintf("%.1f", ts.Max)
			ps.Spread = fmt.Sprintf("%.1f", ts.Spread)
			ps.StdDev = fmt.Sprintf("%.1f", ts.StdDev)
		}
		data.Stats = append(data.Stats, ps)
	}

	return sessionTmpl.Execute(w, data)
}
