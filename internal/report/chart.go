package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// RenderChart writes a self-contained HTML bar chart for one session:
// tires on the X axis, one series per probe position. Unset cells render
// as gaps rather than zeros.
func RenderChart(w io.Writer, rec session.Record, unit units.Unit) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: rec.Vehicle.Name + " tire temps",
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    rec.Vehicle.Name,
			Subtitle: fmt.Sprintf("completed %s", rec.CompletedAt.UTC().Format("2006-01-02 15:04:05 UTC")),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "°" + string(unit)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, rec.Matrix.Tires())
	for t := range labels {
		labels[t] = rec.Vehicle.TireLabel(t)
	}
	bar.SetXAxis(labels)

	for p := 0; p < rec.Matrix.Positions(); p++ {
		data := make([]opts.BarData, rec.Matrix.Tires())
		for t := 0; t < rec.Matrix.Tires(); t++ {
			cell := rec.Matrix.At(t, p)
			if !cell.Set() {
				data[t] = opts.BarData{Value: nil}
				continue
			}
			data[t] = opts.BarData{Value: round1(units.Value(cell.Temp, unit))}
		}
		bar.AddSeries(rec.Vehicle.PositionLabel(p), data)
	}

	return bar.Render(w)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
