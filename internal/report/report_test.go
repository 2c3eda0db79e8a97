package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

func degC(v float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(v*float64(physic.Celsius))
}

// testRecord: two tires, two positions. The right tire runs hot against a
// 70C ceiling and its inner cell is never measured.
func testRecord() session.Record {
	v := profile.Vehicle{
		Name:           "Test Kart",
		TireCount:      2,
		PositionCount:  2,
		TireLabels:     []string{"L", "R"},
		PositionLabels: []string{"O", "I"},
		MaxTemps:       []physic.Temperature{0, degC(70)},
	}
	m := session.NewMatrix(2, 2)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.Set(0, 0, degC(60), at)
	m.Set(0, 1, degC(62), at)
	m.Set(1, 0, degC(74), at)
	return session.Record{
		ID:          "rec-1",
		Vehicle:     v,
		StartedAt:   at.Add(-90 * time.Second),
		CompletedAt: at,
		Matrix:      m,
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(testRecord(), units.Celsius)

	require.Len(t, sum.Tires, 2)
	assert.Equal(t, "Test Kart", sum.VehicleName)
	assert.Equal(t, 3, sum.Cells)
	assert.Equal(t, 4, sum.Total)

	left := sum.Tires[0]
	assert.Equal(t, "L", left.Label)
	assert.Equal(t, 2, left.Count)
	assert.InDelta(t, 61.0, left.Mean, 1e-9)
	assert.InDelta(t, 60.0, left.Min, 1e-9)
	assert.InDelta(t, 62.0, left.Max, 1e-9)
	assert.InDelta(t, 2.0, left.Spread, 1e-9)
	assert.InDelta(t, 1.4142, left.StdDev, 1e-3)
	assert.False(t, left.Hot, "no ceiling set for the left tire")

	right := sum.Tires[1]
	assert.Equal(t, 1, right.Count)
	assert.InDelta(t, 74.0, right.Mean, 1e-9)
	assert.Zero(t, right.StdDev, "single reading has no deviation")
	assert.True(t, right.Hot, "74C reading against a 70C ceiling")
}

func TestSummarizeEmptyTire(t *testing.T) {
	rec := testRecord()
	rec.Matrix.Clear(1, 0)

	sum := Summarize(rec, units.Fahrenheit)
	right := sum.Tires[1]
	assert.Zero(t, right.Count)
	assert.Zero(t, right.Mean)
	assert.Zero(t, right.Min)
	assert.False(t, right.Hot)
}

func TestSummarizeUsesDisplayUnit(t *testing.T) {
	sum := Summarize(testRecord(), units.Fahrenheit)
	// 60C = 140F, 62C = 143.6F.
	assert.InDelta(t, 141.8, sum.Tires[0].Mean, 1e-9)
	assert.InDelta(t, 3.6, sum.Tires[0].Spread, 1e-9)
}

func TestRenderSessionPage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSession(&buf, testRecord(), units.Celsius, true)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Test Kart")
	assert.Contains(t, out, "60.0")
	assert.Contains(t, out, "3/4 readings")
	assert.Contains(t, out, `class="unset">--`, "unmeasured cell must render as --")
	assert.Contains(t, out, `class="hot">74.0`, "over-ceiling cell must be flagged")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "/session/chart?id=rec-1")
}

func TestRenderSessionPageEmptyStats(t *testing.T) {
	rec := testRecord()
	rec.Matrix.Clear(1, 0)

	var buf bytes.Buffer
	require.NoError(t, RenderSession(&buf, rec, units.Celsius, false))
	if !strings.Contains(buf.String(), "<td>--</td>") {
		t.Errorf("empty tire stats must render as --:\n%s", buf.String())
	}
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, testRecord(), units.Fahrenheit))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Test Kart")
	// Series per position, tires on the axis.
	assert.Contains(t, out, `"O"`)
	assert.Contains(t, out, `"I"`)
	assert.Contains(t, out, `"L"`)
	assert.Contains(t, out, "140")
}
