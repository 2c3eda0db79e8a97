package display

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// OLED renders frames on a 128x64 SSD1306 module over I²C. Each frame is
// composed off-screen with gg and pushed as one image, which keeps the bus
// traffic to a single transfer per redraw.
type OLED struct {
	dev  *ssd1306.Dev
	face font.Face
	w, h int
	line int // row height in pixels
}

// NewOLED opens the display and prepares the font at fontPoints.
func NewOLED(b i2c.Bus, fontPoints float64) (*OLED, error) {
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		return nil, fmt.Errorf("open ssd1306: %w", err)
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if fontPoints <= 0 {
		fontPoints = 12
	}
	face := truetype.NewFace(f, &truetype.Options{Size: fontPoints})

	return &OLED{
		dev:  dev,
		face: face,
		w:    opts.W,
		h:    opts.H,
		line: int(fontPoints) + 3,
	}, nil
}

// paint draws rows of text top to bottom, inverting the highlighted one.
// Rows that fall off the panel are dropped; callers window their content.
func (o *OLED) paint(rows []string, highlight int) error {
	dc := gg.NewContext(o.w, o.h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetFontFace(o.face)

	y := 0
	for i, row := range rows {
		if y+o.line > o.h {
			break
		}
		if i == highlight {
			dc.SetRGB(1, 1, 1)
			dc.DrawRectangle(0, float64(y), float64(o.w), float64(o.line))
			dc.Fill()
			dc.SetRGB(0, 0, 0)
		} else {
			dc.SetRGB(1, 1, 1)
		}
		dc.DrawString(row, 2, float64(y+o.line-3))
		y += o.line
	}

	return o.dev.Draw(o.dev.Bounds(), dc.Image(), image.Point{})
}

// visibleRows is how many text rows fit under the title.
func (o *OLED) visibleRows() int {
	n := o.h/o.line - 1
	if n < 1 {
		n = 1
	}
	return n
}

func (o *OLED) Menu(f MenuFrame) error {
	// Window the list so the highlight stays on the panel.
	visible := o.visibleRows()
	start := 0
	if f.Index >= visible {
		start = f.Index - visible + 1
	}
	end := start + visible
	if end > len(f.Labels) {
		end = len(f.Labels)
	}

	rows := []string{f.Title}
	rows = append(rows, f.Labels[start:end]...)
	return o.paint(rows, 1+f.Index-start)
}

// Grid shows the highlighted tire's row; the full matrix does not fit on
// 64 pixels, and mid-session the operator only works one tire anyway.
func (o *OLED) Grid(f GridFrame) error {
	rows := []string{f.Title}

	if f.Tire >= 0 && f.Tire < len(f.Cells) {
		name := ""
		if f.Tire < len(f.TireLabels) {
			name = f.TireLabels[f.Tire]
		}
		line := name
		for pi, cell := range f.Cells[f.Tire] {
			text := cell.Text
			if f.Sampling && pi == f.Position {
				text = "[" + text + "]"
			}
			line += " " + text
		}
		rows = append(rows, line)
	}

	if f.Sampling && f.Live != "" {
		rows = append(rows, "now "+f.Live)
	}
	if f.Notice != "" {
		rows = append(rows, f.Notice)
	}
	if f.Footer != "" {
		rows = append(rows, f.Footer)
	}
	return o.paint(rows, -1)
}

func (o *OLED) Reading(f ReadingFrame) error {
	rows := []string{f.Title, "", f.Value}
	if f.Footer != "" {
		rows = append(rows, f.Footer)
	}
	return o.paint(rows, -1)
}

func (o *OLED) Message(f MessageFrame) error {
	rows := append([]string{f.Title}, f.Lines...)
	return o.paint(rows, -1)
}

// Close blanks the panel.
func (o *OLED) Close() error {
	return o.dev.Halt()
}
