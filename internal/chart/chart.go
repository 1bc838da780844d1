// Package chart draws the growth of a hypothetical investment.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"HedgeMirror/internal/model"
)

// Renderer turns a growth table into an image.
type Renderer interface {
	RenderGrowth(w io.Writer, title string, g *model.Growth) error
}

// PlotRenderer draws one line per growth column.
type PlotRenderer struct {
	Format string // "png" or "svg"
	Width  vg.Length
	Height vg.Length
}

// NewPlotRenderer creates a 10x6 inch renderer. An empty format means png.
func NewPlotRenderer(format string) *PlotRenderer {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "png"
	}
	return &PlotRenderer{Format: format, Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// FormatForPath picks the image format from a file extension.
func FormatForPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		return "svg"
	}
	return "png"
}

func (r *PlotRenderer) RenderGrowth(w io.Writer, title string, g *model.Growth) error {
	if g == nil || len(g.Rows) == 0 {
		return errors.New("no growth rows to plot")
	}
	if r.Format != "png" && r.Format != "svg" {
		return fmt.Errorf("unsupported chart format %q", r.Format)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Evaluation date"
	p.Y.Label.Text = fmt.Sprintf("Value of %.0f invested", g.Principal)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, col := range g.Columns {
		pts := make(plotter.XYs, len(g.Rows))
		for j, row := range g.Rows {
			pts[j].X = float64(row.EvalDate.Unix())
			pts[j].Y = row.Values[col]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line %s: %w", col, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(col, line)
	}

	wt, err := p.WriterTo(r.Width, r.Height, r.Format)
	if err != nil {
		return fmt.Errorf("create %s canvas: %w", r.Format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
