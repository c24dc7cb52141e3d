package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/laurenkolinger/bag-metashape-export/internal/pose"
)

var (
	startColor = color.RGBA{G: 160, A: 255}
	endColor   = color.RGBA{R: 200, A: 255}
)

// RenderMissionMap writes a two-panel PNG: the vehicle's lon/lat path
// coloured by temporal order on the left, and the mission statistics text
// block on the right. An empty pose table is a no-op.
func RenderMissionMap(path, bagName string, table *pose.Table, stats Statistics) error {
	if table.Len() == 0 {
		return nil
	}

	mapPlot, err := pathPlot(bagName, table)
	if err != nil {
		return fmt.Errorf("mission map path panel: %w", err)
	}
	textPlot, err := statsPlot(stats.TextBlock(bagName))
	if err != nil {
		return fmt.Errorf("mission map stats panel: %w", err)
	}

	img := vgimg.NewWith(vgimg.UseWH(14*vg.Inch, 7*vg.Inch), vgimg.UseDPI(150))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: 2,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 4, PadBottom: vg.Millimeter * 4,
		PadLeft: vg.Millimeter * 4, PadRight: vg.Millimeter * 4,
	}
	plots := [][]*plot.Plot{{mapPlot, textPlot}}
	canvases := plot.Align(plots, tiles, dc)
	mapPlot.Draw(canvases[0][0])
	textPlot.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mission map: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write mission map: %w", err)
	}
	return f.Close()
}

// pathPlot builds the lon/lat scatter. Points are coloured from the start of
// the mission to the end using a perceptual colour map, with the first and
// last fixes marked separately.
func pathPlot(bagName string, table *pose.Table) (*plot.Plot, error) {
	samples := table.Samples()

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mission Path: %s", bagName)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(samples))
	for i, s := range samples {
		xys[i] = plotter.XY{X: s.Longitude, Y: s.Latitude}
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	cm := moreland.Kindlmann()
	cm.SetMin(0)
	cm.SetMax(float64(len(samples)))
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := cm.At(float64(i))
		if err != nil {
			c = color.Black
		}
		return draw.GlyphStyle{Color: c, Radius: vg.Points(1), Shape: draw.CircleGlyph{}}
	}
	p.Add(sc)

	start, err := markerScatter(samples[0], startColor)
	if err != nil {
		return nil, err
	}
	end, err := markerScatter(samples[len(samples)-1], endColor)
	if err != nil {
		return nil, err
	}
	p.Add(start, end)
	p.Legend.Add("Start", start)
	p.Legend.Add("End", end)
	p.Legend.Top = true

	squareRanges(p, xys)
	return p, nil
}

func markerScatter(s pose.Sample, c color.Color) (*plotter.Scatter, error) {
	sc, err := plotter.NewScatter(plotter.XYs{{X: s.Longitude, Y: s.Latitude}})
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
	return sc, nil
}

// squareRanges expands the narrower axis range so both axes cover the same
// span in degrees, approximating an equal-aspect map panel.
func squareRanges(p *plot.Plot, xys plotter.XYs) {
	xmin, xmax := xys[0].X, xys[0].X
	ymin, ymax := xys[0].Y, xys[0].Y
	for _, xy := range xys {
		xmin = min(xmin, xy.X)
		xmax = max(xmax, xy.X)
		ymin = min(ymin, xy.Y)
		ymax = max(ymax, xy.Y)
	}

	xspan, yspan := xmax-xmin, ymax-ymin
	span := max(xspan, yspan)
	if span == 0 {
		span = 1e-5 // single fix or no movement: show a small window
	}
	span *= 1.05 // margin

	xc, yc := (xmin+xmax)/2, (ymin+ymax)/2
	p.X.Min, p.X.Max = xc-span/2, xc+span/2
	p.Y.Min, p.Y.Max = yc-span/2, yc+span/2
}

// statsPlot renders the text block on a hidden-axis panel.
func statsPlot(lines []string) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	xys := make(plotter.XYs, len(lines))
	for i := range lines {
		xys[i] = plotter.XY{X: 0.02, Y: 0.96 - float64(i)*0.034}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: lines})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Variant = "Mono"
		labels.TextStyle[i].Font.Size = vg.Points(9)
	}
	p.Add(labels)
	return p, nil
}
