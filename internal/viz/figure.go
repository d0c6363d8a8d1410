package viz

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/tanksim/internal/analysis"
	"github.com/san-kum/tanksim/internal/experiment"
)

var (
	outputColor  = color.RGBA{R: 0x00, G: 0x77, B: 0xbe, A: 0xff}
	inputColor   = color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}
	tangentColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	levelColor   = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// FigureOptions sizes the rendered figure. Panels are stacked vertically.
type FigureOptions struct {
	Width       vg.Length
	PanelHeight vg.Length
	// DPI applies to png output only.
	DPI int
	// Format is any format gonum/plot can write: png, svg, pdf, eps...
	Format string
}

func DefaultFigureOptions() FigureOptions {
	return FigureOptions{Width: 8 * vg.Inch, PanelHeight: 3 * vg.Inch, DPI: 96, Format: "png"}
}

func newCanvas(w, h vg.Length, opts FigureOptions) (vg.CanvasWriterTo, error) {
	switch opts.Format {
	case "", "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(opts.DPI))}, nil
	default:
		c, err := draw.NewFormattedCanvas(w, h, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("figure format %q: %w", opts.Format, err)
		}
		return c, nil
	}
}

// WriteFigure renders the output and input trajectories, followed by one
// tangent construction panel per characterized step event.
// Events that failed analysis get no panel.
func WriteFigure(w io.Writer, report *experiment.Report, opts FigureOptions) error {
	out, err := trajectoryPlot(report.Result.Times, report.Result.Outputs, "Tank temperature", "Taq", outputColor)
	if err != nil {
		return err
	}
	in, err := trajectoryPlot(report.Result.Times, report.Result.Inputs, "Heater current", "u", inputColor)
	if err != nil {
		return err
	}

	rows := [][]*plot.Plot{{out}, {in}}
	for i, resp := range report.Responses {
		if report.EventErrors[i] != nil {
			continue
		}
		p, err := tangentPlot(report, resp)
		if err != nil {
			return fmt.Errorf("step %q: %w", resp.Event.Name, err)
		}
		rows = append(rows, []*plot.Plot{p})
	}

	c, err := newCanvas(opts.Width, opts.PanelHeight*vg.Length(len(rows)), opts)
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      1,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(rows, tiles, draw.New(c))
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", opts.Format, err)
	}
	return nil
}

func trajectoryPlot(xs, ys []float64, title, ylabel string, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xy(xs, ys, 0, len(xs)))
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.2)
	p.Add(line)
	return p, nil
}

// tangentPlot draws the response inside the event window together with the
// tangent, the three levels and the A, B, C points.
func tangentPlot(report *experiment.Report, resp analysis.StepResponse) (*plot.Plot, error) {
	e := resp.Event
	tr := report.Result
	start, end := tr.Window(e.Window.From, e.Window.To)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Step %s", e.Name)
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "Taq"
	p.X.Min, p.X.Max = e.Window.From, e.Window.To
	p.Add(plotter.NewGrid())

	response, err := plotter.NewLine(xy(tr.Times, tr.Outputs, start, end))
	if err != nil {
		return nil, err
	}
	response.LineStyle.Color = outputColor
	response.LineStyle.Width = vg.Points(1.5)
	p.Add(response)

	tangent, err := plotter.NewLine(plotter.XYs{
		{X: e.Window.From, Y: e.Tangent.At(e.Window.From)},
		{X: e.Window.To, Y: e.Tangent.At(e.Window.To)},
	})
	if err != nil {
		return nil, err
	}
	tangent.LineStyle.Color = tangentColor
	p.Add(tangent)

	pre, rise, final := e.Levels()
	for _, level := range []float64{pre, rise, final} {
		l, err := plotter.NewLine(plotter.XYs{{X: e.Window.From, Y: level}, {X: e.Window.To, Y: level}})
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = levelColor
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(l)
	}

	points, err := plotter.NewScatter(plotter.XYs{
		{X: resp.A, Y: pre},
		{X: resp.B, Y: rise},
		{X: resp.C, Y: final},
	})
	if err != nil {
		return nil, err
	}
	points.GlyphStyle.Color = tangentColor
	points.GlyphStyle.Radius = vg.Points(3)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(points)

	// keep the tangent from stretching the y axis
	lo, hi := pre, final
	if lo > hi {
		lo, hi = hi, lo
	}
	margin := 0.2 * (hi - lo)
	p.Y.Min, p.Y.Max = lo-margin, hi+margin

	return p, nil
}

func xy(xs, ys []float64, start, end int) plotter.XYs {
	pts := make(plotter.XYs, 0, end-start)
	for i := start; i < end; i++ {
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}
