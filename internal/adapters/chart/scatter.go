// Package chart draws the fame vs talent scatter plot.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

// Format is an output image encoding.
type Format string

// Supported formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

const (
	defaultWidth  = 960
	defaultHeight = 520
	baseDotWidth  = 5
	focusDotWidth = 9
)

var focusColor = drawing.ColorBlack

// Point is one actor on the plot.
type Point struct {
	Actor   string
	Fame    float64
	Talent  float64
	Balance float64
}

// Plot is the scatter content: every plottable actor plus the optional
// highlighted focus actor.
type Plot struct {
	Points    []Point
	Highlight []Point
	Label     string
}

// Highlighted reports whether the plot carries a focus overlay.
func (p Plot) Highlighted() bool { return len(p.Highlight) > 0 }

// BuildScatter maps ds to plot points. Records missing fame or talent are
// skipped. When focus names an actor in ds its points form the highlight.
func BuildScatter(ds model.Dataset, focus string) Plot {
	var p Plot
	for _, r := range ds.Records() {
		if math.IsNaN(r.FameScore) || math.IsNaN(r.TalentScore) {
			continue
		}
		pt := Point{Actor: r.Actor, Fame: r.FameScore, Talent: r.TalentScore, Balance: r.BalanceScore}
		p.Points = append(p.Points, pt)
		if focus != "" && r.Actor == focus {
			p.Highlight = append(p.Highlight, pt)
		}
	}
	if p.Highlighted() {
		p.Label = focus
	}
	return p
}

// Renderer draws plots with go-chart.
type Renderer struct {
	width  int
	height int
	logger logger.Logger
}

// NewRenderer creates a renderer with configuration options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("chart")
	}
	return r
}

// Render writes p to w in format f. A plot go-chart cannot draw, including an
// empty one, is written as a blank placeholder image instead.
func (r *Renderer) Render(ctx context.Context, w io.Writer, p Plot, f Format) error {
	if f != FormatSVG && f != FormatPNG {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	var buf bytes.Buffer
	outcome := "ok"
	if err := r.draw(&buf, p, f); err != nil {
		outcome = "fallback"
		r.logger.Warn(ctx, "scatter render failed; showing blank fallback",
			logger.Int("points", len(p.Points)),
			logger.Error(err),
		)
		buf.Reset()
		if err := blank(&buf, f, r.width, r.height); err != nil {
			metrics.RecordChartRender(string(f), "error")
			return err
		}
	}
	metrics.RecordChartRender(string(f), outcome)

	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) draw(w io.Writer, p Plot, f Format) error {
	if len(p.Points) == 0 {
		return fmt.Errorf("no plottable points")
	}

	xs, ys, balance := columns(p.Points)
	bmin, bmax := span(balance)

	byBalance := func(_, _ gochart.Range, index int, _, _ float64) drawing.Color {
		if bmin == bmax || math.IsNaN(balance[index]) {
			return gochart.Viridis(0.5, 0, 1)
		}
		return gochart.Viridis(balance[index], bmin, bmax)
	}

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    "Actors",
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth:      gochart.Disabled,
				DotWidth:         baseDotWidth,
				DotColorProvider: byBalance,
			},
		},
	}

	if p.Highlighted() {
		hx, hy, _ := columns(p.Highlight)
		series = append(series,
			gochart.ContinuousSeries{
				Name:    p.Label,
				XValues: hx,
				YValues: hy,
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    focusDotWidth,
					DotColor:    focusColor,
				},
			},
			gochart.AnnotationSeries{
				Annotations: []gochart.Value2{{XValue: hx[0], YValue: hy[0], Label: p.Label}},
			},
		)
	}

	xmin, xmax := padded(span(xs))
	ymin, ymax := padded(span(ys))

	ch := gochart.Chart{
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 10}},
		XAxis:      gochart.XAxis{Name: "Fame", Range: &gochart.ContinuousRange{Min: xmin, Max: xmax}},
		YAxis:      gochart.YAxis{Name: "Talent", Range: &gochart.ContinuousRange{Min: ymin, Max: ymax}},
		Series:     series,
	}

	provider := gochart.SVG
	if f == FormatPNG {
		provider = gochart.PNG
	}
	return ch.Render(provider, w)
}

func columns(points []Point) (xs, ys, balance []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	balance = make([]float64, len(points))
	for i, pt := range points {
		xs[i], ys[i], balance[i] = pt.Fame, pt.Talent, pt.Balance
	}
	return xs, ys, balance
}

// span returns the min and max of the non-NaN values, or 0,0 when there are none.
func span(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// padded widens [lo, hi] so single points and flat columns still get an axis.
func padded(lo, hi float64) (float64, float64) {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}

func blank(w io.Writer, f Format, width, height int) error {
	if f == FormatSVG {
		_, err := fmt.Fprintf(w,
			`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="100%%" height="100%%" fill="#ffffff"/></svg>`,
			width, height)
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return png.Encode(w, img)
}
