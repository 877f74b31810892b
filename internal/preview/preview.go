// Package preview draws the original and the apparent vertex positions of a
// mesh projected onto one coordinate plane.
package preview

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Preview errors.
var (
	ErrUnknownPlane  = errors.New("unknown projection plane")
	ErrLengthDiffers = errors.New("before and after vertex counts differ")
	ErrNoVertices    = errors.New("no vertices to plot")
)

// Plane is a coordinate plane to project onto.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

// ParsePlane converts a string to a Plane. Empty selects PlaneXY.
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(strings.ToLower(s)); p {
	case "":
		return PlaneXY, nil
	case PlaneXY, PlaneXZ, PlaneYZ:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlane, s)
	}
}

// Project returns the two plane coordinates of v.
func (p Plane) Project(v r3.Vec) (float64, float64) {
	switch p {
	case PlaneXZ:
		return v.X, v.Z
	case PlaneYZ:
		return v.Y, v.Z
	default:
		return v.X, v.Y
	}
}

func (p Plane) axes() (string, string) {
	s := string(p)
	if len(s) != 2 {
		return "X", "Y"
	}
	return strings.ToUpper(s[:1]), strings.ToUpper(s[1:])
}

// Options controls the plot.
type Options struct {
	Title  string
	Plane  Plane
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns an 8x8 inch XY plot.
func DefaultOptions() Options {
	return Options{
		Title:  "Apparent shape",
		Plane:  PlaneXY,
		Width:  8 * vg.Inch,
		Height: 8 * vg.Inch,
	}
}

var (
	beforeColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	afterColor  = color.RGBA{R: 220, G: 50, B: 40, A: 255}
)

// Plot builds the scatter plot of before and after vertices.
func Plot(before, after []r3.Vec, opts Options) (*plot.Plot, error) {
	if len(before) != len(after) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthDiffers, len(before), len(after))
	}
	if len(before) == 0 {
		return nil, ErrNoVertices
	}
	if opts.Plane == "" {
		opts.Plane = PlaneXY
	}
	if _, err := ParsePlane(string(opts.Plane)); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = opts.Title
	xl, yl := opts.Plane.axes()
	p.X.Label.Text = xl
	p.Y.Label.Text = yl
	p.Add(plotter.NewGrid())

	orig, err := plotter.NewScatter(project(before, opts.Plane))
	if err != nil {
		return nil, fmt.Errorf("original scatter: %w", err)
	}
	orig.GlyphStyle.Color = beforeColor
	orig.GlyphStyle.Shape = draw.RingGlyph{}
	orig.GlyphStyle.Radius = vg.Points(3)

	apparent, err := plotter.NewScatter(project(after, opts.Plane))
	if err != nil {
		return nil, fmt.Errorf("apparent scatter: %w", err)
	}
	apparent.GlyphStyle.Color = afterColor
	apparent.GlyphStyle.Shape = draw.CircleGlyph{}
	apparent.GlyphStyle.Radius = vg.Points(2)

	p.Add(orig, apparent)
	p.Legend.Add("original", orig)
	p.Legend.Add("apparent", apparent)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// Render plots before and after and saves the image. The format follows the
// file extension (png, svg, pdf, ...).
func Render(path string, before, after []r3.Vec, opts Options) error {
	p, err := Plot(before, after, opts)
	if err != nil {
		return err
	}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 8 * vg.Inch
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving %s: %w", filepath.Base(path), err)
	}
	return nil
}

func project(vs []r3.Vec, plane Plane) plotter.XYs {
	pts := make(plotter.XYs, len(vs))
	for i, v := range vs {
		pts[i].X, pts[i].Y = plane.Project(v)
	}
	return pts
}
