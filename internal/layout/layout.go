// Package layout places a cluster model on a fixed canvas as a cluster map:
// class labels on an outer ring, one ball of object dots per cluster, and an
// edge from every class label to each ball it contributes to.
//
// The layout is deterministic: the same model and options always produce the
// same graph.
package layout

import (
	"errors"
	"math"
	"unicode/utf8"

	"github.com/flarebyte/clustermap/internal/classification"
	"github.com/flarebyte/clustermap/internal/cluster"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	goldenAngle = 2.399963229728653
	relaxPasses = 300
)

// Point is a position in canvas pixels.
type Point struct{ X, Y float64 }

// Rect is an axis-aligned box in canvas pixels.
type Rect struct{ Min, Max Point }

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// ClassNode is the label of a top-level class.
type ClassNode struct {
	ID     string
	Name   string
	Center Point
	Box    Rect
}

// Dot is one object inside a ball.
type Dot struct {
	Object classification.Object
	Center Point
	Radius float64
}

// Ball is the drawn form of a cluster.
type Ball struct {
	Classes []int
	Center  Point
	Radius  float64
	Dots    []Dot
}

// Edge links Graph.Classes[Class] to Graph.Balls[Ball].
type Edge struct {
	Class int
	Ball  int
}

// Graph is a laid out cluster map.
type Graph struct {
	Width   int
	Height  int
	Classes []ClassNode
	Balls   []Ball
	Edges   []Edge
}

// Options controls the canvas and the drawing scale.
type Options struct {
	Width     int
	Height    int
	Margin    float64
	DotRadius float64
	// LabelSize measures a class label; the default assumes a 7x13 bitmap font.
	LabelSize func(label string) (w, h float64)
}

// DefaultOptions returns the options used when no render config is given.
func DefaultOptions() Options {
	return Options{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Margin:    16,
		DotRadius: 4,
		LabelSize: bitmapLabelSize,
	}
}

func bitmapLabelSize(label string) (float64, float64) {
	return float64(7*utf8.RuneCountInString(label) + 12), 13 + 8
}

func (o Options) withDefaults() (Options, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return o, errors.New("layout: canvas size must be positive")
	}
	d := DefaultOptions()
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.DotRadius <= 0 {
		o.DotRadius = d.DotRadius
	}
	if o.LabelSize == nil {
		o.LabelSize = d.LabelSize
	}
	if 2*o.Margin >= float64(o.Width) || 2*o.Margin >= float64(o.Height) {
		return o, errors.New("layout: margin leaves no drawable area")
	}
	return o, nil
}

// Compute lays out m on the canvas described by opts.
func Compute(m *cluster.Model, opts Options) (*Graph, error) {
	if m == nil {
		return nil, errors.New("layout: nil model")
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	n := len(m.Classes)
	dirs := make([]Point, n)
	for i := range dirs {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		dirs[i] = Point{math.Cos(a), math.Sin(a)}
	}

	spacing := opts.DotRadius * 2.4
	balls := make([]Ball, len(m.Clusters))
	sumRadius := 0.0
	for i, c := range m.Clusters {
		balls[i] = Ball{
			Classes: c.Classes,
			Radius:  spacing*math.Sqrt(math.Max(0, float64(len(c.Objects)-1))) + 2*opts.DotRadius,
		}
		sumRadius += balls[i].Radius
	}
	ring := math.Max(80, 1.1*sumRadius+40)

	for i := range balls {
		balls[i].Center = initialCenter(balls[i].Classes, dirs, ring)
	}
	relax(balls, 2*opts.DotRadius)

	g := &Graph{Width: opts.Width, Height: opts.Height}
	g.Classes = placeLabels(m.Classes, dirs, balls, ring, opts)
	for bi, b := range balls {
		for _, ci := range b.Classes {
			g.Edges = append(g.Edges, Edge{Class: ci, Ball: bi})
		}
	}

	scale := fit(g, balls, opts)
	for i, c := range m.Clusters {
		balls[i].Dots = packDots(c.Objects, balls[i].Center, spacing*scale, opts.DotRadius*scale)
	}
	g.Balls = balls
	return g, nil
}

// initialCenter puts a ball at the centroid of its classes' directions, pulled
// towards the middle the more classes it joins.
func initialCenter(classes []int, dirs []Point, ring float64) Point {
	if len(classes) == 0 || len(dirs) == 0 {
		return Point{}
	}
	var c Point
	for _, ci := range classes {
		c.X += dirs[ci].X
		c.Y += dirs[ci].Y
	}
	k := float64(len(classes))
	pull := 0.7 * (1 - (k-1)/float64(len(dirs)))
	return Point{c.X / k * ring * pull, c.Y / k * ring * pull}
}

// relax pushes overlapping balls apart until no pair overlaps or the pass
// budget is spent.
func relax(balls []Ball, gap float64) {
	for pass := 0; pass < relaxPasses; pass++ {
		moved := false
		for i := 0; i < len(balls); i++ {
			for j := i + 1; j < len(balls); j++ {
				a, b := &balls[i], &balls[j]
				want := a.Radius + b.Radius + gap
				dx, dy := b.Center.X-a.Center.X, b.Center.Y-a.Center.Y
				d := math.Hypot(dx, dy)
				if d >= want {
					continue
				}
				var ux, uy float64
				if d < 1e-9 {
					ang := float64(i+2*j) * goldenAngle
					ux, uy = math.Cos(ang), math.Sin(ang)
				} else {
					ux, uy = dx/d, dy/d
				}
				push := (want - d) / 2
				a.Center.X -= ux * push
				a.Center.Y -= uy * push
				b.Center.X += ux * push
				b.Center.Y += uy * push
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

func placeLabels(classes []cluster.Class, dirs []Point, balls []Ball, ring float64, opts Options) []ClassNode {
	extent := 0.0
	for _, b := range balls {
		extent = math.Max(extent, math.Hypot(b.Center.X, b.Center.Y)+b.Radius)
	}
	radius := math.Max(ring, extent+24)

	nodes := make([]ClassNode, len(classes))
	for i, c := range classes {
		label := c.Name
		if label == "" {
			label = c.ID
		}
		w, h := opts.LabelSize(label)
		center := Point{
			X: dirs[i].X*radius + dirs[i].X*w/2,
			Y: dirs[i].Y*radius + dirs[i].Y*h/2,
		}
		nodes[i] = ClassNode{ID: c.ID, Name: label, Center: center, Box: boxAround(center, w, h)}
	}
	return nodes
}

// fit scales the drawing down (never up) to the canvas, centres it and
// returns the applied scale.
func fit(g *Graph, balls []Ball, opts Options) float64 {
	if len(balls) == 0 && len(g.Classes) == 0 {
		return 1
	}
	lo := Point{math.Inf(1), math.Inf(1)}
	hi := Point{math.Inf(-1), math.Inf(-1)}
	grow := func(x0, y0, x1, y1 float64) {
		lo.X, lo.Y = math.Min(lo.X, x0), math.Min(lo.Y, y0)
		hi.X, hi.Y = math.Max(hi.X, x1), math.Max(hi.Y, y1)
	}
	for _, b := range balls {
		grow(b.Center.X-b.Radius, b.Center.Y-b.Radius, b.Center.X+b.Radius, b.Center.Y+b.Radius)
	}
	for _, c := range g.Classes {
		grow(c.Box.Min.X, c.Box.Min.Y, c.Box.Max.X, c.Box.Max.Y)
	}

	availW := float64(opts.Width) - 2*opts.Margin
	availH := float64(opts.Height) - 2*opts.Margin
	scale := 1.0
	if w := hi.X - lo.X; w > availW {
		scale = availW / w
	}
	if h := hi.Y - lo.Y; h > availH {
		scale = math.Min(scale, availH/h)
	}

	mid := Point{(lo.X + hi.X) / 2, (lo.Y + hi.Y) / 2}
	canvasMid := Point{float64(opts.Width) / 2, float64(opts.Height) / 2}
	tr := func(p Point) Point {
		return Point{(p.X-mid.X)*scale + canvasMid.X, (p.Y-mid.Y)*scale + canvasMid.Y}
	}

	for i := range balls {
		balls[i].Center = tr(balls[i].Center)
		balls[i].Radius *= scale
	}
	for i := range g.Classes {
		c := &g.Classes[i]
		w, h := c.Box.Width(), c.Box.Height()
		center := clampCenter(tr(c.Center), w, h, opts)
		c.Center = center
		c.Box = boxAround(center, w, h)
	}
	return scale
}

func clampCenter(p Point, w, h float64, opts Options) Point {
	clamp := func(v, half, limit float64) float64 {
		low, high := opts.Margin+half, limit-opts.Margin-half
		if low > high {
			return limit / 2
		}
		return math.Min(math.Max(v, low), high)
	}
	return Point{
		X: clamp(p.X, w/2, float64(opts.Width)),
		Y: clamp(p.Y, h/2, float64(opts.Height)),
	}
}

// packDots spreads objects on a sunflower spiral around center.
func packDots(objects []classification.Object, center Point, spacing, radius float64) []Dot {
	dots := make([]Dot, len(objects))
	for j, o := range objects {
		r := spacing * math.Sqrt(float64(j))
		a := float64(j) * goldenAngle
		dots[j] = Dot{
			Object: o,
			Center: Point{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)},
			Radius: radius,
		}
	}
	return dots
}

func boxAround(c Point, w, h float64) Rect {
	return Rect{
		Min: Point{c.X - w/2, c.Y - h/2},
		Max: Point{c.X + w/2, c.Y + h/2},
	}
}
