package render

import (
	"errors"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/flarebyte/clustermap/internal/layout"
)

var (
	background = color.White
	edgeColor  = color.RGBA{0x9e, 0x9e, 0x9e, 0xff}
	labelFill  = color.RGBA{0xff, 0xfb, 0xe0, 0xff}
	labelLine  = color.RGBA{0x61, 0x61, 0x61, 0xff}
	labelText  = color.Black
)

// palette colours the balls in cluster order.
var palette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

// WritePNG draws g and encodes it as PNG to w.
func (s *Standard) WritePNG(w io.Writer, g *layout.Graph) error {
	if g == nil {
		return errors.New("nil graph")
	}
	dc := gg.NewContext(g.Width, g.Height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(background)
	dc.Clear()

	dc.SetLineWidth(1)
	dc.SetColor(edgeColor)
	for _, e := range g.Edges {
		from, to := g.Classes[e.Class].Center, g.Balls[e.Ball].Center
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()
	}

	for i, b := range g.Balls {
		c := palette[i%len(palette)]
		dc.DrawCircle(b.Center.X, b.Center.Y, b.Radius)
		dc.SetColor(tint(c))
		dc.FillPreserve()
		dc.SetColor(c)
		dc.Stroke()
		for _, d := range b.Dots {
			dc.DrawCircle(d.Center.X, d.Center.Y, d.Radius)
			dc.Fill()
		}
	}

	for _, n := range g.Classes {
		dc.DrawRoundedRectangle(n.Box.Min.X, n.Box.Min.Y, n.Box.Width(), n.Box.Height(), 4)
		dc.SetColor(labelFill)
		dc.FillPreserve()
		dc.SetColor(labelLine)
		dc.Stroke()
		dc.SetColor(labelText)
		dc.DrawStringAnchored(n.Name, n.Center.X, n.Center.Y, 0.5, 0.5)
	}

	return dc.EncodePNG(w)
}

// tint mixes c with white for ball backgrounds.
func tint(c color.RGBA) color.RGBA {
	mix := func(v uint8) uint8 { return uint8((int(v) + 3*0xff) / 4) }
	return color.RGBA{mix(c.R), mix(c.G), mix(c.B), 0xff}
}
