package standard

import (
	"fmt"
	"image/color"

	svgo "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
)

var (
	_shapeRectangle IShape = rectangle{}
	_shapeCircle    IShape = circle{}
)

// IShape draws one dark module.
type IShape interface {
	// Draw the shape of QRCode block in IShape implemented way.
	Draw(ctx *DrawContext)
}

// GraphicsContext is the drawing surface a shape paints on. Both the gg
// raster context and the svgo document implement it.
type GraphicsContext interface {
	DrawCircle(cx, cy, radius float64)
	DrawRectangle(x, y, w, h float64)
	SetColor(c color.Color)
	Fill()
}

// GGContextWrapper wraps gg.Context to implement GraphicsContext
type GGContextWrapper struct {
	*gg.Context
}

// svgoContext turns shape drawing calls into svgo elements. Shapes are
// queued until Fill, when the current color is known.
type svgoContext struct {
	canvas  *svgo.SVG
	fill    string
	pending []func(style string)
}

func newSVGOContext(canvas *svgo.SVG) *svgoContext {
	return &svgoContext{canvas: canvas, fill: "#000000"}
}

func (s *svgoContext) DrawCircle(cx, cy, radius float64) {
	s.pending = append(s.pending, func(style string) {
		s.canvas.Circle(int(cx), int(cy), int(radius), style)
	})
}

func (s *svgoContext) DrawRectangle(x, y, w, h float64) {
	s.pending = append(s.pending, func(style string) {
		s.canvas.Rect(int(x), int(y), int(w), int(h), style)
	})
}

func (s *svgoContext) SetColor(c color.Color) {
	s.fill = hexOf(c)
}

func (s *svgoContext) Fill() {
	style := fmt.Sprintf("fill:%s", s.fill)
	for _, draw := range s.pending {
		draw(style)
	}
	s.pending = s.pending[:0]
}

// DrawContext is a rectangle area
type DrawContext struct {
	GraphicsContext

	x, y float64
	w, h int

	color color.Color
}

// UpperLeft returns the point which indicates the upper left position.
func (dc *DrawContext) UpperLeft() (dx, dy float64) {
	return dc.x, dc.y
}

// Edge returns width and height of each shape could take at most.
func (dc *DrawContext) Edge() (width, height int) {
	return dc.w, dc.h
}

// Color returns the color which should be fill into the shape. Note that if you're not
// using this color but your coded color.Color, some ImageOption functions those set foreground color
// would take no effect.
func (dc *DrawContext) Color() color.Color {
	return dc.color
}

// rectangle IShape
type rectangle struct{}

func (r rectangle) Draw(c *DrawContext) {
	c.DrawRectangle(c.x, c.y, float64(c.w), float64(c.h))
	c.SetColor(c.color)
	c.Fill()
}

// circle IShape
type circle struct{}

func (r circle) Draw(c *DrawContext) {
	// choose a proper radius values
	radius := c.w / 2
	r2 := c.h / 2
	if r2 <= radius {
		radius = r2
	}

	cx, cy := c.x+float64(c.w)/2.0, c.y+float64(c.h)/2.0 // get center point
	c.DrawCircle(cx, cy, float64(radius))
	c.SetColor(c.color)
	c.Fill()
}
