// Package placement holds the geometry used to put a logo on top of a QR
// code: where the logo goes, and which modules are left blank under it.
//
// Everything here is pure arithmetic on integer dimensions so that the raster
// and vector renderers agree on the same coordinates.
package placement

import (
	"image"
	"math"
)

// Box is the rectangle an overlay occupies on the canvas, in pixels.
type Box struct {
	X, Y          int
	Width, Height int
}

// Point returns the upper left corner of the box.
func (b Box) Point() image.Point {
	return image.Pt(b.X, b.Y)
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Center computes where an overlayW x overlayH image is drawn on a
// canvasW x canvasH canvas.
//
// The horizontal offset is centred on the overlay width, the vertical offset
// on the larger of the two overlay dimensions (ties go to the height). For a
// landscape or portrait overlay the result is therefore not visually
// symmetric; existing output depends on it, so keep it this way. Offsets are
// truncated toward zero.
func Center(canvasW, canvasH, overlayW, overlayH int) Box {
	dim := overlayW
	if overlayW <= overlayH {
		dim = overlayH
	}

	return Box{
		X:      (canvasW - overlayW) / 2,
		Y:      (canvasH - dim) / 2,
		Width:  overlayW,
		Height: overlayH,
	}
}

// CenterImage is Center for an overlay image.
func CenterImage(canvasW, canvasH int, overlay image.Image) Box {
	b := overlay.Bounds()
	return Center(canvasW, canvasH, b.Dx(), b.Dy())
}

// Clearance is the circular zone around the canvas centre in which the vector
// renderer drops dark modules so the logo stays readable.
//
// The radius is derived from the block size only, not from the logo that is
// eventually drawn there.
type Clearance struct {
	cx, cy    float64
	radius    float64
	blockSize int
}

// NewClearance returns the zone for a cols x rows module grid rendered with
// blockSize pixel blocks. The radius is blockSize*multiplier pixels.
func NewClearance(cols, rows, blockSize, multiplier int) Clearance {
	if blockSize <= 0 {
		blockSize = 1
	}

	return Clearance{
		cx:        float64(cols) / 2,
		cy:        float64(rows) / 2,
		radius:    float64(blockSize * multiplier),
		blockSize: blockSize,
	}
}

// Radius returns the zone radius in pixels.
func (c Clearance) Radius() float64 { return c.radius }

// Limit is the distance, in modules, up to which modules are dropped.
func (c Clearance) Limit() float64 {
	return c.radius/float64(c.blockSize) + 1
}

// Excludes reports whether the module at grid coordinate (x, y) falls inside
// the zone.
func (c Clearance) Excludes(x, y int) bool {
	if c.radius <= 0 {
		return false
	}

	return math.Hypot(float64(x)-c.cx, float64(y)-c.cy) <= c.Limit()
}
