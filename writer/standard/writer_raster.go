package standard

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/Mictilt/qrlogo/placement"
	"github.com/Mictilt/qrlogo/qrmatrix"
)

// Renderer materializes a QR matrix into an image, with overlay composited
// at the centre when it is not nil.
type Renderer interface {
	Render(mat *qrmatrix.Matrix, overlay image.Image) (image.Image, error)
}

var (
	_ Renderer = (*RasterRenderer)(nil)
	_ Renderer = (*VectorRenderer)(nil)
)

// ErrEmptyMatrix is returned when there is nothing to render.
var ErrEmptyMatrix = errors.New("empty matrix")

// RasterRenderer paints every dark module as a block of blockSize pixels.
type RasterRenderer struct {
	opts *outputImageOptions
}

// NewRaster creates a RasterRenderer.
func NewRaster(opts ...ImageOption) *RasterRenderer {
	return &RasterRenderer{opts: newOutputImageOptions(opts...)}
}

// BlockSize returns the pixel pitch of one module.
func (r *RasterRenderer) BlockSize() int { return r.opts.blockSize }

func (r *RasterRenderer) Render(mat *qrmatrix.Matrix, overlay image.Image) (image.Image, error) {
	if mat == nil || mat.Width() == 0 {
		return nil, ErrEmptyMatrix
	}

	block := r.opts.blockSize
	width, height := mat.Width()*block, mat.Height()*block

	dc := gg.NewContext(width, height)
	dc.SetColor(r.opts.backgroundColor())
	dc.Clear()

	ctx := &DrawContext{
		GraphicsContext: &GGContextWrapper{Context: dc},
		w:               block,
		h:               block,
		color:           r.opts.qrColor,
	}
	shape := r.opts.getShape()
	mat.Iterate(func(x, y int, dark bool) {
		if !dark {
			return
		}
		ctx.x, ctx.y = float64(x*block), float64(y*block)
		shape.Draw(ctx)
	})

	if overlay != nil {
		box := placement.CenterImage(width, height, overlay)
		dc.DrawImage(overlay, box.X, box.Y)
	}

	return dc.Image(), nil
}
