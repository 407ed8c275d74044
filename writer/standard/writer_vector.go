package standard

import (
	"bytes"
	"fmt"
	"image"

	svgo "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/Mictilt/qrlogo/placement"
	"github.com/Mictilt/qrlogo/qrmatrix"
)

// VectorRenderer emits the QR code as an SVG document of fixed size
// rectangles, leaving a circular zone around the centre empty when a logo is
// placed there. The document goes to the writer set with WithSVGWriter and
// is rasterized for the returned image.
type VectorRenderer struct {
	opts *outputImageOptions
}

// NewVector creates a VectorRenderer.
func NewVector(opts ...ImageOption) *VectorRenderer {
	return &VectorRenderer{opts: newOutputImageOptions(opts...)}
}

// BlockSize returns the pixel pitch of one module.
func (v *VectorRenderer) BlockSize() int { return v.opts.blockSize }

func (v *VectorRenderer) Render(mat *qrmatrix.Matrix, overlay image.Image) (image.Image, error) {
	if mat == nil || mat.Width() == 0 {
		return nil, ErrEmptyMatrix
	}

	block := v.opts.blockSize
	width, height := mat.Width()*block, mat.Height()*block

	doc, err := v.document(mat, overlay, width, height)
	if err != nil {
		return nil, err
	}

	if v.opts.svgSink != nil {
		if _, err = v.opts.svgSink.Write(doc); err != nil {
			return nil, errors.Wrap(err, "write svg")
		}
	}

	img, err := rasterizeSVG(bytes.NewReader(doc), width, height)
	if err != nil {
		return nil, err
	}

	// oksvg has no <image> support, the logo is painted on the raster instead.
	if overlay != nil {
		box := placement.CenterImage(width, height, overlay)
		gg.NewContextForRGBA(img).DrawImage(overlay, box.X, box.Y)
	}

	return img, nil
}

// document builds the SVG text.
func (v *VectorRenderer) document(mat *qrmatrix.Matrix, overlay image.Image, width, height int) ([]byte, error) {
	var buf bytes.Buffer
	block := v.opts.blockSize

	canvas := svgo.New(&buf)
	canvas.Startview(width, height, 0, 0, width, height)
	if !v.opts.bgTransparent {
		canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", hexOf(v.opts.bgColor)))
	}

	var zone placement.Clearance
	clearing := overlay != nil && v.opts.clearance > 0
	if clearing {
		zone = placement.NewClearance(mat.Width(), mat.Height(), block, v.opts.clearance)
	}

	ctx := &DrawContext{
		GraphicsContext: newSVGOContext(canvas),
		w:               v.opts.moduleSize,
		h:               v.opts.moduleSize,
		color:           v.opts.qrColor,
	}
	shape := v.opts.getShape()

	canvas.Gid("modules")
	mat.Iterate(func(x, y int, dark bool) {
		if !dark || (clearing && zone.Excludes(x, y)) {
			return
		}
		ctx.x, ctx.y = float64(x*block), float64(y*block)
		shape.Draw(ctx)
	})
	canvas.Gend()

	if overlay != nil {
		href, err := pngDataURL(overlay)
		if err != nil {
			return nil, err
		}
		box := placement.CenterImage(width, height, overlay)
		canvas.Image(box.X, box.Y, box.Width, box.Height, href)
	}

	canvas.End()
	return buf.Bytes(), nil
}
