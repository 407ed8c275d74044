package standard

import (
	"image/color"
	"io"
)

const (
	_defaultBlockSize  = 10
	_defaultModuleSize = 10
	_defaultClearance  = 5
)

// ImageOption configures a renderer.
type ImageOption interface {
	apply(oo *outputImageOptions)
}

type outputImageOptions struct {
	// bgColor is the canvas background, ignored when bgTransparent is set.
	bgColor       color.RGBA
	bgTransparent bool
	// qrColor fills the dark modules.
	qrColor color.RGBA

	// blockSize is the pixel pitch of one module on the canvas.
	blockSize int
	// moduleSize is the side of the rectangle drawn for one module in vector
	// mode. It does not follow blockSize.
	moduleSize int
	// clearance is the radius multiplier of the zone kept free for the logo
	// in vector mode, 0 disables it.
	clearance int

	shape IShape

	// svgSink receives the SVG document produced in vector mode.
	svgSink io.Writer
}

func defaultOutputImageOption() *outputImageOptions {
	return &outputImageOptions{
		bgColor:    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		qrColor:    color.RGBA{A: 0xff},
		blockSize:  _defaultBlockSize,
		moduleSize: _defaultModuleSize,
		clearance:  _defaultClearance,
		shape:      _shapeRectangle,
	}
}

func newOutputImageOptions(opts ...ImageOption) *outputImageOptions {
	oo := defaultOutputImageOption()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(oo)
	}

	return oo
}

func (oo *outputImageOptions) backgroundColor() color.Color {
	if oo.bgTransparent {
		return color.Transparent
	}

	return oo.bgColor
}

func (oo *outputImageOptions) getShape() IShape {
	if oo.shape == nil {
		return _shapeRectangle
	}

	return oo.shape
}

// funcOption wraps a function that modifies outputImageOptions into an
// implementation of the ImageOption interface.
type funcOption struct {
	f func(oo *outputImageOptions)
}

func (fo *funcOption) apply(oo *outputImageOptions) {
	fo.f(oo)
}

func newFuncOption(f func(oo *outputImageOptions)) *funcOption {
	return &funcOption{
		f: f,
	}
}

// WithBgTransparent makes the background transparent.
func WithBgTransparent() ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		oo.bgTransparent = true
	})
}

// WithBgColor background color
func WithBgColor(c color.Color) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if c == nil {
			return
		}

		oo.bgColor = parseFromColor(c)
	})
}

// WithBgColorRGBHex background color, invalid hex strings are ignored.
func WithBgColorRGBHex(hex string) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if c, err := ParseHexColor(hex); err == nil {
			oo.bgColor = c
		}
	})
}

// WithFgColor QR color
func WithFgColor(c color.Color) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if c == nil {
			return
		}

		oo.qrColor = parseFromColor(c)
	})
}

// WithFgColorRGBHex Hex string to set QR Color, invalid hex strings are
// ignored.
func WithFgColorRGBHex(hex string) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if c, err := ParseHexColor(hex); err == nil {
			oo.qrColor = c
		}
	})
}

// WithQRWidth specify width of each qr block
func WithQRWidth(width uint8) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if width == 0 {
			return
		}
		oo.blockSize = int(width)
	})
}

// WithModuleSize sets the side of the rectangle emitted for each module in
// vector mode. The default of 10 is kept even when the block size changes.
func WithModuleSize(size int) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if size <= 0 {
			return
		}
		oo.moduleSize = size
	})
}

// WithClearance sets the clearance radius as a multiple of the block size.
// 0 keeps every module.
func WithClearance(multiplier int) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		if multiplier < 0 {
			multiplier = 0
		}
		oo.clearance = multiplier
	})
}

// WithCircleShape use circle shape as rectangle(default)
func WithCircleShape() ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		oo.shape = _shapeCircle
	})
}

// WithCustomShape use custom shape as rectangle(default)
func WithCustomShape(shape IShape) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		oo.shape = shape
	})
}

// WithSVGWriter makes the vector renderer copy its SVG document into w.
func WithSVGWriter(w io.Writer) ImageOption {
	return newFuncOption(func(oo *outputImageOptions) {
		oo.svgSink = w
	})
}
