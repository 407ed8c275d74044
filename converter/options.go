package converter

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Mictilt/qrlogo/qrmatrix"
	"github.com/Mictilt/qrlogo/writer/standard"
)

// Mode selects how the QR code is drawn.
type Mode string

const (
	// ModeRaster paints modules straight onto a bitmap.
	ModeRaster Mode = "raster"
	// ModeVector writes an SVG document first and rasterizes it.
	ModeVector Mode = "vector"
)

const (
	_defaultPrefix  = "qrcode"
	_defaultSVGName = "out.svg"
	_defaultBorder  = 4
)

// Option configures a Converter.
type Option interface {
	apply(c *config)
}

type config struct {
	mode      Mode
	level     qrmatrix.Level
	levelSet  bool
	border    int
	size      []int
	outputDir string
	prefix    string
	svgName   string

	imageOptions []standard.ImageOption

	logger logrus.FieldLogger
	client *http.Client
	now    func() time.Time
	random func(n int) int
}

func (c *config) errorLevel() qrmatrix.Level {
	if c.levelSet {
		return c.level
	}
	// a logo covers part of the symbol in vector mode, so default to the
	// highest level there
	if c.mode == ModeVector {
		return qrmatrix.LevelHigh
	}

	return qrmatrix.LevelLow
}

type funcOption struct {
	f func(c *config)
}

func (fo *funcOption) apply(c *config) {
	fo.f(c)
}

func newFuncOption(f func(c *config)) *funcOption {
	return &funcOption{f: f}
}

// WithMode selects raster (default) or vector rendering.
func WithMode(m Mode) Option {
	return newFuncOption(func(c *config) {
		c.mode = m
	})
}

// WithErrorCorrection overrides the mode dependent default level (L for
// raster, H for vector).
func WithErrorCorrection(level qrmatrix.Level) Option {
	return newFuncOption(func(c *config) {
		c.level = level
		c.levelSet = true
	})
}

// WithBorder sets the quiet zone width in modules.
func WithBorder(modules int) Option {
	return newFuncOption(func(c *config) {
		c.border = modules
	})
}

// WithSize requests the output to be resized. The pair must hold two
// positive values; the larger one is used for both sides.
func WithSize(size []int) Option {
	return newFuncOption(func(c *config) {
		c.size = size
	})
}

// WithOutputDir sets the directory files are written to.
func WithOutputDir(dir string) Option {
	return newFuncOption(func(c *config) {
		if dir != "" {
			c.outputDir = dir
		}
	})
}

// WithPrefix sets the output file name prefix.
func WithPrefix(prefix string) Option {
	return newFuncOption(func(c *config) {
		if prefix != "" {
			c.prefix = prefix
		}
	})
}

// WithSVGName sets the file name of the SVG document written in vector mode.
func WithSVGName(name string) Option {
	return newFuncOption(func(c *config) {
		if name != "" {
			c.svgName = name
		}
	})
}

// WithImageOptions passes options through to the renderer.
func WithImageOptions(opts ...standard.ImageOption) Option {
	return newFuncOption(func(c *config) {
		c.imageOptions = append(c.imageOptions, opts...)
	})
}

// WithLogger sets the log sink.
func WithLogger(l logrus.FieldLogger) Option {
	return newFuncOption(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithHTTPClient sets the client used to fetch remote logos.
func WithHTTPClient(client *http.Client) Option {
	return newFuncOption(func(c *config) {
		c.client = client
	})
}

// WithClock replaces time.Now and the random suffix source, for tests.
func WithClock(now func() time.Time, random func(n int) int) Option {
	return newFuncOption(func(c *config) {
		if now != nil {
			c.now = now
		}
		if random != nil {
			c.random = random
		}
	})
}
