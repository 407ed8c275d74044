// Package converter runs the whole QR generation pipeline: encode the
// content, fetch the logo, render, resize and write the PNG.
//
// Only encoding, rendering and writing output can fail a run. A logo that
// cannot be loaded or a malformed target size is logged and skipped, so the
// caller always gets a usable QR code when the content itself is valid.
package converter

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"lukechampine.com/frand"

	"github.com/Mictilt/qrlogo/qrmatrix"
	"github.com/Mictilt/qrlogo/writer/standard"
	"github.com/Mictilt/qrlogo/writer/standard/imgkit"
)

// Result describes the files a run produced.
type Result struct {
	// Filename is the path of the PNG.
	Filename string
	// Width and Height are the final pixel dimensions of the PNG.
	Width, Height int
	// SVGFilename is set in vector mode only.
	SVGFilename string
}

// Converter holds the settings of one run.
type Converter struct {
	cfg *config
}

// New creates a Converter. Defaults: raster mode, level L (H in vector
// mode), 4 module border, output in the working directory.
func New(opts ...Option) *Converter {
	cfg := &config{
		mode:      ModeRaster,
		border:    _defaultBorder,
		outputDir: ".",
		prefix:    _defaultPrefix,
		svgName:   _defaultSVGName,
		logger:    logrus.New(),
		now:       time.Now,
		random:    frand.Intn,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}

	return &Converter{cfg: cfg}
}

// Process generates the QR code for content with the image at overlaySrc
// (a local path or an http(s) URL) in the middle. An empty overlaySrc means
// no logo.
func (c *Converter) Process(ctx context.Context, overlaySrc, content string) (*Result, error) {
	log := c.cfg.logger

	level := c.cfg.errorLevel()
	mat, err := qrmatrix.Encode(content, level, c.cfg.border)
	if err != nil {
		return nil, fail(StageEncode, err)
	}
	log.WithFields(logrus.Fields{
		"modules": mat.Width(),
		"level":   level.String(),
	}).Debug("encoded content")

	overlay := c.loadOverlay(ctx, overlaySrc)

	res := &Result{}
	img, err := c.render(mat, overlay, res)
	if err != nil {
		return nil, err
	}

	img = c.resize(img)

	name := OutputName(c.cfg.prefix, ".png", c.cfg.now(), c.cfg.random(100000))
	res.Filename = filepath.Join(c.cfg.outputDir, name)
	if err = imgkit.Save(img, res.Filename); err != nil {
		return nil, fail(StageExport, err)
	}
	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()

	log.WithFields(logrus.Fields{
		"file":   res.Filename,
		"width":  res.Width,
		"height": res.Height,
	}).Info("generated qrcode file")

	return res, nil
}

func (c *Converter) loadOverlay(ctx context.Context, src string) image.Image {
	if src == "" {
		return nil
	}

	log := c.cfg.logger.WithField("overlay", src)
	img, err := imgkit.Fetch(ctx, c.cfg.client, src)
	if err != nil {
		log.WithError(err).Warn("cannot fetch inner image, continuing without it")
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		log.Warn("inner image has no pixels, continuing without it")
		return nil
	}

	log.WithFields(logrus.Fields{"width": b.Dx(), "height": b.Dy()}).Debug("loaded inner image")
	return img
}

func (c *Converter) render(mat *qrmatrix.Matrix, overlay image.Image, res *Result) (image.Image, error) {
	opts := c.cfg.imageOptions

	switch c.cfg.mode {
	case ModeRaster:
		img, err := standard.NewRaster(opts...).Render(mat, overlay)
		if err != nil {
			return nil, fail(StageRender, err)
		}
		return img, nil
	case ModeVector:
		return c.renderVector(mat, overlay, res)
	}

	return nil, fail(StageRender, errors.Errorf("unknown mode %q", c.cfg.mode))
}

func (c *Converter) renderVector(mat *qrmatrix.Matrix, overlay image.Image, res *Result) (img image.Image, err error) {
	path := filepath.Join(c.cfg.outputDir, c.cfg.svgName)
	fd, err := os.Create(path)
	if err != nil {
		return nil, fail(StageExport, errors.Wrapf(err, "create %s", path))
	}
	defer func() {
		if cerr := fd.Close(); cerr != nil && err == nil {
			img, err = nil, fail(StageExport, errors.Wrapf(cerr, "close %s", path))
		}
	}()

	opts := append([]standard.ImageOption{}, c.cfg.imageOptions...)
	opts = append(opts, standard.WithSVGWriter(fd))
	img, err = standard.NewVector(opts...).Render(mat, overlay)
	if err != nil {
		return nil, fail(StageRender, err)
	}

	res.SVGFilename = path
	c.cfg.logger.WithField("file", path).Debug("wrote svg document")
	return img, nil
}

// resize scales img to the configured square size. A missing size leaves the
// image untouched; a malformed one is logged and also leaves it untouched.
func (c *Converter) resize(img image.Image) image.Image {
	log := c.cfg.logger
	if c.cfg.size == nil {
		log.Debug("no target size, keeping rendered size")
		return img
	}

	side, err := imgkit.SquareSize(c.cfg.size)
	if err != nil {
		log.WithError(err).Warn("cannot get width/height for resizing qrcode image")
		return img
	}

	log.WithField("size", fmt.Sprintf("%dx%d", side, side)).Debug("resizing qrcode image")
	return imgkit.Scale(img, image.Rect(0, 0, side, side), draw.CatmullRom)
}

// OutputName builds "<prefix><unix seconds><suffix><ext>". Two runs in the
// same second with the same suffix produce the same name; nothing guards
// against it.
func OutputName(prefix, ext string, now time.Time, suffix int) string {
	return fmt.Sprintf("%s%d%d%s", prefix, now.Unix(), suffix, ext)
}
