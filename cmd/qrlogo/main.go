package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Mictilt/qrlogo/converter"
	"github.com/Mictilt/qrlogo/qrmatrix"
	"github.com/Mictilt/qrlogo/writer/standard"
	"github.com/Mictilt/qrlogo/writer/standard/imgkit"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		// exit coders are handled by cli itself
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

func newApp(logOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "qrlogo",
		Usage:     "generate a QR code with a logo in the middle",
		ArgsUsage: "<overlay path or url> <content>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Value:   string(converter.ModeRaster),
				Usage:   "rendering mode, raster or vector",
				EnvVars: []string{"QRLOGO_MODE"},
			},
			&cli.IntFlag{
				Name:    "block-size",
				Aliases: []string{"b"},
				Value:   10,
				Usage:   "pixels per module, 1 to 255",
				EnvVars: []string{"QRLOGO_BLOCK_SIZE"},
			},
			&cli.IntFlag{
				Name:    "border",
				Value:   4,
				Usage:   "quiet zone width in modules",
				EnvVars: []string{"QRLOGO_BORDER"},
			},
			&cli.IntFlag{
				Name:    "clearance",
				Value:   5,
				Usage:   "radius of the area kept free for the logo in vector mode, in blocks; 0 disables it",
				EnvVars: []string{"QRLOGO_CLEARANCE"},
			},
			&cli.IntFlag{
				Name:    "module-size",
				Value:   10,
				Usage:   "side of each module rectangle in vector mode",
				EnvVars: []string{"QRLOGO_MODULE_SIZE"},
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "error correction level L, M, Q or H (default L for raster, H for vector)",
				EnvVars: []string{"QRLOGO_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "size",
				Aliases: []string{"s"},
				Usage:   "resize the output to WxH, the larger side is used for both",
				EnvVars: []string{"QRLOGO_SIZE"},
			},
			&cli.BoolFlag{
				Name:    "transparent",
				Usage:   "transparent background",
				EnvVars: []string{"QRLOGO_TRANSPARENT"},
			},
			&cli.BoolFlag{
				Name:    "circle",
				Usage:   "draw modules as circles in raster mode",
				EnvVars: []string{"QRLOGO_CIRCLE"},
			},
			&cli.StringFlag{
				Name:    "fg",
				Usage:   "foreground color as hex, e.g. #000000",
				EnvVars: []string{"QRLOGO_FG"},
			},
			&cli.StringFlag{
				Name:    "bg",
				Usage:   "background color as hex, e.g. #ffffff",
				EnvVars: []string{"QRLOGO_BG"},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "directory the files are written to",
				EnvVars: []string{"QRLOGO_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:    "svg-name",
				Value:   "out.svg",
				Usage:   "file name of the svg document in vector mode",
				EnvVars: []string{"QRLOGO_SVG_NAME"},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Value:   "qrcode",
				Usage:   "output file name prefix",
				EnvVars: []string{"QRLOGO_PREFIX"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "one of debug, info, warn, error",
				EnvVars: []string{"QRLOGO_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "no-overlay",
				Usage:   "ignore the overlay argument and draw a bare QR code",
				EnvVars: []string{"QRLOGO_NO_OVERLAY"},
			},
		},
		Action: func(c *cli.Context) error {
			return generate(c, logOut)
		},
	}
}

func generate(c *cli.Context, logOut io.Writer) error {
	if c.NArg() < 2 {
		_ = cli.ShowAppHelp(c)
		return cli.Exit("need an overlay and the content to encode", exitUsage)
	}

	logger, err := newLogger(logOut, c.String("log-level"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	opts, err := converterOptions(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	opts = append(opts, converter.WithLogger(logger))

	overlay := c.Args().Get(0)
	if c.Bool("no-overlay") {
		overlay = ""
	}

	res, err := converter.New(opts...).Process(c.Context, overlay, c.Args().Get(1))
	if err != nil {
		var cerr *converter.Error
		if errors.As(err, &cerr) {
			logger.WithField("stage", cerr.Stage).WithError(cerr.Err).Error("could not generate qrcode")
		} else {
			logger.WithError(err).Error("could not generate qrcode")
		}
		return cli.Exit("", exitFailure)
	}

	_, _ = fmt.Fprintln(c.App.Writer, res.Filename)
	return nil
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log-level")
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

func converterOptions(c *cli.Context) ([]converter.Option, error) {
	mode := converter.Mode(strings.ToLower(c.String("mode")))
	if mode != converter.ModeRaster && mode != converter.ModeVector {
		return nil, errors.Errorf("unknown mode %q", c.String("mode"))
	}

	block := c.Int("block-size")
	if block < 1 || block > 255 {
		return nil, errors.Errorf("block-size %d out of range [1, 255]", block)
	}

	imageOpts := []standard.ImageOption{
		standard.WithQRWidth(uint8(block)),
		standard.WithModuleSize(c.Int("module-size")),
		standard.WithClearance(c.Int("clearance")),
	}
	if c.Bool("transparent") {
		imageOpts = append(imageOpts, standard.WithBgTransparent())
	}
	if c.Bool("circle") {
		imageOpts = append(imageOpts, standard.WithCircleShape())
	}
	if fg := c.String("fg"); fg != "" {
		if _, err := standard.ParseHexColor(fg); err != nil {
			return nil, errors.Wrap(err, "fg")
		}
		imageOpts = append(imageOpts, standard.WithFgColorRGBHex(fg))
	}
	if bg := c.String("bg"); bg != "" {
		if _, err := standard.ParseHexColor(bg); err != nil {
			return nil, errors.Wrap(err, "bg")
		}
		imageOpts = append(imageOpts, standard.WithBgColorRGBHex(bg))
	}

	opts := []converter.Option{
		converter.WithMode(mode),
		converter.WithBorder(c.Int("border")),
		converter.WithOutputDir(c.String("output-dir")),
		converter.WithPrefix(c.String("prefix")),
		converter.WithSVGName(c.String("svg-name")),
		converter.WithImageOptions(imageOpts...),
	}

	if c.IsSet("level") {
		level, err := qrmatrix.ParseLevel(c.String("level"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, converter.WithErrorCorrection(level))
	}

	// malformed sizes go through as is, the converter warns and skips the
	// resize
	if size := imgkit.ParseSize(c.String("size")); size != nil {
		opts = append(opts, converter.WithSize(size))
	}

	return opts, nil
}
