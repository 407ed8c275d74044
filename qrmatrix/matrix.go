// Package qrmatrix turns a text payload into an immutable grid of QR modules.
//
// Encoding itself is delegated to github.com/yeqown/go-qrcode/v2; this package
// only captures the bitmap the library produces and surrounds it with a quiet
// zone so that renderers can treat every cell the same way.
package qrmatrix

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yeqown/go-qrcode/v2"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("content cannot be empty")

// Level is the error correction level of the symbol.
type Level uint8

const (
	// LevelLow recovers ~7% of the codewords.
	LevelLow Level = iota
	// LevelMedium recovers ~15%.
	LevelMedium
	// LevelQuart recovers ~25%.
	LevelQuart
	// LevelHigh recovers ~30%, the usual choice when a logo covers the centre.
	LevelHigh
)

// ParseLevel accepts the one-letter names L, M, Q and H (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return LevelLow, nil
	case "M":
		return LevelMedium, nil
	case "Q":
		return LevelQuart, nil
	case "H":
		return LevelHigh, nil
	}

	return LevelLow, errors.Errorf("unknown error correction level %q", s)
}

func (l Level) String() string {
	switch l {
	case LevelMedium:
		return "M"
	case LevelQuart:
		return "Q"
	case LevelHigh:
		return "H"
	default:
		return "L"
	}
}

func (l Level) option() qrcode.EncodeOption {
	switch l {
	case LevelMedium:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case LevelQuart:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case LevelHigh:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	}
}

// Matrix is a square grid of modules, quiet zone included. It is never
// modified after Encode returns.
type Matrix struct {
	size   int
	border int
	dark   []bool
}

// Width returns the number of module columns.
func (m *Matrix) Width() int { return m.size }

// Height returns the number of module rows.
func (m *Matrix) Height() int { return m.size }

// Border returns the quiet zone width in modules.
func (m *Matrix) Border() int { return m.border }

// IsDark reports whether the module at column x, row y is set. Coordinates
// outside the grid are light.
func (m *Matrix) IsDark(x, y int) bool {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}

	return m.dark[y*m.size+x]
}

// Iterate calls fn for every module in row-major order.
func (m *Matrix) Iterate(fn func(x, y int, dark bool)) {
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			fn(x, y, m.dark[y*m.size+x])
		}
	}
}

// Encode builds the matrix for content at the given level, padded with
// border light modules on every side.
func Encode(content string, level Level, border int) (*Matrix, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if border < 0 {
		border = 0
	}

	qrc, err := qrcode.NewWith(content, level.option())
	if err != nil {
		return nil, errors.Wrap(err, "encode content")
	}

	w := &capture{}
	if err = qrc.Save(w); err != nil {
		return nil, errors.Wrap(err, "capture matrix")
	}
	if w.width <= 0 || w.width != w.height {
		return nil, errors.Errorf("unexpected matrix shape %dx%d", w.width, w.height)
	}

	size := w.width + 2*border
	m := &Matrix{
		size:   size,
		border: border,
		dark:   make([]bool, size*size),
	}
	for y, row := range w.bitmap {
		for x, set := range row {
			m.dark[(y+border)*size+x+border] = set
		}
	}

	return m, nil
}

// capture implements qrcode.Writer and keeps a copy of the bitmap instead of
// drawing it.
type capture struct {
	width, height int
	bitmap        [][]bool
}

func (c *capture) Write(mat qrcode.Matrix) error {
	c.width, c.height = mat.Width(), mat.Height()
	c.bitmap = make([][]bool, c.height)
	for i := range c.bitmap {
		c.bitmap[i] = make([]bool, c.width)
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		c.bitmap[y][x] = v.IsSet()
	})

	return nil
}

func (c *capture) Close() error { return nil }
