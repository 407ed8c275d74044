package standard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictilt/qrlogo/placement"
	"github.com/Mictilt/qrlogo/qrmatrix"
)

func encode(t *testing.T, level qrmatrix.Level) *qrmatrix.Matrix {
	t.Helper()
	mat, err := qrmatrix.Encode("http://github.com", level, 4)
	require.NoError(t, err)
	return mat
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

func TestRasterRenderer_Dimensions(t *testing.T) {
	mat := encode(t, qrmatrix.LevelLow)

	for _, block := range []uint8{1, 8, 10} {
		img, err := NewRaster(WithQRWidth(block)).Render(mat, nil)
		require.NoError(t, err)
		assert.Equal(t, mat.Width()*int(block), img.Bounds().Dx())
		assert.Equal(t, mat.Height()*int(block), img.Bounds().Dy())
		assert.Zero(t, img.Bounds().Dx()%int(block))
	}
}

func TestRasterRenderer_Modules(t *testing.T) {
	mat := encode(t, qrmatrix.LevelLow)
	r := NewRaster(WithQRWidth(10))
	img, err := r.Render(mat, nil)
	require.NoError(t, err)

	mat.Iterate(func(x, y int, dark bool) {
		got := rgbaAt(img, x*10+5, y*10+5)
		if dark {
			assert.Equal(t, black, got, "module (%d,%d)", x, y)
		} else {
			assert.Equal(t, white, got, "module (%d,%d)", x, y)
		}
	})
}

func TestRasterRenderer_Transparent(t *testing.T) {
	mat := encode(t, qrmatrix.LevelLow)
	img, err := NewRaster(WithBgTransparent()).Render(mat, nil)
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestRasterRenderer_Colors(t *testing.T) {
	mat := encode(t, qrmatrix.LevelLow)
	img, err := NewRaster(
		WithFgColorRGBHex("#ff0000"),
		WithBgColor(color.RGBA{G: 0xff, A: 0xff}),
	).Render(mat, nil)
	require.NoError(t, err)

	border := mat.Border()
	assert.Equal(t, red, rgbaAt(img, border*10+5, border*10+5))
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, rgbaAt(img, 5, 5))
}

func TestRasterRenderer_Overlay(t *testing.T) {
	mat := encode(t, qrmatrix.LevelLow)
	size := mat.Width() * 10
	logo := solid(40, 60, red)

	img, err := NewRaster().Render(mat, logo)
	require.NoError(t, err)

	box := placement.Center(size, size, 40, 60)
	assert.Equal(t, red, rgbaAt(img, box.X+1, box.Y+1))
	assert.Equal(t, red, rgbaAt(img, box.X+38, box.Y+58))
	assert.Equal(t, red, rgbaAt(img, box.X+20, box.Y+30))
}

func TestRasterRenderer_Circle(t *testing.T) {
	mat := encode(t, qrmatrix.LevelLow)
	img, err := NewRaster(WithCircleShape()).Render(mat, nil)
	require.NoError(t, err)

	border := mat.Border()
	// centre of the top left finder module is filled, its corner is not
	assert.Equal(t, black, rgbaAt(img, border*10+5, border*10+5))
	assert.Equal(t, white, rgbaAt(img, border*10, border*10))
}

func TestRenderer_EmptyMatrix(t *testing.T) {
	_, err := NewRaster().Render(nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyMatrix))
	_, err = NewVector().Render(nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyMatrix))
}

func countDark(mat *qrmatrix.Matrix, keep func(x, y int) bool) int {
	n := 0
	mat.Iterate(func(x, y int, dark bool) {
		if dark && keep(x, y) {
			n++
		}
	})
	return n
}

func TestVectorRenderer_Document(t *testing.T) {
	mat := encode(t, qrmatrix.LevelHigh)
	var svg bytes.Buffer

	img, err := NewVector(WithSVGWriter(&svg)).Render(mat, nil)
	require.NoError(t, err)
	assert.Equal(t, mat.Width()*10, img.Bounds().Dx())
	assert.Equal(t, mat.Height()*10, img.Bounds().Dy())

	doc := svg.String()
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, "<svg")
	assert.NotContains(t, doc, "<image")

	// one background rect plus one per dark module, no clearance without a logo
	want := countDark(mat, func(int, int) bool { return true }) + 1
	assert.Equal(t, want, strings.Count(doc, "<rect "))
}

func TestVectorRenderer_Clearance(t *testing.T) {
	mat := encode(t, qrmatrix.LevelHigh)
	var svg bytes.Buffer

	logo := solid(30, 30, red)
	_, err := NewVector(WithSVGWriter(&svg), WithQRWidth(10)).Render(mat, logo)
	require.NoError(t, err)

	zone := placement.NewClearance(mat.Width(), mat.Height(), 10, 5)
	want := countDark(mat, func(x, y int) bool { return !zone.Excludes(x, y) }) + 1
	doc := svg.String()
	assert.Equal(t, want, strings.Count(doc, "<rect "))
	assert.Less(t, want, countDark(mat, func(int, int) bool { return true })+1)
	assert.Equal(t, 1, strings.Count(doc, "<image "))
	assert.Contains(t, doc, "data:image/png;base64,")
}

func TestVectorRenderer_ModuleSizeIsFixed(t *testing.T) {
	mat := encode(t, qrmatrix.LevelHigh)
	var svg bytes.Buffer

	_, err := NewVector(WithSVGWriter(&svg), WithQRWidth(8), WithBgTransparent()).Render(mat, nil)
	require.NoError(t, err)

	doc := svg.String()
	assert.Contains(t, doc, `width="10" height="10"`)
	assert.NotContains(t, doc, `width="8" height="8"`)
}

func TestVectorRenderer_Raster(t *testing.T) {
	mat := encode(t, qrmatrix.LevelHigh)
	logo := solid(30, 30, red)
	img, err := NewVector().Render(mat, logo)
	require.NoError(t, err)

	border := mat.Border()
	assert.Equal(t, black, rgbaAt(img, border*10+5, border*10+5))
	assert.Equal(t, white, rgbaAt(img, 5, 5))

	size := mat.Width() * 10
	box := placement.Center(size, size, 30, 30)
	assert.Equal(t, red, rgbaAt(img, box.X+15, box.Y+15))
}

func TestVectorRenderer_ClearanceDisabled(t *testing.T) {
	mat := encode(t, qrmatrix.LevelHigh)
	var svg bytes.Buffer

	_, err := NewVector(WithSVGWriter(&svg), WithClearance(0)).Render(mat, solid(10, 10, red))
	require.NoError(t, err)

	want := countDark(mat, func(int, int) bool { return true }) + 1
	assert.Equal(t, want, strings.Count(svg.String(), "<rect "))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestVectorRenderer_SinkError(t *testing.T) {
	mat := encode(t, qrmatrix.LevelHigh)
	_, err := NewVector(WithSVGWriter(failingWriter{})).Render(mat, nil)
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#0066CC")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 0x66, B: 0xcc, A: 0xff}, c)

	c, err = ParseHexColor("f00")
	require.NoError(t, err)
	assert.Equal(t, red, c)

	c, err = ParseHexColor("#00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	for _, bad := range []string{"", "#12", "#zzzzzz", "#1234567"} {
		_, err = ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestOptions(t *testing.T) {
	oo := newOutputImageOptions(
		WithQRWidth(0),
		WithModuleSize(-1),
		WithClearance(-2),
		WithFgColorRGBHex("nope"),
		nil,
	)
	assert.Equal(t, _defaultBlockSize, oo.blockSize)
	assert.Equal(t, _defaultModuleSize, oo.moduleSize)
	assert.Equal(t, 0, oo.clearance)
	assert.Equal(t, black, oo.qrColor)
	assert.Equal(t, _shapeRectangle, oo.getShape())
	assert.Equal(t, color.Color(white), oo.backgroundColor())

	oo = newOutputImageOptions(WithCustomShape(nil), WithBgTransparent())
	assert.Equal(t, _shapeRectangle, oo.getShape())
	assert.Equal(t, color.Color(color.Transparent), oo.backgroundColor())
}
