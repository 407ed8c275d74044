package imgkit

import (
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

var (
	// ErrNotRegularFile is returned when a local image path exists but is
	// not a plain file.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrMalformedSize is returned by SquareSize for anything that is not a
	// pair of positive dimensions.
	ErrMalformedSize = errors.New("size must be two positive dimensions")
)

// IsRemote reports whether src should be fetched over HTTP instead of being
// read from disk.
func IsRemote(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch loads the image at src, which is either an http(s) URL or a local
// file path. Local paths must point to an existing regular file.
func Fetch(ctx context.Context, client *http.Client, src string) (image.Image, error) {
	if IsRemote(src) {
		return fetchRemote(ctx, client, src)
	}

	return Read(src)
}

func fetchRemote(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("get %s: unexpected status %s", url, resp.Status)
	}

	return Decode(resp.Body)
}

// Read decodes the image file at path.
func Read(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if !fi.Mode().IsRegular() {
		return nil, errors.Wrap(ErrNotRegularFile, path)
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer fd.Close()

	img, err := Decode(fd)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return img, nil
}

// Decode reads any format imaging knows about (PNG, JPEG, GIF, BMP, TIFF),
// applying the EXIF orientation if there is one.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	return img, nil
}

// Save writes img to path as PNG. The file is created or truncated in place.
func Save(img image.Image, path string) (err error) {
	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := fd.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if err = png.Encode(fd, img); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}

	return nil
}

// Scale draws src scaled into a new image covering rect. A nil scaler falls
// back to ApproxBiLinear.
func Scale(src image.Image, rect image.Rectangle, scale draw.Scaler) image.Image {
	if scale == nil {
		scale = draw.ApproxBiLinear
	}

	dst := image.NewNRGBA(rect)
	scale.Scale(dst, rect, src, src.Bounds(), draw.Over, nil)
	return dst
}

// SquareSize validates a requested (width, height) pair and returns the
// side of the square it maps to, which is the larger of the two.
func SquareSize(size []int) (int, error) {
	if len(size) != 2 || size[0] <= 0 || size[1] <= 0 {
		return 0, errors.Wrapf(ErrMalformedSize, "got %v", size)
	}

	if size[0] > size[1] {
		return size[0], nil
	}
	return size[1], nil
}

// ParseSize splits a "WxH" string into its numeric parts. Parts that are not
// numbers become 0 so that SquareSize rejects them.
func ParseSize(s string) []int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == ',' || r == ' '
	})
	size := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		size[i] = n
	}

	return size
}
