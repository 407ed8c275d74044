package standard

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA"; the leading '#' is
// optional.
func ParseHexColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, errors.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid hex color %q", hex)
	}

	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func parseFromColor(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func hexOf(c color.Color) string {
	rgba := parseFromColor(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
