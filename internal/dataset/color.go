package dataset

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/nnlab/internal/nn"
)

// ErrInvalidColor is returned for a color that is not #rrggbb.
var ErrInvalidColor = errors.New("dataset: invalid color")

// ParseHexColor parses "#rrggbb" (the leading # is optional) into RGB
// components in [0, 1].
func ParseHexColor(s string) ([3]float64, error) {
	var rgb [3]float64
	raw := strings.TrimPrefix(s, "#")
	if len(raw) != 6 {
		return rgb, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return rgb, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
	}
	for i := range rgb {
		rgb[i] = float64(b[i]) / 255
	}
	return rgb, nil
}

// Colors maps each color's position to its RGB value. Input k of n is
// k/max(n-1, 1), so the palette spans [0, 1].
func Colors(hexes ...string) ([]nn.Sample, error) {
	denom := float64(max(len(hexes)-1, 1))
	data := make([]nn.Sample, len(hexes))
	for i, h := range hexes {
		rgb, err := ParseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		data[i] = nn.Sample{Input: []float64{float64(i) / denom}, Target: rgb[:]}
	}
	return data, nil
}
