package theme

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/inline"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	"github.com/lucasb-eyer/go-colorful"
)

// Blend mixes a toward b. factor is clamped to [0, 1]; 0 yields a.
func Blend(a, b colorful.Color, factor float64) colorful.Color {
	factor = math.Max(0, math.Min(1, factor))
	return a.BlendRgb(b, factor)
}

// GradientColor returns the color at progress (0 to 1) along colors.
// A single color is returned as is; an empty list yields black.
func GradientColor(colors []colorful.Color, progress float64) colorful.Color {
	switch len(colors) {
	case 0:
		return colorful.Color{}
	case 1:
		return colors[0]
	}
	progress = math.Max(0, math.Min(1, progress))
	scaled := progress * float64(len(colors)-1)
	lower := int(scaled)
	upper := min(lower+1, len(colors)-1)
	return Blend(colors[lower], colors[upper], scaled-float64(lower))
}

// TCell converts c to a true-color tcell color.
func TCell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ParseColors parses hex colors such as "#1e90ff".
func ParseColors(values []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(values))
	for _, v := range values {
		c, err := colorful.Hex(v)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", v, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// GradientLink returns a custom link style that colors each character of
// the link title along colors.
func GradientLink(colors []colorful.Color) func(inline.LinkConfiguration) styledtext.Text {
	return func(config inline.LinkConfiguration) styledtext.Text {
		config.Attributes.Underline = true
		return config.StyledText(func(index, count int) tcell.Color {
			maxIndex := max(count-1, 1)
			return TCell(GradientColor(colors, float64(index)/float64(maxIndex)))
		})
	}
}
