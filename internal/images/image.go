// Package images resolves the images referenced by inline Markdown into
// decoded metadata the renderer can embed.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdview/internal/styledtext"
	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxImageBytes bounds how much of a single image is read.
const maxImageBytes = 16 << 20

// Image is a loaded inline image.
type Image struct {
	Source  string
	URL     *url.URL
	Label   string
	Width   int
	Height  int
	Format  string
	Average colorful.Color
	// Cached is set when the bytes came from the HTTP cache.
	Cached bool
}

// Inline converts the image into the attachment embedded in styled text.
func (img Image) Inline() styledtext.InlineImage {
	r, g, b := img.Average.RGB255()
	return styledtext.InlineImage{
		Source: img.Source,
		Label:  img.Label,
		Width:  img.Width,
		Height: img.Height,
		Tint:   tcell.NewRGBColor(int32(r), int32(g), int32(b)),
	}
}

// Lookup maps the literal source string of an image node to its loaded
// image.
type Lookup map[string]Image

// Get returns the image for source, if it was loaded.
func (l Lookup) Get(source string) (Image, bool) {
	img, ok := l[source]
	return img, ok
}

// Decode reads an encoded image and records its size, format and average
// color.
func Decode(r io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return Image{}, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	bounds := decoded.Bounds()
	return Image{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Format:  format,
		Average: averageColor(decoded),
	}, nil
}

// averageColor samples at most a 64x64 grid of pixels.
func averageColor(img image.Image) colorful.Color {
	bounds := img.Bounds()
	if bounds.Empty() {
		return colorful.Color{}
	}
	stepX := max(1, bounds.Dx()/64)
	stepY := max(1, bounds.Dy()/64)
	var sumR, sumG, sumB float64
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				c, _ = colorful.MakeColor(color.Gray{Y: 0x80})
			}
			sumR += c.R
			sumG += c.G
			sumB += c.B
			n++
		}
	}
	return colorful.Color{R: sumR / float64(n), G: sumG / float64(n), B: sumB / float64(n)}
}
