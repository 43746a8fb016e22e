// Package imageio writes a finished film to disk (A5/§4.12): a float EXR
// for archival/compositing, in the teacher's BGR channel order, and a
// tonemapped PNG for quick inspection the way the teacher's own main.go
// round-trips its renders.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	exr "github.com/mrjoshuak/go-openexr"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// WriteEXR writes pixels (row-major, width*height, linear radiance) as a
// float32 scanline EXR with B/G/R/A channels in that order and attrs
// attached as custom string attributes (scene name, sample count, and
// similar provenance per §6).
func WriteEXR(path string, width, height int, pixels []core.Color, attrs map[string]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer file.Close()

	dataWindow := exr.Box2i{Min: exr.Vec2i{X: 0, Y: 0}, Max: exr.Vec2i{X: int32(width - 1), Y: int32(height - 1)}}
	header := exr.NewHeader(dataWindow)
	for _, name := range []string{"B", "G", "R", "A"} {
		header.Channels().Insert(name, exr.Channel{Type: exr.PixelTypeFloat})
	}
	for name, value := range attrs {
		header.SetStringAttribute(name, value)
	}

	b := make([]float32, width*height)
	g := make([]float32, width*height)
	r := make([]float32, width*height)
	a := make([]float32, width*height)
	for i, c := range pixels {
		b[i] = float32(c.Z)
		g[i] = float32(c.Y)
		r[i] = float32(c.X)
		a[i] = 1
	}

	fb := exr.NewFrameBuffer(width, height)
	fb.Insert("B", exr.NewFloatSlice(b, width))
	fb.Insert("G", exr.NewFloatSlice(g, width))
	fb.Insert("R", exr.NewFloatSlice(r, width))
	fb.Insert("A", exr.NewFloatSlice(a, width))

	writer, err := exr.NewScanlineWriter(file, header)
	if err != nil {
		return fmt.Errorf("imageio: new EXR writer: %w", err)
	}
	writer.SetFrameBuffer(fb)
	if err := writer.WritePixels(height); err != nil {
		return fmt.Errorf("imageio: write EXR pixels: %w", err)
	}
	return nil
}

// WritePNG tonemaps pixels with the teacher's gamma-2.0 correction and
// writes an 8-bit PNG.
func WritePNG(path string, width, height int, pixels []core.Color) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := pixels[y*width+x].GammaCorrect(2.0).Clamp(0, 1)
			img.Set(x, y, color.RGBA{
				R: uint8(255 * c.X),
				G: uint8(255 * c.Y),
				B: uint8(255 * c.Z),
				A: 255,
			})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer file.Close()

	return png.Encode(file, img)
}
