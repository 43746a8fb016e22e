package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"golang.org/x/image/draw"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// maxTextureDimension caps the resolution a loaded texture is kept at; a
// photographed or scanned environment map can arrive far larger than any
// sensible texel density for path tracing, so oversized images are
// downsampled once at load time rather than resampled on every lookup.
const maxTextureDimension = 4096

// ImageData contains loaded image data as Vec3 color array, plus an
// optional per-pixel alpha channel (nil if the source had none) for use as
// a stochastic-transparency mask texture (§4.5).
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
	Alpha  []float64 // nil if the image has no alpha channel
}

// LoadImage loads a PNG or JPEG image and converts it to a Vec3 color
// array plus an optional alpha channel, downsampling with an approximate
// bilinear filter if either dimension exceeds maxTextureDimension.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxTextureDimension || height > maxTextureDimension {
		img = resizeToFit(img, width, height, maxTextureDimension)
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	_, hasAlpha := img.(interface {
		Opaque() bool
	})

	pixels := make([]core.Vec3, width*height)
	var alpha []float64
	if hasAlpha && !isOpaque(img) {
		alpha = make([]float64, width*height)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			i := y*width + x
			pixels[i] = core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
			if alpha != nil {
				alpha[i] = float64(a) / 65535.0
			}
		}
	}

	return &ImageData{Width: width, Height: height, Pixels: pixels, Alpha: alpha}, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// resizeToFit scales img down to fit within maxDim on its longer side,
// using x/image/draw's approximate bilinear scaler.
func resizeToFit(img image.Image, width, height, maxDim int) image.Image {
	scale := float64(maxDim) / float64(width)
	if h := float64(maxDim) / float64(height); h < scale {
		scale = h
	}
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
