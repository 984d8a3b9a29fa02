// Package align loads a group's replicate images, reconciles them into a
// shared coordinate frame and persists the aligned copies.
package align

import (
	"fmt"
	"image"

	"github.com/kovidgoyal/imaging"

	"chromaprof/internal/models"
	"chromaprof/pkg/floattiff"
)

// Load decodes the image at path. When blurRadius > 0 a Gaussian blur is
// applied with the sigma a square kernel of size 2r+1 implies
// (0.3*(r-1) + 0.8), so a run with the same radius smooths the same way
// regardless of the decoding backend.
func Load(path string, blurRadius int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not load image %s: %w", path, err)
	}
	if blurRadius > 0 {
		img = imaging.Blur(img, blurSigma(blurRadius))
	}
	return img, nil
}

// blurSigma derives the Gaussian sigma from the kernel radius.
func blurSigma(radius int) float64 {
	return 0.3*(float64(radius)-1) + 0.8
}

// Align crops every image to the minimum width and height across the group.
// The retained region is the top-left sub-rectangle of each original; inputs
// are never mutated.
func Align(images []image.Image) []image.Image {
	minW, minH := -1, -1
	for _, img := range images {
		b := img.Bounds()
		if minW < 0 || b.Dx() < minW {
			minW = b.Dx()
		}
		if minH < 0 || b.Dy() < minH {
			minH = b.Dy()
		}
	}

	aligned := make([]image.Image, len(images))
	for i, img := range images {
		aligned[i] = imaging.Crop(img, image.Rect(0, 0, minW, minH))
	}
	return aligned
}

// ToFloat converts a decoded image into the float sample grid the profiler
// and the aligned-image artifacts operate on. This is the single place the
// positional channel0/1/2 = blue/green/red convention is established.
func ToFloat(img image.Image) *models.FloatImage {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	out := models.NewFloatImage(b.Dx(), b.Dy())

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			src := nrgba.PixOffset(x, y)
			dst := (y*out.Width + x) * 3
			out.Pix[dst] = float32(nrgba.Pix[src+2])   // blue
			out.Pix[dst+1] = float32(nrgba.Pix[src+1]) // green
			out.Pix[dst+2] = float32(nrgba.Pix[src])   // red
		}
	}
	return out
}

// AlignedFilename builds the artifact name for one aligned replicate, e.g.
// W_1200_R2_90x50_aligned.tif. The replicate index is 1-based.
func AlignedFilename(identifier string, key, replicate, width, height int) string {
	return fmt.Sprintf("%s_%d_R%d_%dx%d_aligned.tif",
		identifier, key, replicate, width, height)
}

// Save persists one aligned replicate as an uncompressed float TIFF.
func Save(path string, img *models.FloatImage) error {
	if err := floattiff.Save(path, img); err != nil {
		return fmt.Errorf("failed to save aligned image %s: %w", path, err)
	}
	return nil
}
