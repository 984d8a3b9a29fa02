package align

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage builds an NRGBA image with the given dimensions and a
// coordinate-dependent fill so crops can be checked by value.
func createTestImage(width, height int, fill func(x, y int) color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	return img
}

// TestAlignCropsToMinimum verifies the shared-frame invariant with the
// dimensions from the alignment contract: widths {100,120,90} and heights
// {50,60,55} must all come out as 90x50.
func TestAlignCropsToMinimum(t *testing.T) {
	dims := []struct{ w, h int }{
		{100, 50},
		{120, 60},
		{90, 55},
	}

	images := make([]image.Image, len(dims))
	for i, d := range dims {
		images[i] = createTestImage(d.w, d.h, func(x, y int) color.NRGBA {
			return color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8(i), A: 255}
		})
	}

	aligned := Align(images)
	if len(aligned) != 3 {
		t.Fatalf("expected 3 aligned images, got %d", len(aligned))
	}

	for i, img := range aligned {
		b := img.Bounds()
		if b.Dx() != 90 || b.Dy() != 50 {
			t.Errorf("image %d: expected 90x50, got %dx%d", i, b.Dx(), b.Dy())
		}
	}

	// The retained region must be the top-left corner of each source:
	// pixel (x,y) of the crop equals pixel (x,y) of the original.
	for i, img := range aligned {
		for _, p := range []image.Point{{0, 0}, {89, 49}, {45, 25}} {
			r, g, _, _ := img.At(p.X, p.Y).RGBA()
			if uint8(r>>8) != uint8(p.X%256) || uint8(g>>8) != uint8(p.Y%256) {
				t.Errorf("image %d at (%d,%d): crop is not anchored at the origin", i, p.X, p.Y)
			}
		}
	}
}

// TestAlignLeavesEqualSizesUntouched verifies that already-equal images keep
// their dimensions
func TestAlignLeavesEqualSizesUntouched(t *testing.T) {
	images := []image.Image{
		createTestImage(40, 30, func(x, y int) color.NRGBA { return color.NRGBA{A: 255} }),
		createTestImage(40, 30, func(x, y int) color.NRGBA { return color.NRGBA{A: 255} }),
		createTestImage(40, 30, func(x, y int) color.NRGBA { return color.NRGBA{A: 255} }),
	}

	for _, img := range Align(images) {
		b := img.Bounds()
		if b.Dx() != 40 || b.Dy() != 30 {
			t.Errorf("expected 40x30, got %dx%d", b.Dx(), b.Dy())
		}
	}
}

// TestToFloat verifies the blue/green/red sample ordering at the conversion
// boundary
func TestToFloat(t *testing.T) {
	img := createTestImage(2, 1, func(x, y int) color.NRGBA {
		if x == 0 {
			return color.NRGBA{R: 30, G: 20, B: 10, A: 255}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	})

	fi := ToFloat(img)
	if fi.Width != 2 || fi.Height != 1 {
		t.Fatalf("expected 2x1 float image, got %dx%d", fi.Width, fi.Height)
	}

	c0, c1, c2 := fi.At(0, 0)
	if c0 != 10 || c1 != 20 || c2 != 30 {
		t.Errorf("expected (blue,green,red)=(10,20,30), got (%v,%v,%v)", c0, c1, c2)
	}

	c0, c1, c2 = fi.At(1, 0)
	if c0 != 0 || c1 != 0 || c2 != 0 {
		t.Errorf("expected zero pixel, got (%v,%v,%v)", c0, c1, c2)
	}
}

// TestLoad covers decoding, decode failure and the blur path
func TestLoad(t *testing.T) {
	dir := t.TempDir()

	// A small valid PNG
	goodPath := filepath.Join(dir, "good.png")
	f, err := os.Create(goodPath)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	src := createTestImage(8, 8, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 30), A: 255}
	})
	if err := png.Encode(f, src); err != nil {
		f.Close()
		t.Fatalf("failed to encode test png: %v", err)
	}
	f.Close()

	t.Run("decodes without blur", func(t *testing.T) {
		img, err := Load(goodPath, 0)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != 8 || b.Dy() != 8 {
			t.Errorf("expected 8x8, got %dx%d", b.Dx(), b.Dy())
		}
	})

	t.Run("blur keeps dimensions", func(t *testing.T) {
		img, err := Load(goodPath, 3)
		if err != nil {
			t.Fatalf("Load with blur failed: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != 8 || b.Dy() != 8 {
			t.Errorf("blurred image changed size: %dx%d", b.Dx(), b.Dy())
		}
	})

	t.Run("unreadable file yields error", func(t *testing.T) {
		badPath := filepath.Join(dir, "bad.png")
		if err := os.WriteFile(badPath, []byte("not an image"), 0644); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}
		if _, err := Load(badPath, 0); err == nil {
			t.Error("expected decode error for corrupt file")
		}
	})
}

// TestAlignedFilename verifies the artifact naming pattern
func TestAlignedFilename(t *testing.T) {
	got := AlignedFilename("W", 1200, 2, 90, 50)
	expected := "W_1200_R2_90x50_aligned.tif"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
