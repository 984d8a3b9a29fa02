package models

// ReplicatesPerGroup is the number of replicate images expected for every
// group key. Validation aborts the run when any group deviates from it.
const ReplicatesPerGroup = 3

// FloatImage is a 2D grid of pixels with three float32 samples per pixel in
// channel0/channel1/channel2 (blue/green/red) order. It is produced once at
// the decoding boundary and never mutated afterwards.
type FloatImage struct {
	// Width and Height are the image dimensions in pixels.
	Width  int
	Height int

	// Pix holds the samples in row-major order, three per pixel.
	// Pix[(y*Width+x)*3+c] is sample c of the pixel at (x, y).
	Pix []float32
}

// NewFloatImage allocates a zeroed float image of the given dimensions.
func NewFloatImage(width, height int) *FloatImage {
	return &FloatImage{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}
}

// At returns the three channel samples of the pixel at (x, y).
func (im *FloatImage) At(x, y int) (c0, c1, c2 float32) {
	i := (y*im.Width + x) * 3
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
}

// Sample returns the sample of the requested channel at (x, y).
func (im *FloatImage) Sample(x, y int, ch Channel) float32 {
	return im.Pix[(y*im.Width+x)*3+ch.Index()]
}

// Replicate is one of the three images belonging to a group, together with
// the filename it was decoded from.
type Replicate struct {
	// Image is the decoded (and optionally blurred) pixel data.
	Image *FloatImage

	// Filename is the source filename within the input folder.
	Filename string
}

// AlignedGroup is a replicate triplet cropped to a shared width and height.
// Invariant: all three images have identical dimensions, both positive.
type AlignedGroup struct {
	// Identifier is the run identifier scoping the group.
	Identifier string

	// Key is the numeric group key ("RPM") shared by the replicates.
	Key int

	// Replicates holds exactly ReplicatesPerGroup aligned images in the
	// order their files were encountered in the input listing.
	Replicates []Replicate
}

// Width returns the shared width of the aligned images.
func (g *AlignedGroup) Width() int {
	return g.Replicates[0].Image.Width
}

// Height returns the shared height of the aligned images.
func (g *AlignedGroup) Height() int {
	return g.Replicates[0].Image.Height
}

// ProfileRow is one output row of the channel profiler, covering a single
// pixel column of an aligned group.
type ProfileRow struct {
	// Distance is the physical distance the column maps to.
	Distance float64

	// Replicates are the per-replicate luminance-normalized channel means.
	Replicates [ReplicatesPerGroup]float64

	// Average is the arithmetic mean of the replicate values.
	Average float64
}
