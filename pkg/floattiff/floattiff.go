// Package floattiff encodes FloatImage data as uncompressed, little-endian,
// single-strip TIFF with three 32-bit IEEE floating point samples per pixel.
// The standard tiff encoder only handles integer sample formats, so the
// small subset needed here is written directly.
package floattiff

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"chromaprof/internal/models"
)

// TIFF tag and constant values used by the encoder.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagSampleFormat    = 339

	typeShort = 3
	typeLong  = 4

	compressionNone  = 1
	photometricRGB   = 2
	sampleFormatIEEE = 3
)

const (
	headerSize = 8
	entrySize  = 12
	numEntries = 10
)

// Encode writes img to w as an uncompressed 32-bit float RGB TIFF.
// Samples are stored in R,G,B order per strip row, as the RGB photometric
// interpretation requires, regardless of the blue/green/red sample order
// inside the FloatImage.
func Encode(w io.Writer, img *models.FloatImage) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("floattiff: image must have positive dimensions")
	}
	if len(img.Pix) != img.Width*img.Height*3 {
		return fmt.Errorf("floattiff: pixel buffer has %d samples, want %d",
			len(img.Pix), img.Width*img.Height*3)
	}

	stripSize := img.Width * img.Height * 3 * 4
	bpsOffset := headerSize + stripSize
	sfOffset := bpsOffset + 6
	ifdOffset := sfOffset + 6

	buf := make([]byte, ifdOffset+2+numEntries*entrySize+4)

	// Header: little-endian byte order mark, magic 42, IFD offset.
	buf[0], buf[1] = 'I', 'I'
	binary.LittleEndian.PutUint16(buf[2:], 42)
	binary.LittleEndian.PutUint32(buf[4:], uint32(ifdOffset))

	// Single strip of pixel data, rows top to bottom.
	off := headerSize
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c0, c1, c2 := img.At(x, y)
			// channel2 is red, channel0 is blue
			for _, s := range [3]float32{c2, c1, c0} {
				binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(s))
				off += 4
			}
		}
	}

	// Out-of-line arrays: three SHORTs each.
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint16(buf[bpsOffset+i*2:], 32)
		binary.LittleEndian.PutUint16(buf[sfOffset+i*2:], sampleFormatIEEE)
	}

	// IFD: entry count, entries in ascending tag order, zero next-IFD offset.
	binary.LittleEndian.PutUint16(buf[ifdOffset:], numEntries)
	off = ifdOffset + 2
	putEntry := func(tag, typ uint16, count, value uint32) {
		binary.LittleEndian.PutUint16(buf[off:], tag)
		binary.LittleEndian.PutUint16(buf[off+2:], typ)
		binary.LittleEndian.PutUint32(buf[off+4:], count)
		binary.LittleEndian.PutUint32(buf[off+8:], value)
		off += entrySize
	}
	putEntry(tagImageWidth, typeLong, 1, uint32(img.Width))
	putEntry(tagImageLength, typeLong, 1, uint32(img.Height))
	putEntry(tagBitsPerSample, typeShort, 3, uint32(bpsOffset))
	putEntry(tagCompression, typeShort, 1, compressionNone)
	putEntry(tagPhotometric, typeShort, 1, photometricRGB)
	putEntry(tagStripOffsets, typeLong, 1, headerSize)
	putEntry(tagSamplesPerPixel, typeShort, 1, 3)
	putEntry(tagRowsPerStrip, typeLong, 1, uint32(img.Height))
	putEntry(tagStripByteCounts, typeLong, 1, uint32(stripSize))
	putEntry(tagSampleFormat, typeShort, 3, uint32(sfOffset))
	binary.LittleEndian.PutUint32(buf[off:], 0)

	_, err := w.Write(buf)
	return err
}

// Save encodes img to a new file at path.
func Save(path string, img *models.FloatImage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
