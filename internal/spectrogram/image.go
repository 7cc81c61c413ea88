// SPDX-License-Identifier: MIT

// Package spectrogram stores colour columns for a scrolling display.
//
// The pixel store holds 2*width columns, each column contiguous (column-major,
// height pixels per column). New columns are appended at the write offset.
// Once width columns exist, the visible window is the width columns ending at
// the newest one, starting at the read offset and wrapping modulo 2*width.
// A renderer can draw it as two texture spans without moving any pixels.
package spectrogram

import (
	"fmt"

	"spectra/internal/log"
	"spectra/internal/validate"
)

var logger = log.With("spectrogram")

// Image is the scrolling column store. It is not safe for concurrent use;
// a renderer reading Pixels must be serialised with AddColumn.
type Image struct {
	width, height int
	pixels        []uint32 // 2*width*height, 0xAABBGGRR
	writeOffset   int      // next column slot, in [0, 2*width)
	readOffset    int      // first visible column slot
	written       uint64   // columns ever added since the last clear
}

// NewImage allocates a cleared image of width visible columns and height rows.
func NewImage(width, height int) (*Image, error) {
	if err := validate.Dimensions(width, height); err != nil {
		return nil, err
	}
	img := &Image{}
	img.allocate(width, height)
	return img, nil
}

func (img *Image) allocate(width, height int) {
	img.width = width
	img.height = height
	img.pixels = make([]uint32, 2*width*height)
	img.writeOffset = 0
	img.readOffset = 0
	img.written = 0
}

// AddColumn copies column into the next slot and advances the scroll window.
func (img *Image) AddColumn(column []uint32) error {
	if err := validate.Length("image column", len(column), img.height); err != nil {
		return err
	}
	slots := 2 * img.width
	base := img.writeOffset * img.height
	copy(img.pixels[base:base+img.height], column)

	img.writeOffset = (img.writeOffset + 1) % slots
	img.written++

	if img.written < uint64(img.width) {
		img.readOffset = 0
	} else {
		// Trails the write offset by width, modulo 2*width.
		img.readOffset = (img.writeOffset + img.width) % slots
	}
	return nil
}

// Clear zeroes every pixel and resets the offsets.
func (img *Image) Clear() {
	clear(img.pixels)
	img.writeOffset = 0
	img.readOffset = 0
	img.written = 0
}

// Resize reallocates to the new dimensions. The content is discarded. On
// error the image is unchanged.
func (img *Image) Resize(width, height int) error {
	if err := validate.Dimensions(width, height); err != nil {
		return err
	}
	img.allocate(width, height)
	logger.Debugf("resized to %dx%d", width, height)
	return nil
}

// Pixels returns the backing store. Column c occupies
// Pixels()[c*Height() : (c+1)*Height()], row 0 being the lowest frequency.
func (img *Image) Pixels() []uint32 { return img.pixels }

func (img *Image) Width() int { return img.width }
func (img *Image) Height() int { return img.height }
func (img *Image) ReadOffset() int { return img.readOffset }
func (img *Image) WriteOffset() int { return img.writeOffset }
func (img *Image) ColumnsWritten() uint64 { return img.written }

// TotalPixels is the size of the backing store.
func (img *Image) TotalPixels() int { return len(img.pixels) }

// MemoryUsage is the size of the backing store in bytes.
func (img *Image) MemoryUsage() int { return 4 * len(img.pixels) }

// VisibleColumn returns column x (0 = oldest) of the visible window. The
// slice aliases the image and is valid until the next AddColumn.
func (img *Image) VisibleColumn(x int) ([]uint32, error) {
	if x < 0 || x >= img.width {
		return nil, fmt.Errorf("%w: column %d of %d", validate.ErrDimensions, x, img.width)
	}
	slot := (img.readOffset + x) % (2 * img.width)
	base := slot * img.height
	return img.pixels[base : base+img.height], nil
}
