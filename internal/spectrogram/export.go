// SPDX-License-Identifier: MIT
package spectrogram

import (
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/bmp"
)

// VisibleRGBA copies the visible window into an image with time running left
// to right and low frequencies at the bottom.
func (img *Image) VisibleRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	slots := 2 * img.width
	for x := range img.width {
		base := ((img.readOffset + x) % slots) * img.height
		for row := range img.height {
			c := img.pixels[base+row]
			y := img.height - 1 - row
			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(c)
			out.Pix[i+1] = uint8(c >> 8)
			out.Pix[i+2] = uint8(c >> 16)
			out.Pix[i+3] = uint8(c >> 24)
		}
	}
	return out
}

// EncodeBMP writes the visible window as an uncompressed bitmap.
func (img *Image) EncodeBMP(w io.Writer) error {
	return bmp.Encode(w, img.VisibleRGBA())
}

// SaveBMP writes the visible window to path.
func (img *Image) SaveBMP(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bitmap file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close bitmap file: %w", cerr)
		}
	}()

	if err := img.EncodeBMP(f); err != nil {
		return fmt.Errorf("failed to encode bitmap: %w", err)
	}
	logger.Infof("saved %dx%d bitmap to %s", img.width, img.height, path)
	return nil
}
