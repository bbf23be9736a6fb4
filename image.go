package nut

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
)

// Image decodes one mip level of the first surface into an image.
// Only formats with a bcn mapping can be decoded.
// Nil opts uses default decoding.
func (t *Texture) Image(level int, opts *bcn.DecodeOptions) (image.Image, error) {
	format := t.Format.PixelFormat()
	if format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, t.Format)
	}
	if len(t.Surfaces) == 0 || level < 0 || level >= t.MipmapCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrMipLevel, level, t.MipmapCount())
	}

	w := mipDimension(t.Width, level)
	h := mipDimension(t.Height, level)
	data, err := trimMip(t.Surfaces[0].Mipmaps[level], format, w, h)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", level, err)
	}

	img, err := bcn.DecodeImageWithOptions(data, w, h, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	return img, nil
}

// trimMip drops the alignment padding stored after a mip level.
func trimMip(mip []byte, format bcn.Format, width, height int) ([]byte, error) {
	expected := expectedDataLength(format, width, height)
	if expected <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, format)
	}
	if len(mip) < expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrMipmapSizeMismatch, expected, len(mip))
	}

	return mip[:expected], nil
}
