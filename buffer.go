package gridmerge

import (
	"errors"
	"image"

	intImage "github.com/gogpu/gridmerge/internal/image"
)

// PixelBuffer is a row-major pixel buffer with a fixed channel layout.
// Source tiles and the merged canvas are both PixelBuffers.
type PixelBuffer = intImage.ImageBuf

// Format represents a pixel storage format.
type Format = intImage.Format

// Pixel formats.
const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 = intImage.FormatGray8

	// FormatGray16 is 16-bit big-endian grayscale (2 bytes per pixel).
	FormatGray16 = intImage.FormatGray16

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8 = intImage.FormatRGB8

	// FormatRGBA8 is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	FormatRGBA8 = intImage.FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	FormatRGBAPremul = intImage.FormatRGBAPremul

	// FormatBGRA8 is 32-bit non-premultiplied BGRA (4 bytes per pixel).
	FormatBGRA8 = intImage.FormatBGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha.
	FormatBGRAPremul = intImage.FormatBGRAPremul
)

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(d Dimensions, format Format) (*PixelBuffer, error) {
	b, err := intImage.NewImageBuf(d.Width, d.Height, format)
	if err != nil {
		return nil, translateBufErr(err)
	}
	return b, nil
}

// WrapPixels declares data to be a tightly packed image of size d without
// copying or checking it. Merge rejects the buffer with ErrDimensionMismatch
// if the data length disagrees with d.
func WrapPixels(data []byte, d Dimensions, format Format) *PixelBuffer {
	return intImage.Wrap(data, d.Width, d.Height, format)
}

// WrapRows declares data to be an image of size d whose rows start stride
// bytes apart, without copying. Row padding is common in buffers read back
// from a GPU or a video frame. Unlike WrapPixels the layout is checked up
// front: ErrInvalidDimensions for a bad size, ErrFormatMismatch for an
// unknown format and ErrDimensionMismatch when stride or data are too short.
func WrapRows(data []byte, d Dimensions, format Format, stride int) (*PixelBuffer, error) {
	b, err := intImage.FromRaw(data, d.Width, d.Height, format, stride)
	if err != nil {
		return nil, translateBufErr(err)
	}
	return b, nil
}

// FromImage copies a standard library image into a new RGBA8 buffer.
// It returns nil for an empty image.
func FromImage(img image.Image) *PixelBuffer {
	return intImage.FromStdImage(img)
}

// ParseFormat returns the format named name, ignoring case ("rgba8",
// "Gray16", ...).
func ParseFormat(name string) (Format, bool) {
	return intImage.ParseFormat(name)
}

func translateBufErr(err error) error {
	switch {
	case errors.Is(err, intImage.ErrInvalidDimensions):
		return ErrInvalidDimensions
	case errors.Is(err, intImage.ErrInvalidFormat):
		return ErrFormatMismatch
	case errors.Is(err, intImage.ErrFormatMismatch):
		return ErrFormatMismatch
	case errors.Is(err, intImage.ErrOutOfBounds):
		return ErrOutOfBounds
	default:
		return ErrDimensionMismatch
	}
}
