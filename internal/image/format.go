// Package image provides the pixel buffers, pixel formats and codecs used
// by gridmerge.
//
// Buffers are contiguous, row-major byte slices with a fixed channel layout.
// Nothing in this package converts between formats: the merge engine copies
// raw rows, so a source and its destination must agree on the layout.
package image

import "strings"

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGray16 is 16-bit big-endian grayscale (2 bytes per pixel).
	FormatGray16

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8

	// FormatRGBA8 is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	// Decoded images are stored in this format.
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit non-premultiplied BGRA (4 bytes per pixel).
	FormatBGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha.
	FormatBGRAPremul

	formatCount
)

// FormatInfo describes the memory layout of a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the size of one pixel in bytes.
	BytesPerPixel int

	// Channels is the number of channels per pixel.
	Channels int

	// HasAlpha reports whether the format carries an alpha channel.
	HasAlpha bool

	// IsPremultiplied reports whether color channels are premultiplied.
	IsPremultiplied bool
}

// MaxBytesPerPixel is the widest pixel of any Format.
const MaxBytesPerPixel = 4

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8:      {BytesPerPixel: 1, Channels: 1},
	FormatGray16:     {BytesPerPixel: 2, Channels: 1},
	FormatRGB8:       {BytesPerPixel: 3, Channels: 3},
	FormatRGBA8:      {BytesPerPixel: 4, Channels: 4, HasAlpha: true},
	FormatRGBAPremul: {BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsPremultiplied: true},
	FormatBGRA8:      {BytesPerPixel: 4, Channels: 4, HasAlpha: true},
	FormatBGRAPremul: {BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsPremultiplied: true},
}

// Info returns the FormatInfo for this format.
// Unknown formats yield the zero FormatInfo.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// Channels returns the number of channels per pixel.
func (f Format) Channels() int {
	return f.Info().Channels
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes returns the number of bytes in a tightly packed row of width pixels.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes returns the number of bytes in a tightly packed width x height image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatGray16:
		return "Gray16"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBAPremul:
		return "RGBAPremul"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGRAPremul:
		return "BGRAPremul"
	default:
		return "Unknown"
	}
}

// ParseFormat returns the format whose String form equals name,
// ignoring ASCII case.
func ParseFormat(name string) (Format, bool) {
	for f := range formatCount {
		if strings.EqualFold(f.String(), name) {
			return f, true
		}
	}
	return 0, false
}
