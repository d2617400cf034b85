package image

import (
	"errors"
	"math"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when the data is shorter than the declared size.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrDataTooLarge is returned when the data is longer than the declared size.
	ErrDataTooLarge = errors.New("image: data buffer too large")

	// ErrOutOfBounds is returned when coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")

	// ErrFormatMismatch is returned when two buffers disagree on pixel format.
	ErrFormatMismatch = errors.New("image: format mismatch")
)

// maxBufferBytes bounds a single buffer allocation. It stays below the
// runtime's allocation limit on every platform.
const maxBufferBytes = min(math.MaxInt>>1, 1<<47)

// BufferSize returns the byte size of a tightly packed width x height
// buffer with bpp bytes per pixel. It returns ErrInvalidDimensions when a
// dimension is not positive or the size would exceed what one allocation
// can hold.
func BufferSize(width, height, bpp int) (int, error) {
	if width <= 0 || height <= 0 || bpp <= 0 {
		return 0, ErrInvalidDimensions
	}
	if width > maxBufferBytes/bpp || height > maxBufferBytes/(width*bpp) {
		return 0, ErrInvalidDimensions
	}
	return width * height * bpp, nil
}

// ImageBuf is a row-major pixel buffer.
//
// Row y occupies data[y*stride : y*stride+width*bpp]. The stride may exceed
// the row size when the buffer is a view into a larger image.
//
// Thread safety: ImageBuf is safe for concurrent reads. Concurrent writes
// are safe only when they touch disjoint pixel regions.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a zeroed, tightly packed buffer.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	size, err := BufferSize(width, height, format.BytesPerPixel())
	if err != nil {
		return nil, err
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, size),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf over existing data without copying.
// Stride must be at least format.RowBytes(width) and data must cover
// the declared size.
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}

	b := &ImageBuf{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Wrap declares data to be a tightly packed width x height image without
// checking it. Use Validate before reading rows; the merge engine does so
// as part of its precondition checks.
func Wrap(data []byte, width, height int, format Format) *ImageBuf {
	return &ImageBuf{
		data:   data,
		width:  width,
		height: height,
		stride: format.RowBytes(width),
		format: format,
	}
}

// Validate reports whether the buffer's data agrees with its declared
// dimensions, stride and format.
func (b *ImageBuf) Validate() error {
	if b.width <= 0 || b.height <= 0 {
		return ErrInvalidDimensions
	}
	if !b.format.IsValid() {
		return ErrInvalidFormat
	}
	if _, err := BufferSize(b.width, b.height, b.format.BytesPerPixel()); err != nil {
		return err
	}
	row := b.format.RowBytes(b.width)
	if b.stride < row {
		return ErrInvalidStride
	}
	// A span that overflows int is longer than any slice.
	if b.height > 1 && b.stride > (math.MaxInt-row)/(b.height-1) {
		return ErrDataTooSmall
	}
	if len(b.data) < b.span() {
		return ErrDataTooSmall
	}
	if len(b.data)-b.span() > b.stride-row {
		return ErrDataTooLarge
	}
	return nil
}

// span is the minimum number of bytes that cover every row.
func (b *ImageBuf) span() int {
	return (b.height-1)*b.stride + b.format.RowBytes(b.width)
}

// Clone creates a tightly packed deep copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	c, err := NewImageBuf(b.width, b.height, b.format)
	if err != nil {
		return nil
	}
	for y := range b.height {
		copy(c.RowBytes(y), b.RowBytes(y))
	}
	return c
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes between the starts of two rows.
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// IsContiguous reports whether rows are packed without gaps.
func (b *ImageBuf) IsContiguous() bool {
	return b.stride == b.format.RowBytes(b.width)
}

// RowBytes returns the pixel bytes of row y.
// Returns nil if y is out of bounds or the data does not reach that row.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	if end > len(b.data) {
		return nil
	}
	return b.data[start:end]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns the raw bytes of pixel (x, y), or nil when out of bounds.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	bpp := b.format.BytesPerPixel()
	if offset < 0 || offset+bpp > len(b.data) {
		return nil
	}
	return b.data[offset : offset+bpp]
}

// SetPixelBytes sets the raw bytes for pixel (x, y).
func (b *ImageBuf) SetPixelBytes(x, y int, pixel []byte) error {
	dst := b.PixelBytes(x, y)
	if dst == nil {
		return ErrOutOfBounds
	}
	copy(dst, pixel)
	return nil
}

// GetRGBA returns the color at (x, y) as (r, g, b, a) in 0-255 range.
// Grayscale reports r=g=b=gray, formats without alpha report a=255.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	pixel := b.PixelBytes(x, y)
	if pixel == nil {
		return 0, 0, 0, 0
	}

	switch b.format {
	case FormatGray8:
		v := pixel[0]
		return v, v, v, 255
	case FormatGray16:
		v := pixel[0]
		return v, v, v, 255
	case FormatRGB8:
		return pixel[0], pixel[1], pixel[2], 255
	case FormatRGBA8, FormatRGBAPremul:
		return pixel[0], pixel[1], pixel[2], pixel[3]
	case FormatBGRA8, FormatBGRAPremul:
		return pixel[2], pixel[1], pixel[0], pixel[3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA stores the color at (x, y). Grayscale formats take the red channel
// as the gray level; no luminance weighting is applied.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	pixel := b.PixelBytes(x, y)
	if pixel == nil {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		pixel[0] = r
	case FormatGray16:
		pixel[0] = r
		pixel[1] = r
	case FormatRGB8:
		pixel[0], pixel[1], pixel[2] = r, g, bl
	case FormatRGBA8, FormatRGBAPremul:
		pixel[0], pixel[1], pixel[2], pixel[3] = r, g, bl, a
	case FormatBGRA8, FormatBGRAPremul:
		pixel[0], pixel[1], pixel[2], pixel[3] = bl, g, r, a
	}
	return nil
}

// Clear sets all bytes to zero.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets every pixel to the given color.
// The first row is written pixel by pixel, the rest are row copies of it.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for x := range b.width {
		_ = b.SetRGBA(x, 0, r, g, bl, a)
	}
	first := b.RowBytes(0)
	for y := 1; y < b.height; y++ {
		copy(b.RowBytes(y), first)
	}
}

// SubImage returns a view into a rectangular region of the image.
// The view shares data with the original. Returns nil if the region is
// empty or not fully inside the image.
func (b *ImageBuf) SubImage(x, y, width, height int) *ImageBuf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	bpp := b.format.BytesPerPixel()
	offset := y*b.stride + x*bpp
	end := (y+height-1)*b.stride + (x+width)*bpp
	if end > len(b.data) {
		return nil
	}

	return &ImageBuf{
		data:   b.data[offset:end],
		width:  width,
		height: height,
		stride: b.stride,
		format: b.format,
	}
}

// ByteSize returns the length of the data slice.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}
