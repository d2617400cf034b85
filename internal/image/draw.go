package image

// Rect represents a rectangular region in pixel coordinates.
type Rect struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// In reports whether r lies fully inside a width x height area.
// It does not overflow for any int coordinates.
func (r Rect) In(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width >= 0 && r.Height >= 0 &&
		r.X <= width-r.Width && r.Y <= height-r.Height
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Blit copies every row of src into dst with the top-left corner at (x, y).
//
// Pixels are overwritten, never blended. Both buffers must share a format and
// src must fit inside dst. Each row is one copy call, so the cost is one
// memmove per source row regardless of width.
//
// Blit writes only the destination rectangle; concurrent Blits into
// disjoint rectangles of the same dst are safe.
func Blit(dst, src *ImageBuf, x, y int) error {
	if dst.format != src.format {
		return ErrFormatMismatch
	}
	r := Rect{X: x, Y: y, Width: src.width, Height: src.height}
	if !r.In(dst.width, dst.height) {
		return ErrOutOfBounds
	}

	rowLen := src.format.RowBytes(src.width)
	off := y*dst.stride + x*dst.format.BytesPerPixel()
	for sy := range src.height {
		row := src.RowBytes(sy)
		if row == nil {
			return ErrDataTooSmall
		}
		if off+rowLen > len(dst.data) {
			return ErrDataTooSmall
		}
		copy(dst.data[off:off+rowLen], row)
		off += dst.stride
	}
	return nil
}

// ClearRect zeroes the pixels of r in dst.
func ClearRect(dst *ImageBuf, r Rect) error {
	if r.Empty() {
		return nil
	}
	if !r.In(dst.width, dst.height) {
		return ErrOutOfBounds
	}

	rowLen := dst.format.RowBytes(r.Width)
	off := r.Y*dst.stride + r.X*dst.format.BytesPerPixel()
	for range r.Height {
		clear(dst.data[off : off+rowLen])
		off += dst.stride
	}
	return nil
}
