package gridmerge

import (
	"fmt"
	"strconv"
	"strings"

	intImage "github.com/gogpu/gridmerge/internal/image"
)

// Dimensions is a size in pixels.
type Dimensions struct {
	Width, Height int
}

// Valid reports whether both sides are strictly positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Area returns Width * Height.
func (d Dimensions) Area() int {
	return d.Width * d.Height
}

// String returns "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ParseDimensions parses "WxH" (for example "256x128").
func ParseDimensions(s string) (Dimensions, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrInvalidDimensions, s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	d := Dimensions{Width: w, Height: h}
	if errW != nil || errH != nil || !d.Valid() {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrInvalidDimensions, s)
	}
	return d, nil
}

// DimensionsOf returns the declared dimensions of a buffer.
func DimensionsOf(b *PixelBuffer) Dimensions {
	w, h := b.Bounds()
	return Dimensions{Width: w, Height: h}
}

// Rect is a rectangle in canvas pixel coordinates.
type Rect = intImage.Rect

// Placement is the destination origin of one source tile.
type Placement struct {
	// Index is the position of the source in the job.
	Index int

	// X, Y is the top-left canvas pixel of the tile.
	X, Y int
}

// Padding is the gap in pixels between neighbouring cells.
type Padding struct {
	X, Y int
}
