package gridmerge

import (
	"fmt"
	"math"

	intImage "github.com/gogpu/gridmerge/internal/image"
)

type arrangementKind uint8

const (
	arrangeSquare arrangementKind = iota
	arrangeFixedColumns
)

// ArrangementPolicy decides how many tiles go in each row.
// The zero value is SquareAspect.
type ArrangementPolicy struct {
	kind    arrangementKind
	columns int
}

// FixedColumns places exactly n tiles per row. The last row may be partially
// filled; its trailing cells are simply left empty.
func FixedColumns(n int) ArrangementPolicy {
	return ArrangementPolicy{kind: arrangeFixedColumns, columns: n}
}

// SquareAspect uses ceil(sqrt(count)) columns for a near-square grid.
func SquareAspect() ArrangementPolicy {
	return ArrangementPolicy{kind: arrangeSquare}
}

// Columns returns the number of columns for count tiles.
func (p ArrangementPolicy) Columns(count int) (int, error) {
	if count < 1 {
		return 0, ErrEmptyInput
	}
	switch p.kind {
	case arrangeFixedColumns:
		if p.columns <= 0 {
			return 0, ErrInvalidDimensions
		}
		return p.columns, nil
	default:
		return ceilSqrt(count), nil
	}
}

// String returns "square" or "columns=N".
func (p ArrangementPolicy) String() string {
	if p.kind == arrangeFixedColumns {
		return fmt.Sprintf("columns=%d", p.columns)
	}
	return "square"
}

// ceilSqrt returns the smallest c with c*c >= n, for n >= 1.
func ceilSqrt(n int) int {
	c := int(math.Sqrt(float64(n)))
	for c*c < n {
		c++
	}
	for c > 1 && (c-1)*(c-1) >= n {
		c--
	}
	return c
}

// Layout is the result of Plan: the canvas size and one Placement per tile.
//
// A Layout is plain data. Plan never returns a Layout whose placements leave
// the canvas or overlap; Validate re-checks that for hand-built or edited
// layouts and Merge calls it before touching any memory.
type Layout struct {
	// Tile is the size shared by every source.
	Tile Dimensions

	// Canvas is the size of the destination image.
	Canvas Dimensions

	// Columns and Rows describe the grid. Rows*Columns may exceed the number
	// of placements when the last row is partial.
	Columns, Rows int

	// Padding is the gap between neighbouring cells.
	Padding Padding

	// Placements holds the origin of tile i at index i.
	Placements []Placement
}

// Plan computes the canvas size and tile origins for count tiles of size
// tile arranged by policy.
//
// Tile i sits at row i / columns and column i % columns, with origin
// (col*(tile.Width+padding.X), row*(tile.Height+padding.Y)). The canvas is
// columns cells wide and ceil(count/columns) cells tall. Plan is pure and
// deterministic: equal inputs always give equal layouts.
func Plan(count int, tile Dimensions, policy ArrangementPolicy, opts ...Option) (*Layout, error) {
	if count < 1 {
		return nil, opError("plan", -1, ErrEmptyInput)
	}
	if !tile.Valid() {
		return nil, opError("plan", -1, ErrInvalidDimensions)
	}

	o := applyOptions(opts)
	if o.padding.X < 0 || o.padding.Y < 0 {
		return nil, opError("plan", -1, ErrInvalidDimensions)
	}

	columns, err := policy.Columns(count)
	if err != nil {
		return nil, opError("plan", -1, err)
	}
	rows := (count + columns - 1) / columns

	l, err := newGrid(tile, columns, rows, o.padding)
	if err != nil {
		return nil, opError("plan", -1, err)
	}
	l.Placements = make([]Placement, count)
	for i := range count {
		l.Placements[i] = l.cellOrigin(i)
	}

	Logger().Debug("gridmerge: plan",
		"count", count, "tile", tile.String(), "policy", policy.String(),
		"columns", columns, "rows", rows, "canvas", l.Canvas.String())

	return l, nil
}

// newGrid builds an empty layout for a columns x rows grid. It fails with
// ErrInvalidDimensions when the canvas could not be allocated in any format.
func newGrid(tile Dimensions, columns, rows int, pad Padding) (*Layout, error) {
	width, okW := gridSpan(columns, tile.Width, pad.X)
	height, okH := gridSpan(rows, tile.Height, pad.Y)
	if !okW || !okH {
		return nil, ErrInvalidDimensions
	}
	if _, err := intImage.BufferSize(width, height, intImage.MaxBytesPerPixel); err != nil {
		return nil, ErrInvalidDimensions
	}

	return &Layout{
		Tile:    tile,
		Canvas:  Dimensions{Width: width, Height: height},
		Columns: columns,
		Rows:    rows,
		Padding: pad,
	}, nil
}

// gridSpan returns n*size + (n-1)*gap, or false if it overflows int.
func gridSpan(n, size, gap int) (int, bool) {
	if gap > math.MaxInt-size {
		return 0, false
	}
	step := size + gap
	if n > math.MaxInt/step {
		return 0, false
	}
	return n*step - gap, true
}

// cellOrigin returns the placement of grid cell i.
func (l *Layout) cellOrigin(i int) Placement {
	row, col := i/l.Columns, i%l.Columns
	return Placement{
		Index: i,
		X:     col * (l.Tile.Width + l.Padding.X),
		Y:     row * (l.Tile.Height + l.Padding.Y),
	}
}

// Count returns the number of placements.
func (l *Layout) Count() int {
	return len(l.Placements)
}

// Rect returns the destination rectangle of placement i.
func (l *Layout) Rect(i int) Rect {
	p := l.Placements[i]
	return Rect{X: p.X, Y: p.Y, Width: l.Tile.Width, Height: l.Tile.Height}
}

// Cell returns the index of the placement occupying grid cell (row, col),
// or -1 if the cell is empty or outside the grid.
func (l *Layout) Cell(row, col int) int {
	if row < 0 || col < 0 || row >= l.Rows || col >= l.Columns {
		return -1
	}
	i := row*l.Columns + col
	if i >= len(l.Placements) {
		return -1
	}
	return i
}

// Validate checks that every placement lies inside the canvas and that no
// two placements overlap.
func (l *Layout) Validate() error {
	if !l.Tile.Valid() || !l.Canvas.Valid() {
		return opError("plan", -1, ErrInvalidDimensions)
	}
	if _, err := intImage.BufferSize(l.Canvas.Width, l.Canvas.Height, intImage.MaxBytesPerPixel); err != nil {
		return opError("plan", -1, ErrInvalidDimensions)
	}
	for i := range l.Placements {
		if !l.Rect(i).In(l.Canvas.Width, l.Canvas.Height) {
			return opError("plan", i, ErrOutOfBounds)
		}
	}
	if i, ok := l.disjoint(); !ok {
		return opError("plan", i, ErrOutOfBounds)
	}
	return nil
}

// disjoint reports whether placements are pairwise disjoint, and the first
// offending index if not. Placements on the cell lattice are checked in
// linear time; anything else falls back to pairwise comparison.
func (l *Layout) disjoint() (int, bool) {
	stepX := l.Tile.Width + l.Padding.X
	stepY := l.Tile.Height + l.Padding.Y
	if l.Columns > 0 && l.Columns <= l.Canvas.Width &&
		l.Padding.X >= 0 && l.Padding.X <= l.Canvas.Width &&
		l.Padding.Y >= 0 && l.Padding.Y <= l.Canvas.Height {
		seen := make(map[int]struct{}, len(l.Placements))
		onLattice := true
		for i, p := range l.Placements {
			if p.X%stepX != 0 || p.Y%stepY != 0 || p.X/stepX >= l.Columns {
				onLattice = false
				break
			}
			cell := (p.Y/stepY)*l.Columns + p.X/stepX
			if _, dup := seen[cell]; dup {
				return i, false
			}
			seen[cell] = struct{}{}
		}
		if onLattice {
			return -1, true
		}
	}

	for i := range l.Placements {
		ri := l.Rect(i)
		for j := i + 1; j < len(l.Placements); j++ {
			if ri.Overlaps(l.Rect(j)) {
				return j, false
			}
		}
	}
	return -1, true
}

// String summarises the layout, e.g. "3x2 grid of 64x64 tiles on 192x128".
func (l *Layout) String() string {
	return fmt.Sprintf("%dx%d grid of %s tiles on %s", l.Columns, l.Rows, l.Tile, l.Canvas)
}
