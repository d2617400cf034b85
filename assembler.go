package gridmerge

import (
	"errors"

	intImage "github.com/gogpu/gridmerge/internal/image"
)

// Assembler fills a fixed grid of cells one tile at a time.
//
// Use it when tiles arrive as a stream and holding all of them in memory is
// not wanted: each Push copies a tile into the next free cell, after which
// the caller may drop it. PushAll copies a batch in parallel.
//
// Cells are filled left to right, top to bottom. An Assembler is not safe
// for concurrent use; its parallelism is internal to PushAll.
type Assembler struct {
	layout *Layout
	format Format
	canvas *PixelBuffer
	opts   options
	pool   *WorkerPool
	owns   bool
	closed bool
}

// NewAssembler allocates a zeroed canvas for a columns x rows grid of tiles.
// WithPadding, WithWorkers and WithPool apply.
func NewAssembler(tile Dimensions, format Format, columns, rows int, opts ...Option) (*Assembler, error) {
	if !tile.Valid() || columns <= 0 || rows <= 0 {
		return nil, opError("push", -1, ErrInvalidDimensions)
	}
	if !format.IsValid() {
		return nil, opError("push", -1, ErrFormatMismatch)
	}
	o := applyOptions(opts)
	if o.padding.X < 0 || o.padding.Y < 0 {
		return nil, opError("push", -1, ErrInvalidDimensions)
	}

	layout, err := newGrid(tile, columns, rows, o.padding)
	if err != nil {
		return nil, opError("push", -1, err)
	}

	canvas, err := intImage.NewImageBuf(layout.Canvas.Width, layout.Canvas.Height, format)
	if err != nil {
		return nil, opError("push", -1, translateBufErr(err))
	}

	return &Assembler{
		layout: layout,
		format: format,
		canvas: canvas,
		opts:   o,
	}, nil
}

// Cap returns the number of cells in the grid.
func (a *Assembler) Cap() int {
	return a.layout.Columns * a.layout.Rows
}

// Len returns the number of tiles pushed so far.
func (a *Assembler) Len() int {
	return len(a.layout.Placements)
}

// Layout returns a snapshot of the grid with the placements pushed so far.
func (a *Assembler) Layout() *Layout {
	l := *a.layout
	l.Placements = append([]Placement(nil), a.layout.Placements...)
	return &l
}

// Push copies src into the next free cell.
func (a *Assembler) Push(src *PixelBuffer) error {
	if a.closed {
		return opError("push", -1, ErrAssemblerClosed)
	}
	i := a.Len()
	if i >= a.Cap() {
		return opError("push", i, ErrCapacityExceeded)
	}
	if err := checkSource(a.layout.Tile, a.format, src); err != nil {
		return opError("push", i, err)
	}

	p := a.layout.cellOrigin(i)
	if err := intImage.Blit(a.canvas, src, p.X, p.Y); err != nil {
		return &MergeError{Op: "push", Index: i, Err: translateBufErr(err), Detail: err}
	}
	a.layout.Placements = append(a.layout.Placements, p)
	return nil
}

// PushAll copies srcs into the next free cells in parallel.
//
// Capacity and every source are checked before any pixel is written. If a
// copy still fails, the cells of this batch are cleared again and Len is
// unchanged.
func (a *Assembler) PushAll(srcs []*PixelBuffer) error {
	if a.closed {
		return opError("push", -1, ErrAssemblerClosed)
	}
	if len(srcs) == 0 {
		return nil
	}
	first := a.Len()
	if first+len(srcs) > a.Cap() {
		return opError("push", a.Cap(), ErrCapacityExceeded)
	}
	for k, src := range srcs {
		if err := checkSource(a.layout.Tile, a.format, src); err != nil {
			return opError("push", first+k, err)
		}
	}

	placements := make([]Placement, len(srcs))
	units := make([]func() error, len(srcs))
	for k, src := range srcs {
		p := a.layout.cellOrigin(first + k)
		placements[k] = p
		units[k] = func() error {
			if err := intImage.Blit(a.canvas, src, p.X, p.Y); err != nil {
				return &MergeError{Op: "push", Index: p.Index, Err: translateBufErr(err), Detail: err}
			}
			return nil
		}
	}

	if err := a.workerPool().Run(units); err != nil {
		for _, p := range placements {
			_ = intImage.ClearRect(a.canvas, Rect{X: p.X, Y: p.Y, Width: a.layout.Tile.Width, Height: a.layout.Tile.Height})
		}
		var me *MergeError
		if errors.As(err, &me) {
			return err
		}
		return &MergeError{Op: "push", Index: -1, Err: ErrEngineClosed, Detail: err}
	}

	a.layout.Placements = append(a.layout.Placements, placements...)
	Logger().Debug("gridmerge: push batch", "tiles", len(srcs), "filled", a.Len(), "capacity", a.Cap())
	return nil
}

// Remove clears the cell of tile index back to the zero background.
// The cell stays allocated: later pushes go to the next free cell, not
// to the removed one.
func (a *Assembler) Remove(index int) error {
	if a.closed {
		return opError("remove", index, ErrAssemblerClosed)
	}
	if index < 0 || index >= a.Len() {
		return opError("remove", index, ErrOutOfBounds)
	}
	if err := intImage.ClearRect(a.canvas, a.layout.Rect(index)); err != nil {
		return &MergeError{Op: "remove", Index: index, Err: ErrOutOfBounds, Detail: err}
	}
	return nil
}

// Canvas finishes the assembly and returns the canvas. Cells never pushed
// keep the zero background. The Assembler cannot be used afterwards.
func (a *Assembler) Canvas() (*Canvas, error) {
	if a.closed {
		return nil, opError("push", -1, ErrAssemblerClosed)
	}
	c := &Canvas{buf: a.canvas, layout: a.Layout()}
	a.Close()
	return c, nil
}

// Close releases the worker pool, if the assembler created one, and
// invalidates the assembler. Close is safe to call multiple times.
func (a *Assembler) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.canvas = nil
	if a.owns {
		a.pool.Close()
	}
}

// workerPool returns the pool for PushAll, creating it on first use.
func (a *Assembler) workerPool() *WorkerPool {
	if a.pool == nil {
		if a.opts.pool != nil {
			a.pool = a.opts.pool
		} else {
			a.pool = NewWorkerPool(a.opts.workers)
			a.owns = true
		}
	}
	return a.pool
}
