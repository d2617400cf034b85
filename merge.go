package gridmerge

import (
	"errors"
	"image"
	"runtime"
	"time"

	intImage "github.com/gogpu/gridmerge/internal/image"
)

// MergeJob is one merge request.
//
// Sources are read, never written, and must not be modified while the merge
// runs. Source i is placed at Layout.Placements[i].
type MergeJob struct {
	// Tile is the size every source must have.
	Tile Dimensions

	// Format is the pixel format every source must have. It is also the
	// format of the canvas.
	Format Format

	// Sources are the tiles in placement order.
	Sources []*PixelBuffer

	// Policy arranges tiles when the layout is planned by MergeAll.
	Policy ArrangementPolicy
}

// Canvas is the result of a merge: the destination buffer and its size.
// The engine keeps no reference to a returned Canvas.
type Canvas struct {
	buf    *PixelBuffer
	layout *Layout
}

// Dimensions returns the canvas size.
func (c *Canvas) Dimensions() Dimensions {
	return c.layout.Canvas
}

// Format returns the pixel format of the canvas.
func (c *Canvas) Format() Format {
	return c.buf.Format()
}

// Layout returns the layout the canvas was merged with.
func (c *Canvas) Layout() *Layout {
	return c.layout
}

// Buffer returns the canvas pixels. Ownership passes to the caller; nil
// after the canvas was released.
func (c *Canvas) Buffer() *PixelBuffer {
	return c.buf
}

// Tile returns a view of the cell holding source i. The view shares memory
// with the canvas.
func (c *Canvas) Tile(i int) *PixelBuffer {
	if c.buf == nil || i < 0 || i >= c.layout.Count() {
		return nil
	}
	r := c.layout.Rect(i)
	return c.buf.SubImage(r.X, r.Y, r.Width, r.Height)
}

// Image copies the canvas into a standard library image for encoding.
func (c *Canvas) Image() image.Image {
	if c.buf == nil {
		return nil
	}
	return c.buf.ToStdImage()
}

// Engine merges jobs on a worker pool.
//
// An Engine is safe for concurrent use: several goroutines may call Merge at
// the same time and their copy work shares the pool. Close the engine when
// done to stop its workers.
type Engine struct {
	pool     *WorkerPool
	ownsPool bool
	buffers  *intImage.Pool
	padding  Padding
}

// NewEngine creates an engine. By default it starts one worker per CPU; see
// WithWorkers, WithPool and WithCanvasReuse.
func NewEngine(opts ...Option) *Engine {
	o := applyOptions(opts)

	e := &Engine{padding: o.padding}
	if o.pool != nil {
		e.pool = o.pool
	} else {
		e.pool = NewWorkerPool(o.workers)
		e.ownsPool = true
	}
	if o.reuseBuffers > 0 {
		e.buffers = intImage.NewPool(o.reuseBuffers)
	}
	return e
}

// Close stops the engine's workers unless the pool was supplied by the
// caller. Close is safe to call multiple times.
func (e *Engine) Close() {
	if e.ownsPool {
		e.pool.Close()
	}
}

// Workers returns the number of copy workers.
func (e *Engine) Workers() int {
	return e.pool.Workers()
}

// Merge validates job against layout, allocates one zeroed canvas and copies
// every source into its placement.
//
// All checks happen before allocation. The merge is all-or-nothing: on any
// error no canvas is returned and the partially written buffer is dropped.
// Cells without a placement keep the zero background value.
func (e *Engine) Merge(job MergeJob, layout *Layout) (*Canvas, error) {
	start := time.Now()
	log := Logger()

	if err := checkJob(job, layout); err != nil {
		log.Warn("gridmerge: merge rejected", "error", err)
		return nil, err
	}

	dst, err := e.allocate(layout.Canvas, job.Format)
	if err != nil {
		return nil, opError("merge", -1, err)
	}
	allocated := time.Now()

	units := make([]func() error, len(job.Sources))
	for i, src := range job.Sources {
		p := layout.Placements[i]
		units[i] = func() error {
			if err := intImage.Blit(dst, src, p.X, p.Y); err != nil {
				return &MergeError{Op: "merge", Index: i, Err: translateBufErr(err), Detail: err}
			}
			return nil
		}
	}

	if err := e.pool.Run(units); err != nil {
		e.recycle(dst)
		var me *MergeError
		if !errors.As(err, &me) {
			err = &MergeError{Op: "merge", Index: -1, Err: ErrEngineClosed, Detail: err}
		}
		log.Warn("gridmerge: merge aborted", "error", err)
		return nil, err
	}

	log.Debug("gridmerge: merge",
		"sources", len(job.Sources),
		"canvas", layout.Canvas.String(),
		"format", job.Format.String(),
		"bytes", dst.ByteSize(),
		"workers", e.pool.Workers(),
		"alloc", allocated.Sub(start),
		"copy", time.Since(allocated))

	return &Canvas{buf: dst, layout: layout}, nil
}

// MergeAll plans a layout from job.Policy and the engine's padding, then
// merges.
func (e *Engine) MergeAll(job MergeJob) (*Canvas, error) {
	layout, err := Plan(len(job.Sources), job.Tile, job.Policy, WithPadding(e.padding.X, e.padding.Y))
	if err != nil {
		return nil, err
	}
	return e.Merge(job, layout)
}

// Release hands a canvas buffer back to the engine for reuse by later
// merges of the same size and format. The canvas and every view taken
// from it must not be used afterwards. Without WithCanvasReuse, Release
// only detaches the buffer.
func (e *Engine) Release(c *Canvas) {
	if c == nil || c.buf == nil {
		return
	}
	e.recycle(c.buf)
	c.buf = nil
}

func (e *Engine) allocate(d Dimensions, format Format) (*PixelBuffer, error) {
	var (
		buf *PixelBuffer
		err error
	)
	if e.buffers != nil {
		buf, err = e.buffers.Get(d.Width, d.Height, format)
	} else {
		buf, err = intImage.NewImageBuf(d.Width, d.Height, format)
	}
	if err != nil {
		return nil, translateBufErr(err)
	}
	return buf, nil
}

func (e *Engine) recycle(buf *PixelBuffer) {
	if e.buffers != nil {
		e.buffers.Put(buf)
	}
}

// Merge runs one merge on a call-scoped worker pool.
//
// Without WithPool the pool is sized by WithWorkers (default GOMAXPROCS),
// never larger than the number of sources, and is closed before Merge
// returns.
func Merge(job MergeJob, layout *Layout, opts ...Option) (*Canvas, error) {
	e := newScopedEngine(len(job.Sources), opts)
	defer e.Close()
	return e.Merge(job, layout)
}

// MergeAll plans a layout from job.Policy and merges it on a call-scoped
// worker pool. WithPadding applies to the layout.
func MergeAll(job MergeJob, opts ...Option) (*Canvas, error) {
	e := newScopedEngine(len(job.Sources), opts)
	defer e.Close()
	return e.MergeAll(job)
}

func newScopedEngine(units int, opts []Option) *Engine {
	o := applyOptions(opts)
	if o.pool == nil {
		workers := o.workers
		if workers <= 0 {
			workers = defaultWorkers()
		}
		workers = max(min(workers, units), 1)
		opts = append(opts[:len(opts):len(opts)], WithWorkers(workers))
	}
	return NewEngine(opts...)
}

func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// checkJob verifies every precondition of a merge.
func checkJob(job MergeJob, layout *Layout) error {
	if len(job.Sources) == 0 {
		return opError("merge", -1, ErrEmptyInput)
	}
	if !job.Tile.Valid() {
		return opError("merge", -1, ErrInvalidDimensions)
	}
	if !job.Format.IsValid() {
		return opError("merge", -1, ErrFormatMismatch)
	}
	for i, src := range job.Sources {
		if err := checkSource(job.Tile, job.Format, src); err != nil {
			return &MergeError{Op: "merge", Index: i, Err: err}
		}
	}
	if layout == nil || len(layout.Placements) != len(job.Sources) {
		return opError("merge", -1, ErrPlacementCountMismatch)
	}
	if layout.Tile != job.Tile {
		return opError("merge", -1, ErrOutOfBounds)
	}
	if err := layout.Validate(); err != nil {
		var me *MergeError
		if errors.As(err, &me) {
			me.Op = "merge"
		}
		return err
	}
	return nil
}

// checkSource verifies one source against the job tile and format.
func checkSource(tile Dimensions, format Format, src *PixelBuffer) error {
	if src == nil {
		return ErrDimensionMismatch
	}
	if DimensionsOf(src) != tile {
		return ErrDimensionMismatch
	}
	if src.Format() != format {
		return ErrFormatMismatch
	}
	if err := src.Validate(); err != nil {
		return ErrDimensionMismatch
	}
	return nil
}
