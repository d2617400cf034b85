package gridmerge

import "github.com/gogpu/gridmerge/internal/parallel"

// WorkerPool is a pool of goroutines that runs merge copy work.
// Create one with NewWorkerPool, share it between engines with WithPool and
// Close it when the owning application is done.
type WorkerPool = parallel.WorkerPool

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	return parallel.NewWorkerPool(workers)
}

// Option configures Plan, Merge, NewEngine and NewAssembler.
// Options that do not apply to a call are ignored.
//
// Example:
//
//	// Default: one worker per available CPU
//	canvas, err := gridmerge.Merge(job, layout)
//
//	// Sequential baseline
//	canvas, err := gridmerge.Merge(job, layout, gridmerge.WithWorkers(1))
type Option func(*options)

// options holds optional configuration.
type options struct {
	padding      Padding
	workers      int
	pool         *WorkerPool
	reuseBuffers int
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		workers: 0, // GOMAXPROCS
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPadding inserts x pixels between columns and y pixels between rows.
// Padding cells stay at the zero background value.
func WithPadding(x, y int) Option {
	return func(o *options) {
		o.padding = Padding{X: x, Y: y}
	}
}

// WithWorkers caps the number of copy workers. Zero or a negative value
// selects GOMAXPROCS; 1 gives the sequential baseline. Ignored when
// WithPool supplies a pool.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithPool runs copy work on a caller-owned pool. The pool is not closed
// by the engine or assembler.
func WithPool(p *WorkerPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithCanvasReuse lets an Engine keep up to n released canvases per size
// and format for later merges. See Engine.Release.
func WithCanvasReuse(n int) Option {
	return func(o *options) {
		o.reuseBuffers = n
	}
}
