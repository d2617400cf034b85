package gridmerge

import "testing"

func TestApplyOptionsDefaults(t *testing.T) {
	o := applyOptions(nil)
	if o.workers != 0 {
		t.Errorf("workers = %d, want 0 (GOMAXPROCS)", o.workers)
	}
	if o.padding != (Padding{}) {
		t.Errorf("padding = %v, want zero", o.padding)
	}
	if o.pool != nil || o.reuseBuffers != 0 {
		t.Error("pool and reuseBuffers should be unset by default")
	}
}

func TestApplyOptions(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	o := applyOptions([]Option{
		WithPadding(3, 5),
		WithWorkers(7),
		WithPool(pool),
		WithCanvasReuse(4),
	})

	if o.padding != (Padding{X: 3, Y: 5}) {
		t.Errorf("padding = %v, want {3 5}", o.padding)
	}
	if o.workers != 7 {
		t.Errorf("workers = %d, want 7", o.workers)
	}
	if o.pool != pool {
		t.Error("pool not applied")
	}
	if o.reuseBuffers != 4 {
		t.Errorf("reuseBuffers = %d, want 4", o.reuseBuffers)
	}
}

func TestApplyOptionsLastWins(t *testing.T) {
	o := applyOptions([]Option{WithWorkers(2), WithWorkers(9)})
	if o.workers != 9 {
		t.Errorf("workers = %d, want 9", o.workers)
	}
}

func TestNewEngineWorkers(t *testing.T) {
	e := NewEngine(WithWorkers(3))
	defer e.Close()
	if e.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", e.Workers())
	}

	shared := NewWorkerPool(5)
	defer shared.Close()

	e2 := NewEngine(WithWorkers(3), WithPool(shared))
	if e2.Workers() != 5 {
		t.Errorf("Workers() with shared pool = %d, want 5", e2.Workers())
	}
	e2.Close()
	if !shared.IsRunning() {
		t.Error("Engine.Close closed a caller-owned pool")
	}
}

func TestScopedEngineWorkers(t *testing.T) {
	tests := []struct {
		units   int
		workers int
		want    int
	}{
		{units: 2, workers: 8, want: 2},
		{units: 10, workers: 3, want: 3},
		{units: 1, workers: 1, want: 1},
		{units: 0, workers: 4, want: 1},
	}

	for _, tt := range tests {
		e := newScopedEngine(tt.units, []Option{WithWorkers(tt.workers)})
		if got := e.Workers(); got != tt.want {
			t.Errorf("newScopedEngine(%d, workers=%d).Workers() = %d, want %d", tt.units, tt.workers, got, tt.want)
		}
		e.Close()
	}
}
