package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForSequential(t *testing.T) {
	cfg := Config{Enabled: false}

	visited := make([]bool, 100)
	For(100, func(i int) { visited[i] = true }, cfg)
	for i, v := range visited {
		if !v {
			t.Fatalf("index %d not visited", i)
		}
	}
}

func TestForParallelCoversRange(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var count atomic.Int64
	visited := make([]atomic.Bool, 1000)
	For(1000, func(i int) {
		if visited[i].Swap(true) {
			t.Errorf("index %d visited twice", i)
		}
		count.Add(1)
	}, cfg)

	if count.Load() != 1000 {
		t.Errorf("visited %d indices, want 1000", count.Load())
	}
}

func TestForSmallRangeStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}

	// Below MinChunkSize the calls must run in order on this goroutine.
	var order []int
	For(10, func(i int) { order = append(order, i) }, cfg)
	for i, got := range order {
		if got != i {
			t.Fatalf("order[%d] = %d", i, got)
		}
	}
}

func TestForZero(t *testing.T) {
	For(0, func(int) { t.Fatal("must not be called") }, DefaultConfig())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers <= 0 {
		t.Errorf("NumWorkers = %d", cfg.NumWorkers)
	}
	if cfg.MinChunkSize <= 0 {
		t.Errorf("MinChunkSize = %d", cfg.MinChunkSize)
	}
}
