package systems

import (
	"sync/atomic"
	"testing"
)

func TestPool_RunCoversRange(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		threshold int
		n         int
	}{
		{"inline below threshold", 4, 100, 50},
		{"single worker", 1, 1, 1000},
		{"parallel even", 4, 8, 1000},
		{"parallel uneven", 3, 8, 1001},
		{"more workers than items", 16, 1, 5},
		{"empty", 4, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers, tt.threshold)
			defer pool.Close()

			hits := make([]int32, tt.n)
			pool.Run(tt.n, func(start, end, worker int) {
				if worker < 0 || worker >= pool.Workers() {
					t.Errorf("worker %d out of range", worker)
				}
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("item %d visited %d times, want 1", i, h)
				}
			}
		})
	}
}

// Consecutive runs are separated by a barrier: every write of one run is
// visible to the next.
func TestPool_Barrier(t *testing.T) {
	pool := NewPool(4, 1)
	defer pool.Close()

	const n = 4096
	data := make([]int, n)
	for round := 1; round <= 50; round++ {
		pool.Run(n, func(start, end, _ int) {
			for i := start; i < end; i++ {
				// Read a slot owned by another chunk in the previous round.
				prev := data[(i+n/2)%n]
				if prev != round-1 {
					t.Errorf("round %d item %d saw %d", round, i, prev)
					return
				}
			}
		})
		pool.Run(n, func(start, end, _ int) {
			for i := start; i < end; i++ {
				data[i] = round
			}
		})
	}
}

func TestPool_CloseIdempotent(t *testing.T) {
	pool := NewPool(2, 1)
	pool.Run(10, func(int, int, int) {})
	pool.Close()
	pool.Close()

	// A closed pool restarts on demand.
	count := int32(0)
	pool.Run(10, func(start, end, _ int) { atomic.AddInt32(&count, int32(end-start)) })
	pool.Close()
	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
}
