package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestCellOf(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
		want Cell
	}{
		{"origin", r2.Vec{X: 0, Y: 0}, Cell{0, 0}},
		{"inside first cell", r2.Vec{X: 9.99, Y: 0.5}, Cell{0, 0}},
		{"cell edge", r2.Vec{X: 10, Y: 20}, Cell{1, 2}},
		{"negative floors down", r2.Vec{X: -0.1, Y: -10}, Cell{-1, -1}},
		{"negative beyond", r2.Vec{X: -10.1, Y: 35}, Cell{-2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellOf(tt.pos, 10)
			if got != tt.want {
				t.Errorf("CellOf(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestHashCell_Range(t *testing.T) {
	const table = 101
	for x := int32(-50); x <= 50; x++ {
		for y := int32(-50); y <= 50; y++ {
			h := HashCell(Cell{x, y}, table)
			if h >= table {
				t.Fatalf("HashCell(%d, %d) = %d, outside table of %d", x, y, h, table)
			}
		}
	}
}

func TestHashCell_Formula(t *testing.T) {
	// (3*73856093 + 4 + 19349663) mod 1000003
	want := uint32((3*73856093 + 4 + 19349663) % 1000003)
	if got := HashCell(Cell{3, 4}, 1000003); got != want {
		t.Errorf("HashCell(3, 4) = %d, want %d", got, want)
	}
}

func TestTableSizeFor(t *testing.T) {
	tests := []struct {
		count  int
		factor float64
		want   uint32
	}{
		{0, 2, 2},
		{1, 1, 2},
		{10, 1, 11},
		{10, 2, 23},
		{100, 1.5, 151},
	}

	for _, tt := range tests {
		if got := TableSizeFor(tt.count, tt.factor); got != tt.want {
			t.Errorf("TableSizeFor(%d, %v) = %d, want %d", tt.count, tt.factor, got, tt.want)
		}
	}

	got := TableSizeFor(35000, 2)
	if got < 70000 || !isPrime(uint64(got)) {
		t.Fatalf("TableSizeFor(35000, 2) = %d, want a prime >= 70000", got)
	}
	for n := uint64(70000); n < uint64(got); n++ {
		if isPrime(n) {
			t.Errorf("TableSizeFor(35000, 2) = %d, but %d is a smaller prime", got, n)
		}
	}
}

func TestIsPrime(t *testing.T) {
	primes := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}
	want := make(map[uint64]bool, len(primes))
	for _, p := range primes {
		want[p] = true
	}
	for n := uint64(0); n <= 100; n++ {
		if got := isPrime(n); got != want[n] {
			t.Errorf("isPrime(%d) = %v, want %v", n, got, want[n])
		}
	}
	if !isPrime(7919) {
		t.Error("isPrime(7919) = false, want true")
	}
	if isPrime(7917) {
		t.Error("isPrime(7917) = true, want false")
	}
}

// Every occupied hash must point at the first entry of its run, and the run
// must hold every particle in that hash.
func TestBucketIndex_Consistency(t *testing.T) {
	for _, tc := range []struct {
		name    string
		workers int
		table   uint32
	}{
		{"serial", 1, 97},
		{"parallel", 4, 97},
		{"tiny table", 4, 7},
		{"large table", 3, 10007},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.TableSize = tc.table
			pool := NewPool(tc.workers, 16)
			defer pool.Close()
			rng := rand.New(rand.NewSource(7))
			w := mustWorld(t, cfg, SeedRandom(3000, cfg.Bounds, 1, rng), pool)

			w.BuildEntries()
			w.SortEntries()
			w.BuildBucketIndex()

			entries := w.Entries()
			seen := make([]bool, len(entries))
			for p, e := range entries {
				if p > 0 && entries[p-1].Hash > e.Hash {
					t.Fatalf("entries not sorted at %d", p)
				}
				if seen[e.Index] {
					t.Fatalf("particle %d appears twice", e.Index)
				}
				seen[e.Index] = true
				if want := HashCell(CellOf(w.Particles()[e.Index].Pos, cfg.CellSize), cfg.TableSize); e.Hash != want {
					t.Fatalf("entry %d hash = %d, want %d", p, e.Hash, want)
				}
			}

			counts := make(map[uint32]int)
			for _, e := range entries {
				counts[e.Hash]++
			}
			for h, count := range counts {
				start, ok := w.bucketStart(h)
				if !ok {
					t.Fatalf("bucket %d holds %d entries but reads as empty", h, count)
				}
				if start > 0 && entries[start-1].Hash == h {
					t.Errorf("bucket %d start %d is not the first of its run", h, start)
				}
				run := 0
				for p := start; p < len(entries) && entries[p].Hash == h; p++ {
					run++
				}
				if run != count {
					t.Errorf("bucket %d run = %d, want %d", h, run, count)
				}
			}
		})
	}
}

func TestBucketStart_StaleSlot(t *testing.T) {
	cfg := testConfig()
	w := mustWorld(t, cfg, []Particle{{Pos: r2.Vec{X: 1, Y: 1}}, {Pos: r2.Vec{X: 2, Y: 2}}}, nil)
	w.BuildEntries()
	w.SortEntries()
	w.BuildBucketIndex()

	occupied := w.Entries()[0].Hash
	for h := uint32(0); h < w.TableSize(); h++ {
		if h == occupied {
			continue
		}
		// Default slots point at position 0, whose hash differs.
		if _, ok := w.bucketStart(h); ok {
			t.Errorf("bucketStart(%d) reported occupied", h)
		}
	}
	if _, ok := w.bucketStart(w.TableSize() + 5); ok {
		t.Error("out-of-range hash reported occupied")
	}

	stale := (occupied + 1) % w.TableSize()
	w.buckets[stale] = 1000
	if _, ok := w.bucketStart(stale); ok {
		t.Error("out-of-range start reported occupied")
	}
}
