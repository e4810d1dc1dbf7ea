package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Cell hash constants. Large odd primes decorrelate the two axes.
const (
	hashPrime1 uint32 = 73856093
	hashPrime2 uint32 = 19349663
)

// HashEntry ties a particle index to the hash of the cell it occupies.
type HashEntry struct {
	Index uint32
	Hash  uint32
}

func entryHash(e *HashEntry) uint32 { return e.Hash }

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int32
}

// CellOf returns the grid cell containing pos.
func CellOf(pos r2.Vec, cellSize float64) Cell {
	return Cell{
		X: int32(math.Floor(pos.X / cellSize)),
		Y: int32(math.Floor(pos.Y / cellSize)),
	}
}

// HashCell maps a cell to a bucket in [0, tableSize). Arithmetic wraps at
// 32 bits, so negative cells hash like any other.
func HashCell(c Cell, tableSize uint32) uint32 {
	return (uint32(c.X)*hashPrime1 + uint32(c.Y) + hashPrime2) % tableSize
}

// TableSizeFor returns the smallest prime >= count*factor, at least 2.
func TableSizeFor(count int, factor float64) uint32 {
	if factor <= 0 {
		factor = 1
	}
	target := uint64(math.Ceil(float64(count) * factor))
	if target < 2 {
		target = 2
	}
	for n := target; n < math.MaxUint32; n++ {
		if isPrime(n) {
			return uint32(n)
		}
	}
	return math.MaxUint32
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Reindex rebuilds the hash index from the current buffer without
// reporting phases. Step leaves the index describing the positions it
// integrated from, so queries on the field it produced need this first.
func (w *World) Reindex() {
	w.pool.Run(len(w.entries), w.hashFn)
	w.sorter.Sort(w.entries)
	w.pool.Run(len(w.entries), w.bucketFn)
}

// BuildEntries writes one entry per particle from the current buffer.
func (w *World) BuildEntries() {
	w.startPhase(PhaseHashEntries)
	w.pool.Run(len(w.entries), w.hashFn)
}

func (w *World) hashChunk(start, end, _ int) {
	src := w.buffers[w.cur]
	for i := start; i < end; i++ {
		w.entries[i] = HashEntry{
			Index: uint32(i),
			Hash:  HashCell(CellOf(src[i].Pos, w.cfg.CellSize), w.cfg.TableSize),
		}
	}
}

// SortEntries orders the entries by hash with the bitonic network.
func (w *World) SortEntries() {
	w.startPhase(PhaseSort)
	w.sorter.Sort(w.entries)
}

// BuildBucketIndex records where each occupied hash's run starts in the
// sorted entries. Slots for empty hashes keep whatever they held before.
func (w *World) BuildBucketIndex() {
	w.startPhase(PhaseBucketIndex)
	w.pool.Run(len(w.entries), w.bucketFn)
}

func (w *World) bucketChunk(start, end, _ int) {
	entries := w.entries
	for p := start; p < end; p++ {
		h := entries[p].Hash
		if p == 0 || entries[p-1].Hash != h {
			w.buckets[h] = uint32(p)
		}
	}
}

// bucketStart returns the first sorted position holding hash h, or ok=false
// when the bucket is empty this tick.
func (w *World) bucketStart(h uint32) (int, bool) {
	if int(h) >= len(w.buckets) {
		return 0, false
	}
	start := int(w.buckets[h])
	if start >= len(w.entries) || w.entries[start].Hash != h {
		return 0, false
	}
	return start, true
}
