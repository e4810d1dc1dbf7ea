package systems

import (
	"fmt"
	"math/bits"
)

// Pass is one sweep of disjoint compare-exchange operations.
//
// A mirror pass compares every element of a 2^Log2 block's lower half with
// its reflection in the block. A merge pass compares L with L + 2^Log2.
type Pass struct {
	Mirror bool
	Log2   uint32
}

// Pair returns the indices compared by operation op of this pass.
// Operation ids cover [0, 2^(stages-1)) and every index appears in at most
// one pair per pass.
func (p Pass) Pair(op uint32) (l, r uint32) {
	if p.Mirror {
		half := p.Log2 - 1
		blockStart := (op >> half) << p.Log2
		offset := op & (1<<half - 1)
		return blockStart + offset, blockStart + (1<<p.Log2 - 1) - offset
	}
	step := uint32(1) << p.Log2
	l = (op>>p.Log2)<<(p.Log2+1) | op&(step-1)
	return l, l + step
}

// Network is a bitonic sorting network for a fixed length n.
// n does not have to be a power of two: pairs whose right index lands past
// the end compare against an implicit +inf and are skipped.
type Network struct {
	n      int
	ops    int
	passes []Pass
}

// NewNetwork precomputes the pass sequence that sorts n elements.
func NewNetwork(n int) *Network {
	if n < 0 || uint64(n) > 1<<31 {
		panic(fmt.Sprintf("systems: network length %d out of range", n))
	}
	nw := &Network{n: n}
	if n < 2 {
		return nw
	}

	stages := bits.Len(uint(n - 1)) // ceil(log2 n)
	nw.ops = 1 << (stages - 1)
	nw.passes = make([]Pass, 0, stages*(stages+1)/2)
	for k := 1; k <= stages; k++ {
		nw.passes = append(nw.passes, Pass{Mirror: true, Log2: uint32(k)})
		for j := k - 2; j >= 0; j-- {
			nw.passes = append(nw.passes, Pass{Log2: uint32(j)})
		}
	}
	return nw
}

// exchange runs operations [start, end) of pass over data.
func exchange[T any](pass Pass, data []T, key func(*T) uint32, start, end int) {
	n := uint32(len(data))
	for op := start; op < end; op++ {
		l, r := pass.Pair(uint32(op))
		if r >= n {
			continue
		}
		if key(&data[l]) > key(&data[r]) {
			data[l], data[r] = data[r], data[l]
		}
	}
}

// Sorter runs a Network over slices of T on a pool, one barrier per pass.
// Its chunk function is bound once, so Sort does not allocate.
type Sorter[T any] struct {
	nw   *Network
	pool *Pool
	key  func(*T) uint32

	data  []T
	pass  Pass
	chunk ChunkFunc
}

// NewSorter returns a sorter for slices of length n ordered by key.
func NewSorter[T any](n int, pool *Pool, key func(*T) uint32) *Sorter[T] {
	s := &Sorter[T]{nw: NewNetwork(n), pool: pool, key: key}
	s.chunk = s.run
	return s
}

// Sort orders data ascending by key. Equal keys end up adjacent in no
// particular order. data must have the length the sorter was built for.
func (s *Sorter[T]) Sort(data []T) {
	if len(data) != s.nw.n {
		panic(fmt.Sprintf("systems: sorting %d elements with a network for %d", len(data), s.nw.n))
	}
	s.data = data
	for _, pass := range s.nw.passes {
		s.pass = pass
		s.pool.Run(s.nw.ops, s.chunk)
	}
	s.data = nil
}

func (s *Sorter[T]) run(start, end, _ int) {
	exchange(s.pass, s.data, s.key, start, end)
}
