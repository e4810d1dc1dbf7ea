package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxQueryResults caps the number of neighbors returned by NeighborsInto.
// The force pass is not capped.
const MaxQueryResults = 128

// Neighbor holds a nearby particle with precomputed spatial data.
type Neighbor struct {
	Index int
	Delta r2.Vec  // neighbor position minus query position
	Dist  float64 // Euclidean distance
}

// ForEachNeighbor calls visit for every particle within the interaction
// radius of particle i in the current buffer, excluding i itself. The index
// must describe the current buffer: after Step, call Reindex first.
func (w *World) ForEachNeighbor(i int, visit func(n Neighbor)) {
	w.forEachNeighbor(w.buffers[w.cur], i, visit)
}

// NeighborsInto appends the neighbors of particle i to dst (up to
// MaxQueryResults) and returns it. Reuse dst across calls to avoid allocations.
func (w *World) NeighborsInto(dst []Neighbor, i int) []Neighbor {
	w.forEachNeighbor(w.buffers[w.cur], i, func(n Neighbor) {
		if len(dst) < MaxQueryResults {
			dst = append(dst, n)
		}
	})
	return dst
}

// Nearest returns the particle closest to pos within the interaction
// radius, or ok=false when there is none. Same index rule as ForEachNeighbor.
func (w *World) Nearest(pos r2.Vec) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	w.forEachNear(w.buffers[w.cur], pos, -1, func(n Neighbor) {
		if n.Dist < bestDist {
			best, bestDist = n.Index, n.Dist
		}
	})
	return best, best >= 0
}

func (w *World) forEachNeighbor(src []Particle, i int, visit func(n Neighbor)) {
	w.forEachNear(src, src[i].Pos, i, visit)
}

// forEachNear scans the 3x3 cells around self, skipping index skip.
func (w *World) forEachNear(src []Particle, self r2.Vec, skip int, visit func(n Neighbor)) {
	center := CellOf(self, w.cfg.CellSize)
	radiusSq := w.cfg.InteractionRadius * w.cfg.InteractionRadius

	// Two neighborhood cells may share a hash; each bucket is walked once.
	var seen [9]uint32
	nSeen := 0

	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			h := HashCell(Cell{X: center.X + dx, Y: center.Y + dy}, w.cfg.TableSize)
			if containsHash(seen[:nSeen], h) {
				continue
			}
			seen[nSeen] = h
			nSeen++

			start, ok := w.bucketStart(h)
			if !ok {
				continue
			}
			for p := start; p < len(w.entries) && w.entries[p].Hash == h; p++ {
				j := int(w.entries[p].Index)
				if j == skip || j >= len(src) {
					continue
				}
				delta := r2.Sub(src[j].Pos, self)
				distSq := r2.Norm2(delta)
				if distSq > radiusSq {
					continue
				}
				visit(Neighbor{Index: j, Delta: delta, Dist: math.Sqrt(distSq)})
			}
		}
	}
}

func containsHash(hashes []uint32, h uint32) bool {
	for _, v := range hashes {
		if v == h {
			return true
		}
	}
	return false
}
