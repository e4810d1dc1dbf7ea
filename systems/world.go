package systems

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tick phases reported to a PhaseTimer, in execution order.
const (
	PhaseHashEntries = "hash_entries"
	PhaseSort        = "sort"
	PhaseBucketIndex = "bucket_index"
	PhaseUpdate      = "update"
)

// PhaseTimer receives a call at the start of each tick phase.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(name string)
}

// workerScratch is per-worker state written during the update pass.
// Padded so neighbouring workers don't share a cache line.
type workerScratch struct {
	events Events
	_      [48]byte
}

// World owns every buffer a tick touches. All of them are allocated by
// NewWorld; Step does not allocate.
type World struct {
	cfg Config

	buffers [2][]Particle
	cur     int
	entries []HashEntry
	buckets []uint32

	pool   *Pool
	sorter *Sorter[HashEntry]
	params Params

	forces     ForceModel
	integrator Integrator
	scratch    []workerScratch

	// Chunk functions bound once so dispatch does not allocate closures.
	hashFn   ChunkFunc
	bucketFn ChunkFunc
	updateFn ChunkFunc

	timer PhaseTimer

	tick       int64
	lastEvents Events
}

// NewWorld validates cfg and builds a world holding a copy of initial.
// pool is shared, not owned: the caller closes it.
func NewWorld(cfg Config, initial []Particle, pool *Pool) (*World, error) {
	if len(initial) == 0 {
		return nil, ErrNoParticles
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics config: %w", err)
	}
	if pool == nil {
		pool = NewPool(1, 0)
	}
	cfg.Centers = slices.Clone(cfg.Centers)

	n := len(initial)
	w := &World{
		cfg:     cfg,
		entries: make([]HashEntry, n),
		buckets: make([]uint32, cfg.TableSize),
		pool:    pool,
		sorter:  NewSorter(n, pool, entryHash),
		scratch: make([]workerScratch, pool.Workers()),
	}
	w.buffers[0] = make([]Particle, n)
	w.buffers[1] = make([]Particle, n)
	copy(w.buffers[0], initial)

	w.forces = NewForceModel(&w.cfg)
	w.integrator = NewIntegrator(&w.cfg)

	w.hashFn = w.hashChunk
	w.bucketFn = w.bucketChunk
	w.updateFn = w.updateChunk
	return w, nil
}

// SetPhaseTimer installs t to be notified at each phase start. nil disables.
func (w *World) SetPhaseTimer(t PhaseTimer) {
	w.timer = t
}

func (w *World) startPhase(name string) {
	if w.timer != nil {
		w.timer.StartPhase(name)
	}
}

// Step advances the simulation by one tick.
func (w *World) Step(params Params) {
	w.BuildEntries()
	w.SortEntries()
	w.BuildBucketIndex()
	w.Update(params)
}

// Update integrates every particle from the current buffer into the other
// one and swaps them. The bucket index must be current.
func (w *World) Update(params Params) {
	w.startPhase(PhaseUpdate)
	w.params = params
	for i := range w.scratch {
		w.scratch[i].events = Events{}
	}

	w.pool.Run(len(w.entries), w.updateFn)

	var ev Events
	for i := range w.scratch {
		ev.Add(w.scratch[i].events)
	}
	w.lastEvents = ev
	w.cur = 1 - w.cur
	w.tick++
}

func (w *World) updateChunk(start, end, worker int) {
	src := w.buffers[w.cur]
	dst := w.buffers[1-w.cur]
	params := &w.params
	var ev Events

	for i := start; i < end; i++ {
		p := src[i]

		var acc r2.Vec
		w.forEachNeighbor(src, i, func(n Neighbor) {
			acc = r2.Add(acc, w.forces.Pair(n.Delta, n.Dist))
		})
		acc = r2.Add(acc, w.forces.Global(p.Pos))

		pointerAcc, vel := w.forces.Pointer(p.Pos, p.Vel, params.PointerPress, params.PointerPos)
		p.Vel = vel
		acc = r2.Add(acc, pointerAcc)

		var pe Events
		dst[i], pe = w.integrator.Integrate(p, acc, params)
		ev.Add(pe)
	}
	w.scratch[worker].events.Add(ev)
}

// Particles returns the current buffer. It is valid until the next Step and
// must not be modified.
func (w *World) Particles() []Particle {
	return w.buffers[w.cur]
}

// Entries returns the hash entries of the last BuildEntries/SortEntries.
// After Step they describe the positions the tick integrated from; Reindex
// brings them up to date.
func (w *World) Entries() []HashEntry {
	return w.entries
}

// Buckets returns the bucket index.
func (w *World) Buckets() []uint32 {
	return w.buckets
}

// Config returns the physics configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// TableSize returns the number of hash buckets.
func (w *World) TableSize() uint32 {
	return w.cfg.TableSize
}

// Len returns the particle count.
func (w *World) Len() int {
	return len(w.entries)
}

// Tick returns the number of completed ticks since creation or Reset.
func (w *World) Tick() int64 {
	return w.tick
}

// LastEvents returns the boundary events of the most recent tick.
func (w *World) LastEvents() Events {
	return w.lastEvents
}

// Reset overwrites the current state with initial, which must have the
// original particle count.
func (w *World) Reset(initial []Particle) error {
	if len(initial) != len(w.entries) {
		return fmt.Errorf("%w: got %d, want %d", ErrBufferSize, len(initial), len(w.entries))
	}
	w.cur = 0
	copy(w.buffers[0], initial)
	clear(w.buffers[1])
	w.tick = 0
	w.lastEvents = Events{}
	return nil
}
