package cluster

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TimeLookup reports the peak time of the original hit behind a grid cell.
type TimeLookup interface {
	// TimeAt returns the hit time at grid coordinates (wire, tick) and
	// false when the cell holds no original hit.
	TimeAt(wire, tick int) (float64, bool)
}

// Candidate is an ordered list of cells grown from one seed.
type Candidate []Cell

// ClustererInterface abstracts the clustering implementation so the
// pipeline can swap algorithms and tests can substitute fakes.
type ClustererInterface interface {
	// FindClusters groups cells of the blurred grid into candidates.
	// Candidates are returned in seed order (descending seed charge).
	FindClusters(blurred mat.Matrix, times TimeLookup) []Candidate

	// GetParams returns the current clustering parameters.
	GetParams() Params

	// SetParams updates the clustering parameters.
	SetParams(params Params)
}

// DensityClusterer grows clusters from the brightest unused cells of a
// blurred image.
type DensityClusterer struct {
	params Params
}

// NewDensityClusterer creates a clusterer with the given parameters.
func NewDensityClusterer(params Params) *DensityClusterer {
	return &DensityClusterer{params: params}
}

// GetParams returns the current clustering parameters.
func (c *DensityClusterer) GetParams() Params {
	return c.params
}

// SetParams updates the clustering parameters.
func (c *DensityClusterer) SetParams(params Params) {
	c.params = params
}

// FindClusters runs the seeded clustering loop over blurred.
//
// Cells are visited in descending charge order, ties going to the higher
// linear index. Each unused cell at or above MinSeed starts a candidate
// that is grown to a fixpoint, size-gated, hole-filled, stripped of
// peninsulas and size-gated again. The loop stops at the first seed below
// MinSeed.
func (c *DensityClusterer) FindClusters(blurred mat.Matrix, times TimeLookup) []Candidate {
	nWires, nTicks := blurred.Dims()
	s := newClusterState(Frame{NWires: nWires, NTicks: nTicks}, blurred, times, c.params)

	var out []Candidate
	for _, seed := range s.seedOrder() {
		if s.charge[seed] < c.params.MinSeed {
			break
		}
		if s.used[seed] {
			continue
		}

		cand := s.grow(s.frame.Cell(seed))
		if len(cand) < c.params.MinSize {
			tracef("seed %v: %d cells after growth, below minimum %d", s.frame.Cell(seed), len(cand), c.params.MinSize)
			s.release(cand)
			continue
		}

		cand = s.fillHoles(cand)
		diagf("seed %v: %d cells after filling holes", s.frame.Cell(seed), len(cand))

		cand = s.removePeninsulas(cand)
		diagf("seed %v: %d cells after removing peninsulas", s.frame.Cell(seed), len(cand))

		if len(cand) < c.params.MinSize {
			s.release(cand)
			continue
		}

		out = append(out, slices.Clone(cand))
	}

	return out
}

// clusterState is the mutable state of one FindClusters call.
type clusterState struct {
	frame  Frame
	params Params
	times  TimeLookup
	charge []float64 // blurred charge by linear index
	used   []bool    // cell belongs to a live or frozen candidate
	hitT   []float64 // hit times accumulated by the current candidate
}

func newClusterState(f Frame, blurred mat.Matrix, times TimeLookup, p Params) *clusterState {
	s := &clusterState{
		frame:  f,
		params: p,
		times:  times,
		charge: make([]float64, f.Len()),
		used:   make([]bool, f.Len()),
	}
	for i := range s.charge {
		cell := f.Cell(i)
		s.charge[i] = blurred.At(cell.Wire, cell.Tick)
	}
	return s
}

// seedOrder returns every linear index sorted by descending charge, ties
// broken by descending index.
func (s *clusterState) seedOrder() []int {
	order := make([]int, len(s.charge))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca, cb := s.charge[order[a]], s.charge[order[b]]
		if ca != cb {
			return ca > cb
		}
		return order[a] > order[b]
	})
	return order
}

func (s *clusterState) timeAt(c Cell) (float64, bool) {
	if s.times == nil {
		return 0, false
	}
	return s.times.TimeAt(c.Wire, c.Tick)
}

// nearAccumulatedTime reports whether t is within TimeThreshold of any
// hit time already in the candidate.
func (s *clusterState) nearAccumulatedTime(t float64) bool {
	for _, at := range s.hitT {
		d := t - at
		if d < 0 {
			d = -d
		}
		if d < s.params.TimeThreshold {
			return true
		}
	}
	return false
}

// passesGrowthGate is the time gate applied while growing: cells without a
// hit pass, the first hit of a candidate passes, any other hit must be
// near an accumulated time.
func (s *clusterState) passesGrowthGate(c Cell) (t float64, hasTime, ok bool) {
	t, hasTime = s.timeAt(c)
	if !hasTime || len(s.hitT) == 0 {
		return t, hasTime, true
	}
	return t, hasTime, s.nearAccumulatedTime(t)
}

func (s *clusterState) add(cand Candidate, c Cell, t float64, hasTime bool) Candidate {
	s.used[s.frame.Index(c)] = true
	if hasTime {
		s.hitT = append(s.hitT, t)
	}
	return append(cand, c)
}

func (s *clusterState) release(cand Candidate) {
	for _, c := range cand {
		s.used[s.frame.Index(c)] = false
	}
}

// usedNeighbours counts the used direct neighbours of c.
func (s *clusterState) usedNeighbours(c Cell) int {
	n := 0
	s.frame.Neighbours8(c, func(nb Cell) {
		if s.used[s.frame.Index(nb)] {
			n++
		}
	})
	return n
}

// grow starts a candidate at seed and adds window neighbours above the
// charge threshold until a full pass adds nothing. Cells appended during a
// pass are scanned in that same pass.
func (s *clusterState) grow(seed Cell) Candidate {
	s.hitT = s.hitT[:0]
	t, hasTime := s.timeAt(seed)
	cand := s.add(nil, seed, t, hasTime)

	for {
		added := 0
		for i := 0; i < len(cand); i++ {
			s.frame.Window(cand[i], s.params.WireDistance, s.params.TickDistance, func(n Cell) {
				idx := s.frame.Index(n)
				if s.used[idx] {
					return
				}
				t, hasTime, ok := s.passesGrowthGate(n)
				if !ok {
					return
				}
				if s.charge[idx] > s.params.ChargeThreshold {
					cand = s.add(cand, n, t, hasTime)
					added++
				}
			})
		}
		if added == 0 {
			return cand
		}
	}
}

// fillHoles adds unused, non-border direct neighbours of candidate cells
// that are surrounded by more than NeighboursThreshold used cells. Only
// cells holding a hit whose time is near an accumulated time qualify, so
// empty blurred cells never enter through this step.
func (s *clusterState) fillHoles(cand Candidate) Candidate {
	for i := 0; i < len(cand); i++ {
		s.frame.Neighbours8(cand[i], func(n Cell) {
			if s.frame.IsBorder(n) || s.used[s.frame.Index(n)] {
				return
			}
			t, hasTime := s.timeAt(n)
			if !hasTime || !s.nearAccumulatedTime(t) {
				return
			}
			if s.usedNeighbours(n) > s.params.NeighboursThreshold {
				cand = s.add(cand, n, t, true)
			}
		})
	}
	return cand
}

// removePeninsulas drops non-border cells with fewer than MinNeighbours
// used neighbours, repeating until a pass removes nothing. Cells are
// scanned from the back so removal does not disturb the scan.
func (s *clusterState) removePeninsulas(cand Candidate) Candidate {
	for {
		removed := 0
		for i := len(cand) - 1; i >= 0; i-- {
			c := cand[i]
			if s.frame.IsBorder(c) {
				continue
			}
			if s.usedNeighbours(c) < s.params.MinNeighbours {
				s.used[s.frame.Index(c)] = false
				cand = slices.Delete(cand, i, i+1)
				removed++
			}
		}
		if removed == 0 {
			return cand
		}
	}
}

// Verify at compile time that *DensityClusterer implements ClustererInterface.
var _ ClustererInterface = (*DensityClusterer)(nil)
