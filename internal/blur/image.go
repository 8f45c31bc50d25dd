package blur

import (
	"math"
	"sort"

	"github.com/banshee-data/hitcluster/internal/hits"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ImageMargin is the number of empty wires and ticks kept around the hit
// bounding box so blurred charge near the edges is not clipped.
const ImageMargin = 20

// Bounds is the wire/tick window covered by an Image. Lower bounds are
// inclusive, upper bounds exclusive.
type Bounds struct {
	LowerWire int `json:"lower_wire"`
	UpperWire int `json:"upper_wire"`
	LowerTick int `json:"lower_tick"`
	UpperTick int `json:"upper_tick"`
}

// NWires returns the number of wire rows.
func (b Bounds) NWires() int { return b.UpperWire - b.LowerWire }

// NTicks returns the number of tick columns.
func (b Bounds) NTicks() int { return b.UpperTick - b.LowerTick }

// Image is the dense representation of one plane's hits.
//
// Charge holds, per cell, the largest hit integral that landed on it and
// Width the RMS of that same hit. The hit map keeps only that winning hit.
// An Image belongs to a single pipeline invocation.
type Image struct {
	Bounds Bounds
	Charge *mat.Dense // NWires x NTicks
	Width  *mat.Dense // NWires x NTicks

	hitMap map[int]map[int]*hits.Hit // global wire -> tick -> hit
	nHits  int
}

// BuildImage converts hits into an Image. Global wires come from geom;
// ticks are the truncated peak times. When several hits fall in one cell
// the one with the largest charge wins; on equal charge the first one seen
// is kept.
func BuildImage(hs []*hits.Hit, geom hits.Geometry) (*Image, error) {
	type placed struct {
		hit        *hits.Hit
		wire, tick int
	}

	points := make([]placed, 0, len(hs))
	lowerWire, upperWire := math.MaxInt, math.MinInt
	lowerTick, upperTick := math.MaxInt, math.MinInt
	for _, h := range hs {
		if h == nil {
			continue
		}
		p := placed{hit: h, wire: geom.GlobalWire(h.WireID), tick: int(h.PeakTime)}
		lowerWire = min(lowerWire, p.wire)
		upperWire = max(upperWire, p.wire)
		lowerTick = min(lowerTick, p.tick)
		upperTick = max(upperTick, p.tick)
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, ErrNoHits
	}

	if window := geom.ReadoutWindowSize(); window > 0 && (lowerTick < 0 || upperTick >= window) {
		diagf("hit ticks [%d, %d] extend past the readout window of %d ticks", lowerTick, upperTick, window)
	}

	b := Bounds{
		LowerWire: lowerWire - ImageMargin,
		UpperWire: upperWire + ImageMargin,
		LowerTick: lowerTick - ImageMargin,
		UpperTick: upperTick + ImageMargin,
	}

	img := &Image{
		Bounds: b,
		Charge: mat.NewDense(b.NWires(), b.NTicks(), nil),
		Width:  mat.NewDense(b.NWires(), b.NTicks(), nil),
		hitMap: make(map[int]map[int]*hits.Hit),
	}

	var nonPositive int
	for _, p := range points {
		if p.hit.Integral <= 0 {
			nonPositive++
			continue
		}
		x, y := p.wire-b.LowerWire, p.tick-b.LowerTick
		if p.hit.Integral <= img.Charge.At(x, y) {
			continue
		}
		img.Charge.Set(x, y, p.hit.Integral)
		img.Width.Set(x, y, p.hit.RMS)

		ticks, ok := img.hitMap[p.wire]
		if !ok {
			ticks = make(map[int]*hits.Hit)
			img.hitMap[p.wire] = ticks
		}
		if _, seen := ticks[p.tick]; !seen {
			img.nHits++
		}
		ticks[p.tick] = p.hit
	}

	if nonPositive > 0 {
		opsf("%d hits with non-positive charge left out of the image", nonPositive)
	}
	diagf("image built from %d hits: wires [%d, %d) ticks [%d, %d), %d occupied cells",
		len(points), b.LowerWire, b.UpperWire, b.LowerTick, b.UpperTick, img.nHits)

	return img, nil
}

// Dims returns the number of wire rows and tick columns.
func (img *Image) Dims() (nWires, nTicks int) {
	return img.Charge.Dims()
}

// HitAt returns the hit recorded at grid coordinates (x, y), or nil when
// the cell holds no original hit.
func (img *Image) HitAt(x, y int) *hits.Hit {
	ticks, ok := img.hitMap[x+img.Bounds.LowerWire]
	if !ok {
		return nil
	}
	return ticks[y+img.Bounds.LowerTick]
}

// TimeAt returns the peak time of the hit recorded at grid coordinates
// (x, y). The second result is false for cells without a hit.
func (img *Image) TimeAt(x, y int) (float64, bool) {
	h := img.HitAt(x, y)
	if h == nil {
		return 0, false
	}
	return h.PeakTime, true
}

// OccupiedCells returns the number of cells holding an original hit.
func (img *Image) OccupiedCells() int {
	return img.nHits
}

// Occupied calls fn for every cell holding an original hit, in ascending
// wire then tick order. Coordinates are global wire and tick numbers.
func (img *Image) Occupied(fn func(wire, tick int, h *hits.Hit)) {
	wires := make([]int, 0, len(img.hitMap))
	for w := range img.hitMap {
		wires = append(wires, w)
	}
	sort.Ints(wires)

	for _, w := range wires {
		ticks := make([]int, 0, len(img.hitMap[w]))
		for t := range img.hitMap[w] {
			ticks = append(ticks, t)
		}
		sort.Ints(ticks)
		for _, t := range ticks {
			fn(w, t, img.hitMap[w][t])
		}
	}
}

// TotalCharge returns the sum of all cells of the charge grid.
func (img *Image) TotalCharge() float64 {
	return GridSum(img.Charge)
}

// GridSum returns the sum of every element of m.
func GridSum(m *mat.Dense) float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return floats.Sum(raw.Data[:raw.Rows*raw.Cols])
	}
	var total float64
	for i := 0; i < raw.Rows; i++ {
		total += floats.Sum(raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols])
	}
	return total
}
