package hits

import (
	"fmt"
	"sort"
)

// PlaneID identifies one readout plane of a cryostat. It spans every TPC:
// the Geometry lays the TPCs side by side on one global wire axis, so a
// track crossing a TPC boundary stays on a single plane.
type PlaneID struct {
	Cryostat int `json:"cryostat"`
	Plane    int `json:"plane"`
}

// String renders the plane as "C:P".
func (p PlaneID) String() string {
	return fmt.Sprintf("C%d:P%d", p.Cryostat, p.Plane)
}

// Less orders planes by cryostat, then plane.
func (p PlaneID) Less(o PlaneID) bool {
	if p.Cryostat != o.Cryostat {
		return p.Cryostat < o.Cryostat
	}
	return p.Plane < o.Plane
}

// WireID locates a single wire: the module/plane/wire triple the geometry
// service maps onto a global wire index.
type WireID struct {
	Cryostat int `json:"cryostat"`
	TPC      int `json:"tpc"`
	Plane    int `json:"plane"`
	Wire     int `json:"wire"`
}

// PlaneID returns the plane this wire belongs to. The TPC is dropped.
func (w WireID) PlaneID() PlaneID {
	return PlaneID{Cryostat: w.Cryostat, Plane: w.Plane}
}

// String renders the wire as "C:T:P:W".
func (w WireID) String() string {
	return fmt.Sprintf("C%d:T%d:P%d:W%d", w.Cryostat, w.TPC, w.Plane, w.Wire)
}

// Hit is a reconstructed charge deposition on one wire.
// The pipeline holds non-owning pointers to caller hits and never mutates them.
type Hit struct {
	WireID   WireID  `json:"wire_id"`
	PeakTime float64 `json:"peak_time"` // ticks
	Integral float64 `json:"integral"`  // charge
	RMS      float64 `json:"rms"`       // time width in ticks
}

// String is used in trace logs.
func (h *Hit) String() string {
	return fmt.Sprintf("%s t=%.1f q=%.1f rms=%.2f", h.WireID, h.PeakTime, h.Integral, h.RMS)
}

// GroupByPlane splits hits by readout plane across all TPCs, preserving input order within
// each plane. The returned plane slice is sorted so callers iterate
// deterministically.
func GroupByPlane(hits []*Hit) (map[PlaneID][]*Hit, []PlaneID) {
	groups := make(map[PlaneID][]*Hit)
	for _, h := range hits {
		if h == nil {
			continue
		}
		id := h.WireID.PlaneID()
		groups[id] = append(groups[id], h)
	}

	planes := make([]PlaneID, 0, len(groups))
	for id := range groups {
		planes = append(planes, id)
	}
	sort.Slice(planes, func(i, j int) bool { return planes[i].Less(planes[j]) })

	return groups, planes
}
