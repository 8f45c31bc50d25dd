package cluster

import (
	"github.com/banshee-data/hitcluster/internal/hits"
)

// HitLookup returns the original hit behind a grid cell, or nil for a cell
// that only carries blurred charge.
type HitLookup interface {
	HitAt(wire, tick int) *hits.Hit
}

// Cluster is the set of original hits recovered from one candidate.
type Cluster struct {
	Hits  []*hits.Hit `json:"hits"`
	Cells int         `json:"cells"` // candidate size before recovery
}

// RecoverHits maps each candidate back to the hits it covers and drops
// clusters that end up with fewer than minSize hits. Hits keep candidate
// cell order.
func RecoverHits(lookup HitLookup, candidates []Candidate, minSize int) []Cluster {
	clusters := make([]Cluster, 0, len(candidates))
	for i, cand := range candidates {
		var hs []*hits.Hit
		for _, c := range cand {
			if h := lookup.HitAt(c.Wire, c.Tick); h != nil {
				hs = append(hs, h)
			}
		}
		diagf("candidate %d: %d cells of which %d real hits", i, len(cand), len(hs))
		if len(hs) < minSize {
			tracef("candidate %d dropped: %d hits below minimum %d", i, len(hs), minSize)
			continue
		}
		clusters = append(clusters, Cluster{Hits: hs, Cells: len(cand)})
	}
	return clusters
}
