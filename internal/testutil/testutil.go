// Package testutil provides shared test utilities and fixtures.
//
// It centralises hit fixtures and a trivial geometry so package tests can
// build realistic inputs without repeating setup code.
package testutil

import (
	"fmt"
	"testing"

	"github.com/banshee-data/hitcluster/internal/hits"
)

// FlatGeometry maps every wire onto its local wire number.
type FlatGeometry struct {
	Readout int
}

// GlobalWire implements hits.Geometry.
func (g FlatGeometry) GlobalWire(w hits.WireID) int { return w.Wire }

// ReadoutWindowSize implements hits.Geometry.
func (g FlatGeometry) ReadoutWindowSize() int {
	if g.Readout == 0 {
		return 4096
	}
	return g.Readout
}

// NewHit returns a hit on plane 0 of TPC 0.
func NewHit(wire int, peakTime, charge, rms float64) *hits.Hit {
	return &hits.Hit{
		WireID:   hits.WireID{Wire: wire},
		PeakTime: peakTime,
		Integral: charge,
		RMS:      rms,
	}
}

// HitLine returns n hits starting at (wire, tick), stepping dWire wires and
// dTick ticks between consecutive hits. Every hit has the same charge and RMS.
func HitLine(wire int, tick float64, dWire int, dTick float64, n int, charge, rms float64) []*hits.Hit {
	out := make([]*hits.Hit, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewHit(wire+i*dWire, tick+float64(i)*dTick, charge, rms))
	}
	return out
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertPartition checks that every clustered hit is one of the input hits
// and that no hit appears in two clusters.
func AssertPartition(t *testing.T, input []*hits.Hit, clusters [][]*hits.Hit) {
	t.Helper()
	for _, v := range PartitionViolations(input, clusters) {
		t.Error(v)
	}
}

// PartitionViolations lists every clustered hit that is not an input hit
// and every hit shared by two clusters.
func PartitionViolations(input []*hits.Hit, clusters [][]*hits.Hit) []string {
	known := make(map[*hits.Hit]bool, len(input))
	for _, h := range input {
		known[h] = true
	}
	var out []string
	seen := make(map[*hits.Hit]int)
	for ci, c := range clusters {
		for _, h := range c {
			if !known[h] {
				out = append(out, fmt.Sprintf("cluster %d contains a hit that was not in the input: %v", ci, h))
			}
			if prev, dup := seen[h]; dup {
				out = append(out, fmt.Sprintf("hit %v appears in clusters %d and %d", h, prev, ci))
			}
			seen[h] = ci
		}
	}
	return out
}
