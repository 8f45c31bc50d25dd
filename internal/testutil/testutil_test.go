package testutil

import (
	"errors"
	"testing"

	"github.com/banshee-data/hitcluster/internal/hits"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("something wrong"))
}

func TestFlatGeometry(t *testing.T) {
	g := FlatGeometry{}
	if got := g.GlobalWire(hits.WireID{TPC: 3, Wire: 17}); got != 17 {
		t.Errorf("GlobalWire() = %d, want 17", got)
	}
	if got := g.ReadoutWindowSize(); got != 4096 {
		t.Errorf("ReadoutWindowSize() = %d, want 4096", got)
	}
	if got := (FlatGeometry{Readout: 100}).ReadoutWindowSize(); got != 100 {
		t.Errorf("ReadoutWindowSize() = %d, want 100", got)
	}
}

func TestHitLine(t *testing.T) {
	line := HitLine(10, 100, 2, 0.5, 4, 50, 1)
	if len(line) != 4 {
		t.Fatalf("len = %d, want 4", len(line))
	}
	last := line[3]
	if last.WireID.Wire != 16 || last.PeakTime != 101.5 {
		t.Errorf("last hit = %v, want wire 16 t=101.5", last)
	}
}

func TestPartitionViolations(t *testing.T) {
	a, b := NewHit(1, 1, 1, 1), NewHit(2, 2, 2, 2)

	tests := []struct {
		name     string
		input    []*hits.Hit
		clusters [][]*hits.Hit
		want     int
	}{
		{"disjoint", []*hits.Hit{a, b}, [][]*hits.Hit{{a}, {b}}, 0},
		{"duplicate hit", []*hits.Hit{a, b}, [][]*hits.Hit{{a}, {a, b}}, 1},
		{"foreign hit", []*hits.Hit{a}, [][]*hits.Hit{{NewHit(1, 1, 1, 1)}}, 1},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartitionViolations(tt.input, tt.clusters); len(got) != tt.want {
				t.Errorf("PartitionViolations() = %v, want %d violations", got, tt.want)
			}
		})
	}

	AssertPartition(t, []*hits.Hit{a, b}, [][]*hits.Hit{{a}, {b}})
}
