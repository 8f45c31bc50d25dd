package blur

import (
	"math"
	"testing"

	"github.com/banshee-data/hitcluster/internal/hits"
	"github.com/banshee-data/hitcluster/internal/testutil"
)

func mustImage(t *testing.T, hs []*hits.Hit) *Image {
	t.Helper()
	img, err := BuildImage(hs, testutil.FlatGeometry{})
	if err != nil {
		t.Fatalf("BuildImage() error = %v", err)
	}
	return img
}

func TestEstimateDirection(t *testing.T) {
	const tol = 1e-9
	r := 1 / math.Sqrt2

	tests := []struct {
		name       string
		hits       []*hits.Hit
		wantX      float64
		wantY      float64
		degenerate bool
	}{
		{"horizontal", testutil.HitLine(0, 100, 1, 0, 10, 10, 1), 1, 0, false},
		{"diagonal", testutil.HitLine(0, 100, 1, 1, 10, 10, 1), r, r, false},
		{"falling", testutil.HitLine(0, 100, 1, -1, 10, 10, 1), r, -r, false},
		{"vertical", testutil.HitLine(5, 100, 0, 3, 10, 10, 1), 0, 1, true},
		{"single hit", testutil.HitLine(5, 100, 0, 0, 1, 10, 1), 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := EstimateDirection(mustImage(t, tt.hits))
			if math.Abs(dir.X-tt.wantX) > tol || math.Abs(dir.Y-tt.wantY) > tol {
				t.Errorf("EstimateDirection() = (%f, %f), want (%f, %f)", dir.X, dir.Y, tt.wantX, tt.wantY)
			}
			if dir.Degenerate != tt.degenerate {
				t.Errorf("Degenerate = %v, want %v", dir.Degenerate, tt.degenerate)
			}
			if n := math.Hypot(dir.X, dir.Y); math.Abs(n-1) > tol {
				t.Errorf("direction not unit length: %f", n)
			}
		})
	}
}

func TestDeriveParams(t *testing.T) {
	cfg := Config{BlurWire: 6, BlurTick: 12, SigmaWire: 4, SigmaTick: 6}
	r := 1 / math.Sqrt2

	tests := []struct {
		name string
		dir  Direction
		want Params
	}{
		{"along wires", Direction{X: 1, Y: 0}, Params{BlurWire: 6, BlurTick: 1, SigmaWire: 4, SigmaTick: 1}},
		{"along ticks", Direction{X: 0, Y: 1}, Params{BlurWire: 1, BlurTick: 12, SigmaWire: 1, SigmaTick: 6}},
		{"diagonal", Direction{X: r, Y: r}, Params{BlurWire: 4, BlurTick: 8, SigmaWire: 3, SigmaTick: 4}},
		{"negative slope uses magnitude", Direction{X: r, Y: -r}, Params{BlurWire: 4, BlurTick: 8, SigmaWire: 3, SigmaTick: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveParams(tt.dir, cfg); got != tt.want {
				t.Errorf("DeriveParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDeriveParams_FloorAtOne(t *testing.T) {
	got := DeriveParams(Direction{X: 1, Y: 0}, Config{})
	want := Params{BlurWire: 1, BlurTick: 1, SigmaWire: 1, SigmaTick: 1}
	if got != want {
		t.Errorf("DeriveParams() = %+v, want %+v", got, want)
	}
}
