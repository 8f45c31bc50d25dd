package blur

import (
	"math"

	"github.com/banshee-data/hitcluster/internal/hits"
	"gonum.org/v1/gonum/stat"
)

// Direction is a unit vector in (wire, tick) space.
type Direction struct {
	X, Y float64
	// Degenerate is set when the least-squares fit was undefined and a
	// fallback direction was used.
	Degenerate bool
}

// EstimateDirection fits tick = a + m*wire over every occupied cell of the
// image by ordinary least squares and returns the unit vector along (1, m).
//
// The fit is undefined when every hit sits on one wire. If those hits span
// more than one tick the track runs along the tick axis and (0, 1) is
// returned; a single occupied cell has no direction and yields (1, 0).
func EstimateDirection(img *Image) Direction {
	var xs, ys []float64
	wires := make(map[int]struct{})
	ticks := make(map[int]struct{})
	img.Occupied(func(wire, tick int, _ *hits.Hit) {
		xs = append(xs, float64(wire))
		ys = append(ys, float64(tick))
		wires[wire] = struct{}{}
		ticks[tick] = struct{}{}
	})

	if len(wires) < 2 {
		if len(ticks) > 1 {
			diagf("all %d hits on one wire, using vertical direction", len(xs))
			return Direction{X: 0, Y: 1, Degenerate: true}
		}
		diagf("single occupied cell, no preferred direction")
		return Direction{X: 1, Y: 0, Degenerate: true}
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	norm := math.Hypot(1, slope)
	return Direction{X: 1 / norm, Y: slope / norm}
}

// Params are the blur radii and Gaussian sigmas after scaling by the
// estimated direction. Every field is at least 1 when blurring is enabled.
type Params struct {
	BlurWire  int `json:"blur_wire"`
	BlurTick  int `json:"blur_tick"`
	SigmaWire int `json:"sigma_wire"`
	SigmaTick int `json:"sigma_tick"`
}

// DeriveParams scales the configured radii and sigmas by the direction
// cosines: wire quantities by X and tick quantities by Y. Results are
// rounded and floored at 1 so no kernel axis collapses.
func DeriveParams(dir Direction, cfg Config) Params {
	scale := func(v, cosine float64) int {
		return int(math.Max(math.Abs(math.Round(v*cosine)), 1))
	}
	return Params{
		BlurWire:  scale(float64(cfg.BlurWire), dir.X),
		BlurTick:  scale(float64(cfg.BlurTick), dir.Y),
		SigmaWire: scale(cfg.SigmaWire, dir.X),
		SigmaTick: scale(cfg.SigmaTick, dir.Y),
	}
}
