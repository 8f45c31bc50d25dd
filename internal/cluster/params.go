package cluster

import (
	"fmt"

	"github.com/banshee-data/hitcluster/internal/config"
)

// Params holds the density clustering thresholds.
type Params struct {
	WireDistance        int     // growth window half-width in wires
	TickDistance        int     // growth window half-width in ticks
	NeighboursThreshold int     // hole filling needs more used neighbours than this
	MinNeighbours       int     // peninsula removal keeps cells with at least this many
	MinSize             int     // minimum cells per candidate and hits per cluster
	MinSeed             float64 // minimum blurred charge to start a cluster
	TimeThreshold       float64 // maximum peak-time difference to an accumulated hit
	ChargeThreshold     float64 // blurred charge a grown cell must exceed
}

// DefaultParams returns the built-in clustering defaults.
func DefaultParams() Params {
	return ParamsFromTuning(config.DefaultTuningConfig())
}

// ParamsFromTuning builds Params from a loaded TuningConfig.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	return Params{
		WireDistance:        cfg.GetClusterWireDistance(),
		TickDistance:        cfg.GetClusterTickDistance(),
		NeighboursThreshold: cfg.GetNeighboursThreshold(),
		MinNeighbours:       cfg.GetMinNeighbours(),
		MinSize:             cfg.GetMinSize(),
		MinSeed:             cfg.GetMinSeed(),
		TimeThreshold:       cfg.GetTimeThreshold(),
		ChargeThreshold:     cfg.GetChargeThreshold(),
	}
}

// Validate checks if the parameters are usable.
func (p Params) Validate() error {
	if p.WireDistance < 0 || p.TickDistance < 0 {
		return fmt.Errorf("neighbour window must be non-negative, got wire=%d tick=%d", p.WireDistance, p.TickDistance)
	}
	if p.NeighboursThreshold < 0 || p.NeighboursThreshold > 8 {
		return fmt.Errorf("NeighboursThreshold must be in [0, 8], got %d", p.NeighboursThreshold)
	}
	if p.MinNeighbours < 0 || p.MinNeighbours > 8 {
		return fmt.Errorf("MinNeighbours must be in [0, 8], got %d", p.MinNeighbours)
	}
	if p.MinSize < 1 {
		return fmt.Errorf("MinSize must be at least 1, got %d", p.MinSize)
	}
	if p.TimeThreshold < 0 {
		return fmt.Errorf("TimeThreshold must be non-negative, got %f", p.TimeThreshold)
	}
	return nil
}
