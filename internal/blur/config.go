package blur

import (
	"fmt"
	"slices"

	"github.com/banshee-data/hitcluster/internal/config"
)

// Config holds the blurring options of the pipeline.
type Config struct {
	BlurWire          int     // blur radius in wires before direction scaling
	BlurTick          int     // blur radius in ticks before direction scaling
	SigmaWire         float64 // Gaussian sigma in wires before direction scaling
	SigmaTick         float64 // Gaussian sigma in ticks before direction scaling
	TickWidthRescale  float64 // hit RMS that corresponds to one unit of tick scale
	MaxTickWidthScale int     // upper clamp for the per-hit tick scale
	Kernels           []int   // supported tick-width multipliers; must include 1
}

// DefaultConfig returns the built-in blurring defaults.
func DefaultConfig() Config {
	return ConfigFromTuning(config.DefaultTuningConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		BlurWire:          cfg.GetBlurWire(),
		BlurTick:          cfg.GetBlurTick(),
		SigmaWire:         cfg.GetSigmaWire(),
		SigmaTick:         cfg.GetSigmaTick(),
		TickWidthRescale:  cfg.GetTickWidthRescale(),
		MaxTickWidthScale: cfg.GetMaxTickWidthScale(),
		Kernels:           cfg.GetKernels(),
	}
}

// Enabled reports whether blurring is switched on. Setting both sigmas to
// zero disables it and the pipeline clusters the raw charge image.
func (c Config) Enabled() bool {
	return c.SigmaWire != 0 || c.SigmaTick != 0
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if !slices.Contains(c.Kernels, 1) {
		return fmt.Errorf("%w, got %v", config.ErrMissingUnitKernel, c.Kernels)
	}
	if c.BlurWire < 0 || c.BlurTick < 0 {
		return fmt.Errorf("blur radii must be non-negative, got wire=%d tick=%d", c.BlurWire, c.BlurTick)
	}
	if c.SigmaWire < 0 || c.SigmaTick < 0 {
		return fmt.Errorf("sigmas must be non-negative, got wire=%f tick=%f", c.SigmaWire, c.SigmaTick)
	}
	if c.TickWidthRescale <= 0 {
		return fmt.Errorf("TickWidthRescale must be positive, got %f", c.TickWidthRescale)
	}
	if c.MaxTickWidthScale < 1 {
		return fmt.Errorf("MaxTickWidthScale must be at least 1, got %d", c.MaxTickWidthScale)
	}
	return nil
}
