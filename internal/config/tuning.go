// Package config loads and validates the tuning parameters of the blurred
// clustering pipeline.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// ErrMissingUnitKernel is returned by Validate when the kernel multiplier
// set does not contain 1. The convolver falls back to multiplier 1, so a
// configuration without it can never run.
var ErrMissingUnitKernel = errors.New("kernels must contain the multiplier 1")

// TuningConfig is the root configuration for the pipeline. Every field is
// optional in JSON; Get* accessors supply defaults for omitted values.
type TuningConfig struct {
	// Blurring
	BlurWire          *int     `json:"blur_wire,omitempty"`            // blur radius in wires before direction scaling
	BlurTick          *int     `json:"blur_tick,omitempty"`            // blur radius in ticks before direction scaling
	SigmaWire         *float64 `json:"sigma_wire,omitempty"`           // Gaussian sigma in wires
	SigmaTick         *float64 `json:"sigma_tick,omitempty"`           // Gaussian sigma in ticks
	TickWidthRescale  *float64 `json:"tick_width_rescale,omitempty"`   // hit RMS per unit of tick scale
	MaxTickWidthScale *int     `json:"max_tick_width_scale,omitempty"` // upper clamp for the tick scale
	Kernels           []int    `json:"kernels,omitempty"`              // supported tick-width multipliers

	// Clustering
	ClusterWireDistance *int     `json:"cluster_wire_distance,omitempty"`
	ClusterTickDistance *int     `json:"cluster_tick_distance,omitempty"`
	NeighboursThreshold *int     `json:"neighbours_threshold,omitempty"`
	MinNeighbours       *int     `json:"min_neighbours,omitempty"`
	MinSize             *int     `json:"min_size,omitempty"`
	MinSeed             *float64 `json:"min_seed,omitempty"`
	TimeThreshold       *float64 `json:"time_threshold,omitempty"`
	ChargeThreshold     *float64 `json:"charge_threshold,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field set to the
// built-in default. It matches config/tuning.defaults.json.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		BlurWire:            ptrInt(6),
		BlurTick:            ptrInt(12),
		SigmaWire:           ptrFloat64(4),
		SigmaTick:           ptrFloat64(6),
		TickWidthRescale:    ptrFloat64(4),
		MaxTickWidthScale:   ptrInt(5),
		Kernels:             []int{1, 2, 3, 4, 5},
		ClusterWireDistance: ptrInt(2),
		ClusterTickDistance: ptrInt(2),
		NeighboursThreshold: ptrInt(0),
		MinNeighbours:       ptrInt(0),
		MinSize:             ptrInt(2),
		MinSeed:             ptrFloat64(0.1),
		TimeThreshold:       ptrFloat64(500),
		ChargeThreshold:     ptrFloat64(0.07),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Omitted fields
// fall back to defaults through the Get* accessors, so partial configs are
// safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and its parents.
// Panics if the file cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/<pkg>/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values can drive the pipeline.
// Only fields that are set are checked, except for the kernel set which is
// validated after defaulting.
func (c *TuningConfig) Validate() error {
	if !slices.Contains(c.GetKernels(), 1) {
		return fmt.Errorf("%w, got %v", ErrMissingUnitKernel, c.GetKernels())
	}
	for _, k := range c.GetKernels() {
		if k < 1 {
			return fmt.Errorf("kernel multipliers must be positive, got %d", k)
		}
	}

	nonNegInt := []struct {
		name string
		v    *int
	}{
		{"blur_wire", c.BlurWire},
		{"blur_tick", c.BlurTick},
		{"cluster_wire_distance", c.ClusterWireDistance},
		{"cluster_tick_distance", c.ClusterTickDistance},
		{"neighbours_threshold", c.NeighboursThreshold},
		{"min_neighbours", c.MinNeighbours},
	}
	for _, f := range nonNegInt {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", f.name, *f.v)
		}
	}

	nonNegFloat := []struct {
		name string
		v    *float64
	}{
		{"sigma_wire", c.SigmaWire},
		{"sigma_tick", c.SigmaTick},
		{"time_threshold", c.TimeThreshold},
	}
	for _, f := range nonNegFloat {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, *f.v)
		}
	}

	if c.TickWidthRescale != nil && *c.TickWidthRescale <= 0 {
		return fmt.Errorf("tick_width_rescale must be positive, got %f", *c.TickWidthRescale)
	}
	if c.MaxTickWidthScale != nil && *c.MaxTickWidthScale < 1 {
		return fmt.Errorf("max_tick_width_scale must be at least 1, got %d", *c.MaxTickWidthScale)
	}
	if c.MinSize != nil && *c.MinSize < 1 {
		return fmt.Errorf("min_size must be at least 1, got %d", *c.MinSize)
	}

	return nil
}

// GetBlurWire returns the blur_wire value or the default.
func (c *TuningConfig) GetBlurWire() int {
	if c.BlurWire == nil {
		return 6
	}
	return *c.BlurWire
}

// GetBlurTick returns the blur_tick value or the default.
func (c *TuningConfig) GetBlurTick() int {
	if c.BlurTick == nil {
		return 12
	}
	return *c.BlurTick
}

// GetSigmaWire returns the sigma_wire value or the default.
func (c *TuningConfig) GetSigmaWire() float64 {
	if c.SigmaWire == nil {
		return 4
	}
	return *c.SigmaWire
}

// GetSigmaTick returns the sigma_tick value or the default.
func (c *TuningConfig) GetSigmaTick() float64 {
	if c.SigmaTick == nil {
		return 6
	}
	return *c.SigmaTick
}

// GetTickWidthRescale returns the tick_width_rescale value or the default.
func (c *TuningConfig) GetTickWidthRescale() float64 {
	if c.TickWidthRescale == nil {
		return 4
	}
	return *c.TickWidthRescale
}

// GetMaxTickWidthScale returns the max_tick_width_scale value or the default.
func (c *TuningConfig) GetMaxTickWidthScale() int {
	if c.MaxTickWidthScale == nil {
		return 5
	}
	return *c.MaxTickWidthScale
}

// GetKernels returns a copy of the kernel multiplier set or the default.
func (c *TuningConfig) GetKernels() []int {
	if c.Kernels == nil {
		return []int{1, 2, 3, 4, 5}
	}
	return slices.Clone(c.Kernels)
}

// GetClusterWireDistance returns the cluster_wire_distance value or the default.
func (c *TuningConfig) GetClusterWireDistance() int {
	if c.ClusterWireDistance == nil {
		return 2
	}
	return *c.ClusterWireDistance
}

// GetClusterTickDistance returns the cluster_tick_distance value or the default.
func (c *TuningConfig) GetClusterTickDistance() int {
	if c.ClusterTickDistance == nil {
		return 2
	}
	return *c.ClusterTickDistance
}

// GetNeighboursThreshold returns the neighbours_threshold value or the default.
func (c *TuningConfig) GetNeighboursThreshold() int {
	if c.NeighboursThreshold == nil {
		return 0
	}
	return *c.NeighboursThreshold
}

// GetMinNeighbours returns the min_neighbours value or the default.
func (c *TuningConfig) GetMinNeighbours() int {
	if c.MinNeighbours == nil {
		return 0
	}
	return *c.MinNeighbours
}

// GetMinSize returns the min_size value or the default.
func (c *TuningConfig) GetMinSize() int {
	if c.MinSize == nil {
		return 2
	}
	return *c.MinSize
}

// GetMinSeed returns the min_seed value or the default.
func (c *TuningConfig) GetMinSeed() float64 {
	if c.MinSeed == nil {
		return 0.1
	}
	return *c.MinSeed
}

// GetTimeThreshold returns the time_threshold value or the default.
func (c *TuningConfig) GetTimeThreshold() float64 {
	if c.TimeThreshold == nil {
		return 500
	}
	return *c.TimeThreshold
}

// GetChargeThreshold returns the charge_threshold value or the default.
func (c *TuningConfig) GetChargeThreshold() float64 {
	if c.ChargeThreshold == nil {
		return 0.07
	}
	return *c.ChargeThreshold
}
