package blur

import (
	"fmt"
	"slices"

	"github.com/banshee-data/hitcluster/internal/config"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kernel is a discretised 2D Gaussian stored row-major with one row per
// tick offset. Offsets run from -HalfWidth..HalfWidth in wires and
// -HalfHeight..HalfHeight in ticks.
type Kernel struct {
	Multiplier int
	HalfWidth  int
	HalfHeight int
	Weights    []float64
}

// Width returns the number of wire offsets.
func (k *Kernel) Width() int { return 2*k.HalfWidth + 1 }

// Height returns the number of tick offsets.
func (k *Kernel) Height() int { return 2*k.HalfHeight + 1 }

// At returns the weight at wire offset dw and tick offset dt. The second
// result is false outside the kernel footprint.
func (k *Kernel) At(dw, dt int) (float64, bool) {
	if dw < -k.HalfWidth || dw > k.HalfWidth || dt < -k.HalfHeight || dt > k.HalfHeight {
		return 0, false
	}
	return k.Weights[k.Width()*(dt+k.HalfHeight)+(dw+k.HalfWidth)], true
}

// Sum returns the total weight of the kernel.
func (k *Kernel) Sum() float64 {
	return floats.Sum(k.Weights)
}

// KernelFamily holds one kernel per supported tick-width multiplier. All
// kernels share the same footprint; only the tick sigma changes with the
// multiplier. Kernels are not normalised against one another, so the total
// mass differs between multipliers.
type KernelFamily struct {
	Params      Params
	Scale       int // MaxTickWidthScale + 1
	multipliers []int
	kernels     map[int]*Kernel
}

// NewKernelFamily builds a kernel for each multiplier. The footprint is
// (2*BlurWire+1) wires by (2*BlurTick*(maxTickWidthScale+1)+1) ticks so the
// widest tick scale still fits. Each weight is the product of a wire-axis
// normal density with sigma SigmaWire and a tick-axis normal density with
// sigma SigmaTick*multiplier.
func NewKernelFamily(p Params, multipliers []int, maxTickWidthScale int) (*KernelFamily, error) {
	if !slices.Contains(multipliers, 1) {
		return nil, fmt.Errorf("%w, got %v", config.ErrMissingUnitKernel, multipliers)
	}
	if p.SigmaWire < 1 || p.SigmaTick < 1 {
		return nil, fmt.Errorf("kernel sigmas must be at least 1, got wire=%d tick=%d", p.SigmaWire, p.SigmaTick)
	}

	fam := &KernelFamily{
		Params:  p,
		Scale:   maxTickWidthScale + 1,
		kernels: make(map[int]*Kernel, len(multipliers)),
	}

	halfWidth := p.BlurWire
	halfHeight := p.BlurTick * fam.Scale
	wireAxis := distuv.Normal{Mu: 0, Sigma: float64(p.SigmaWire)}

	for _, m := range multipliers {
		if m < 1 {
			return nil, fmt.Errorf("kernel multiplier must be positive, got %d", m)
		}
		if _, dup := fam.kernels[m]; dup {
			continue
		}

		tickAxis := distuv.Normal{Mu: 0, Sigma: float64(p.SigmaTick * m)}
		k := &Kernel{
			Multiplier: m,
			HalfWidth:  halfWidth,
			HalfHeight: halfHeight,
			Weights:    make([]float64, (2*halfWidth+1)*(2*halfHeight+1)),
		}
		for j := -halfHeight; j <= halfHeight; j++ {
			pj := tickAxis.Prob(float64(j))
			row := k.Width() * (j + halfHeight)
			for i := -halfWidth; i <= halfWidth; i++ {
				k.Weights[row+i+halfWidth] = wireAxis.Prob(float64(i)) * pj
			}
		}

		fam.kernels[m] = k
		fam.multipliers = append(fam.multipliers, m)
		tracef("kernel x%d: %dx%d, mass %.4f", m, k.Width(), k.Height(), k.Sum())
	}
	slices.Sort(fam.multipliers)

	return fam, nil
}

// Multipliers returns the configured multipliers in ascending order.
func (f *KernelFamily) Multipliers() []int {
	return slices.Clone(f.multipliers)
}

// Kernel returns the kernel for an exact multiplier, or nil.
func (f *KernelFamily) Kernel(multiplier int) *Kernel {
	return f.kernels[multiplier]
}

// Select returns the kernel with the largest configured multiplier that
// does not exceed tickScale. Multiplier 1 is always present, so Select
// never fails for tickScale >= 1.
func (f *KernelFamily) Select(tickScale int) *Kernel {
	for m := tickScale; m >= 1; m-- {
		if k, ok := f.kernels[m]; ok {
			return k
		}
	}
	return f.kernels[1]
}
