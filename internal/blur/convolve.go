package blur

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TickScale converts a hit RMS into the integer factor by which its tick
// blur is stretched: round(width/rescale) clamped to [1, maxScale].
func TickScale(width, rescale float64, maxScale int) int {
	s := int(math.Round(width / rescale))
	return max(min(s, maxScale), 1)
}

// Convolve spreads every nonzero cell of the image over its neighbours
// using the kernel selected by that cell's tick scale.
//
// Wire offsets cover [-BlurWire, BlurWire]. Tick offsets cover
// [-BlurTick*s, (BlurTick+1)*s) for tick scale s and are clipped to the
// kernel footprint. Contributions accumulate additively and the result is
// not normalised: kernels of different multipliers carry different mass.
func Convolve(img *Image, fam *KernelFamily, cfg Config) *mat.Dense {
	nWires, nTicks := img.Dims()
	out := mat.NewDense(nWires, nTicks, nil)
	raw := out.RawMatrix()
	p := fam.Params

	for x := 0; x < nWires; x++ {
		for y := 0; y < nTicks; y++ {
			charge := img.Charge.At(x, y)
			if charge == 0 {
				continue
			}

			ts := TickScale(img.Width.At(x, y), cfg.TickWidthRescale, cfg.MaxTickWidthScale)
			k := fam.Select(ts)

			for bx := -p.BlurWire; bx <= p.BlurWire; bx++ {
				dx := x + bx
				if dx < 0 || dx >= nWires {
					continue
				}
				for by := -p.BlurTick * ts; by < (p.BlurTick+1)*ts; by++ {
					dy := y + by
					if dy < 0 || dy >= nTicks {
						continue
					}
					w, ok := k.At(bx, by)
					if !ok {
						continue
					}
					raw.Data[dx*raw.Stride+dy] += w * charge
				}
			}
		}
	}

	return out
}

// GaussianBlur runs direction estimation, kernel construction and
// convolution on img. It returns the blurred grid, the derived blur
// parameters and the direction they were derived from. With blurring
// disabled the charge grid is copied unchanged and the returned Params and
// Direction are zero.
func GaussianBlur(img *Image, cfg Config) (*mat.Dense, Params, Direction, error) {
	if !cfg.Enabled() {
		diagf("blurring disabled (both sigmas zero)")
		return mat.DenseCopyOf(img.Charge), Params{}, Direction{}, nil
	}

	dir := EstimateDirection(img)
	p := DeriveParams(dir, cfg)
	diagf("direction (%.3f, %.3f): blur wire=%d tick=%d, sigma wire=%d tick=%d",
		dir.X, dir.Y, p.BlurWire, p.BlurTick, p.SigmaWire, p.SigmaTick)

	fam, err := NewKernelFamily(p, cfg.Kernels, cfg.MaxTickWidthScale)
	if err != nil {
		return nil, p, dir, fmt.Errorf("failed to build kernels: %w", err)
	}

	blurred := Convolve(img, fam, cfg)
	diagf("blurred mass %.2f from image mass %.2f", GridSum(blurred), img.TotalCharge())
	return blurred, p, dir, nil
}
