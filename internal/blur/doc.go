// Package blur owns the image stage of the clustering pipeline.
//
// Responsibilities: building the charge/width image from hits, estimating
// the dominant trajectory direction, constructing the family of Gaussian
// kernels, and convolving the image with the width-selected kernel.
// Key types: Image, Bounds, Direction, Params, Kernel, KernelFamily.
//
// Grids are gonum *mat.Dense with one row per wire and one column per tick.
//
// Dependency rule: blur may depend on hits and config, never on cluster or
// pipeline.
package blur
