// Package cluster owns the clustering stage of the pipeline.
//
// Responsibilities: seeded density clustering of a blurred image (growth,
// time gating, hole filling, peninsula removal) and recovery of the
// original hits behind each surviving cluster.
// Key types: Cell, Frame, Candidate, Cluster, DensityClusterer.
//
// Dependency rule: cluster may depend on hits and config, never on blur or
// pipeline. Images reach it through the TimeLookup and HitLookup
// interfaces.
package cluster
