// Package hits owns the input data model of the clustering pipeline.
//
// Responsibilities: the Hit record, wire/plane identifiers, the Geometry
// contract used to map module-local wires onto a global wire axis, and
// grouping hits by readout plane.
// Key types: Hit, WireID, PlaneID, Geometry.
//
// Dependency rule: hits depends on nothing else in this module.
package hits
