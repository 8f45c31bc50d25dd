// Package hitio reads hit files and writes clustering results.
//
// Hits are read from JSON Lines (one hits.Hit object per line) or CSV with
// the header cryostat,tpc,plane,wire,peak_time,integral,rms. Results are
// written as indented JSON or as a flat CSV with one row per clustered hit.
package hitio
