// Package ingest reads target definitions and recorded drives from disk.
//
// Targets come from two CSV layouts: intersections (13 columns, or 29 with
// per-leg stop bars) and generic objects (7 columns). Drives come from GPX
// 1.0 / 1.1 files or a plain time,lat,lon[,speed_mps] CSV. Every loader
// reads through an fsutil.FileSystem.
package ingest
