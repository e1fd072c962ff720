// Package target models the fixed roadway objects whose sight distance a
// vehicle track is checked against.
//
// A Target is a closed variant: *Intersection (four approach legs, each
// with its own posted speed, reference bearing and optional stop bar) or
// *GenericObject (a single bearing and a fixed sight distance). Both are
// immutable once constructed and are collected in a Registry keyed by
// kind and id.
package target
