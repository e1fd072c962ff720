// Package detect finds the instants a recorded track enters the sight
// distance of each roadway target.
//
// Processing is a fixed sequence of stages over an immutable track:
//
//	Track + Registry
//	  -> Filter      (per-sample approaching candidates, "backflow")
//	  -> DetectCrossing (three-point bracket + confirmation)
//	  -> Refiner     (sub-sample crossing time)
//	  -> Deduplicator
//	  -> time-ordered []Record
//
// Detector wires the stages together and reports progress through an
// Observer. No stage performs I/O.
package detect
